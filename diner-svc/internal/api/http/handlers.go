package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"qr-dine/diner-svc/internal/domain"
	"qr-dine/diner-svc/internal/service"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// pollGrace covers the last status request after the final wait.
const pollGrace = 10 * time.Second

type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

type Handler struct {
	Sessions *service.Registry
	QRCodes  service.QRCodeGenerator
	Poll     PollConfig
}

func NewHandler(sessions *service.Registry, qrcodes service.QRCodeGenerator, poll PollConfig) *Handler {
	if poll.Interval <= 0 {
		poll.Interval = 2 * time.Second
	}
	if poll.MaxAttempts <= 0 {
		poll.MaxAttempts = 10
	}
	return &Handler{
		Sessions: sessions,
		QRCodes:  qrcodes,
		Poll:     poll,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/tokens", h.updateTokens).Methods("PUT")
	r.HandleFunc("/api/auth/user", h.updateUser).Methods("PUT")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")

	r.HandleFunc("/qr", h.scanQR).Methods("GET")
	r.HandleFunc("/api/session", h.getSession).Methods("GET")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{productId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{productId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart/visibility", h.setCartVisibility).Methods("PUT")

	r.HandleFunc("/api/offers", h.getOffers).Methods("GET")
	r.HandleFunc("/api/offers/select", h.selectOffer).Methods("POST")
	r.HandleFunc("/api/offers/selected", h.clearSelectedOffer).Methods("DELETE")
	r.HandleFunc("/api/offers/apply", h.applyOffer).Methods("POST")
	r.HandleFunc("/api/offers/applied", h.removeAppliedOffer).Methods("DELETE")

	r.HandleFunc("/api/checkout", h.checkout).Methods("POST")
	r.HandleFunc("/api/checkout", h.clearCheckout).Methods("DELETE")
	r.HandleFunc("/api/payments", h.initiatePayment).Methods("POST")
	r.HandleFunc("/api/payments/{transactionId}/status", h.paymentStatus).Methods("GET")

	r.HandleFunc("/api/tables/qrcode", h.tableQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "diner-svc",
		"sessions":  h.Sessions.Len(),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

type loginRequest struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AccessToken == "" {
		http.Error(w, "accessToken is required", http.StatusBadRequest)
		return
	}
	sess.Auth.Login(r.Context(), req.User, req.AccessToken, req.RefreshToken)
	writeJSON(w, http.StatusOK, sess.Auth.State())
}

func (h *Handler) updateTokens(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Auth.UpdateTokens(r.Context(), req.AccessToken, req.RefreshToken)
	writeJSON(w, http.StatusOK, sess.Auth.State())
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Auth.UpdateUser(r.Context(), user)
	writeJSON(w, http.StatusOK, sess.Auth.State())
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Logout(r.Context(), r.URL.Query().Get("all") == "true")
	h.endSession(w, sess)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) scanQR(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	params := domain.ScanParamsFromQuery(r.URL.Query())
	log.Printf("[diner-svc] scan hotel=%s branch=%s table=%s session=%s",
		params.HotelID, params.BranchID, params.TableNo, sess.ID)

	status := http.StatusOK
	if data := sess.EnterTable(r.Context(), params); data == nil {
		status = http.StatusUnprocessableEntity
	}
	navigate(w, r, sess, status, sess.QR.State())
}

type sessionSnapshot struct {
	ID       string                `json:"id"`
	Auth     service.AuthState     `json:"auth"`
	QR       service.QRState       `json:"qr"`
	Cart     service.CartState     `json:"cart"`
	Offers   service.OffersState   `json:"offers"`
	Checkout service.CheckoutState `json:"checkout"`
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	auth := sess.Auth.State()
	auth.AccessToken = ""
	auth.RefreshToken = ""
	writeJSON(w, http.StatusOK, sessionSnapshot{
		ID:       sess.ID,
		Auth:     auth,
		QR:       sess.QR.State(),
		Cart:     sess.Cart.State(),
		Offers:   sess.Offers.State(),
		Checkout: sess.Checkout.State(),
	})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Menu.InitializeMenu(r.Context())

	q := r.URL.Query()
	if _, set := q["category"]; set {
		sess.Menu.SelectCategory(q.Get("category"))
	}
	if _, set := q["q"]; set {
		sess.Menu.SetSearchQuery(q.Get("q"))
	}

	state := sess.Menu.State()
	status := http.StatusOK
	if state.Error != "" && !state.IsLoaded {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]interface{}{
		"categories":       state.Categories,
		"items":            sess.Menu.FilteredItems(),
		"selectedCategory": state.SelectedCategory,
		"searchQuery":      state.SearchQuery,
		"error":            state.Error,
	})
}

type cartResponse struct {
	service.CartState
	ShouldShowCart bool `json:"shouldShowCart"`
}

func (h *Handler) writeCart(w http.ResponseWriter, sess *service.Session, status int) {
	writeJSON(w, status, cartResponse{CartState: sess.Cart.State(), ShouldShowCart: sess.Cart.ShouldShowCart()})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("refresh") == "true" {
		sess.Cart.FetchCart(r.Context())
	} else {
		sess.Cart.InitializeCart(r.Context())
	}
	h.writeCart(w, sess, http.StatusOK)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if item.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}
	// The menu is the price authority once it knows the product.
	if menuItem, found := sess.Menu.Item(item.ProductID); found {
		item.Price = menuItem.Price
		if item.Name == "" {
			item.Name = menuItem.Name
		}
		if item.Image == "" {
			item.Image = menuItem.Image
		}
	}
	if err := sess.Cart.AddItem(item); err != nil {
		writeCartError(w, err)
		return
	}
	h.writeCart(w, sess, http.StatusCreated)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.Cart.UpdateQuantity(mux.Vars(r)["productId"], req.Quantity); err != nil {
		writeCartError(w, err)
		return
	}
	h.writeCart(w, sess, http.StatusOK)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.Cart.RemoveItem(mux.Vars(r)["productId"]); err != nil {
		writeCartError(w, err)
		return
	}
	h.writeCart(w, sess, http.StatusOK)
}

func (h *Handler) setCartVisibility(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Cart.SetCartVisible(req.Visible)
	h.writeCart(w, sess, http.StatusOK)
}

func (h *Handler) getOffers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Offers.InitializeOffersData(r.Context())
	writeJSON(w, http.StatusOK, sess.Offers.State())
}

type offerRequest struct {
	Code string `json:"code"`
}

func (h *Handler) selectOffer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offer, found := sess.Offers.FindOffer(req.Code)
	if !found {
		writeError(w, http.StatusNotFound, "Offer not found")
		return
	}
	sess.Offers.SelectOffer(offer)
	writeJSON(w, http.StatusOK, sess.Offers.State())
}

func (h *Handler) clearSelectedOffer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Offers.ClearSelectedOffer()
	writeJSON(w, http.StatusOK, sess.Offers.State())
}

// applyOffer applies the offer named in the body, or the selected one when
// the body names none.
func (h *Handler) applyOffer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req offerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if req.Code == "" {
		if !sess.Offers.ApplySelectedOffer() {
			writeError(w, http.StatusBadRequest, "No offer selected")
			return
		}
	} else {
		offer, found := sess.Offers.FindOffer(req.Code)
		if !found {
			writeError(w, http.StatusNotFound, "Offer not found")
			return
		}
		if offer.Expired(time.Now()) {
			writeError(w, http.StatusConflict, "Offer has expired")
			return
		}
		sess.Offers.ApplyOffer(offer)
	}

	subtotal := sess.Cart.State().TotalAmount
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"offers":   sess.Offers.State(),
		"subtotal": subtotal,
		"discount": sess.Offers.Discount(subtotal),
	})
}

func (h *Handler) removeAppliedOffer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Offers.RemoveAppliedOffer()
	writeJSON(w, http.StatusOK, sess.Offers.State())
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var form domain.CheckoutFormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := sess.Checkout.PerformCheckout(r.Context(), form)
	if result == nil {
		writeJSON(w, http.StatusUnprocessableEntity, sess.Checkout.State())
		return
	}
	sess.Cart.Invalidate()
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) clearCheckout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Checkout.ClearCheckoutData()
	w.WriteHeader(http.StatusNoContent)
}

type paymentRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

func (h *Handler) initiatePayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var user domain.User
	if u := sess.Auth.User(); u != nil {
		user = *u
	}
	session := sess.Checkout.InitiatePayment(r.Context(), req.OrderID, req.Amount, user)
	if session == nil {
		writeJSON(w, http.StatusBadGateway, sess.Checkout.State())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// paymentStatus checks once, or with ?wait=true keeps polling until the
// payment settles or the poll budget runs out.
func (h *Handler) paymentStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	transactionID := mux.Vars(r)["transactionId"]

	var result *domain.PaymentStatusResult
	if r.URL.Query().Get("wait") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), h.Poll.Interval*time.Duration(h.Poll.MaxAttempts)+pollGrace)
		defer cancel()
		poller := service.NewPaymentPoller(sess.Checkout, rate.NewLimiter(rate.Every(h.Poll.Interval), 1), h.Poll.MaxAttempts)
		var err error
		result, err = poller.Poll(ctx, transactionID)
		if err != nil {
			log.Printf("[diner-svc] WARNING: polling %s stopped: %v", transactionID, err)
		}
	} else {
		result = sess.Checkout.CheckPaymentStatus(r.Context(), transactionID)
	}

	if result == nil {
		writeJSON(w, http.StatusBadGateway, sess.Checkout.State())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) tableQRCode(w http.ResponseWriter, r *http.Request) {
	params := domain.ScanParamsFromQuery(r.URL.Query())
	png, err := h.QRCodes.Generate(params)
	if errors.Is(err, domain.ErrMissingScanParams) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingScope):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
