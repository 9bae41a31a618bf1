package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"qr-dine/audit-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Reports service.ReportInterface
}

func NewHandler(svc service.ReportInterface) *Handler {
	return &Handler{Reports: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/status", h.getOrderStatus).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/events", h.getOrderEvents).Methods("GET")
	r.HandleFunc("/api/hotels/{hotelId}/totals/daily", h.getDailyTotals).Methods("GET")
}

func (h *Handler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	status, err := h.Reports.OrderStatus(r.Context(), orderID)
	if err != nil {
		writeLookupError(w, "order status", orderID, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) getOrderEvents(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	events, err := h.Reports.OrderHistory(r.Context(), orderID)
	if err != nil {
		writeLookupError(w, "order events", orderID, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) getDailyTotals(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]
	report, err := h.Reports.DailyTotals(r.Context(), hotelID, r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			http.Error(w, service.ErrInvalidDate.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("[audit-svc] ERROR: daily totals for hotel %s: %v", hotelID, err)
		http.Error(w, "Failed to load daily totals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeLookupError(w http.ResponseWriter, what, orderID string, err error) {
	if errors.Is(err, service.ErrOrderNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	log.Printf("[audit-svc] ERROR: %s for order %s: %v", what, orderID, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[audit-svc] ERROR: encoding response: %v", err)
	}
}
