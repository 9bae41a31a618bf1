package service

import (
	"context"
	"log"
	"sync"
	"time"

	"qr-dine/diner-svc/internal/domain"
)

const (
	msgCheckoutScopeMissing = "Hotel and branch information is required to checkout."
	msgCheckoutFailed       = "Checkout failed. Please try again."
	msgOrderIDMissing       = "Order ID is required to start payment."
	msgPaymentInitFailed    = "Failed to initiate payment."
	msgTransactionIDMissing = "Transaction ID is required to check payment status."
	msgPaymentStatusFailed  = "Failed to check payment status."
)

type CheckoutPhase string

const (
	PhaseIdle              CheckoutPhase = "idle"
	PhaseCheckingOut       CheckoutPhase = "checkingOut"
	PhaseCheckedOut        CheckoutPhase = "checkedOut"
	PhaseCheckoutFailed    CheckoutPhase = "checkoutFailed"
	PhaseInitiatingPayment CheckoutPhase = "initiatingPayment"
	PhasePaymentReady      CheckoutPhase = "paymentReady"
	PhasePaymentFailed     CheckoutPhase = "paymentFailed"
	PhaseConfirmingStatus  CheckoutPhase = "confirmingStatus"
	PhaseSettled           CheckoutPhase = "settled"
	PhaseStatusFailed      CheckoutPhase = "statusFailed"
)

// CheckoutState keeps the three snapshots of one order separately; each is
// fetched at a different time and can fail on its own.
type CheckoutState struct {
	Phase               CheckoutPhase               `json:"phase"`
	CheckoutData        *domain.CheckoutResult      `json:"checkoutData,omitempty"`
	CheckoutFormData    *domain.CheckoutFormData    `json:"checkoutFormData,omitempty"`
	PaymentInitData     *domain.PaymentSession      `json:"paymentInitData,omitempty"`
	PaymentStatusData   *domain.PaymentStatusResult `json:"paymentStatusData,omitempty"`
	IsCheckingOut       bool                        `json:"isCheckingOut"`
	IsInitiatingPayment bool                        `json:"isInitiatingPayment"`
	IsCheckingStatus    bool                        `json:"isCheckingStatus"`
	Error               string                      `json:"error,omitempty"`
}

type CheckoutStore struct {
	mu        sync.RWMutex
	state     CheckoutState
	gen       uint64
	inFlight  [3]int
	gateway   CheckoutGateway
	cart      *CartStore
	offers    *OffersStore
	qr        *QRStore
	publisher OrderEventPublisher
}

const (
	stepCheckout = iota
	stepPayment
	stepStatus
)

func NewCheckoutStore(gateway CheckoutGateway, cart *CartStore, offers *OffersStore, qr *QRStore, publisher OrderEventPublisher) *CheckoutStore {
	return &CheckoutStore{
		state:     CheckoutState{Phase: PhaseIdle},
		gateway:   gateway,
		cart:      cart,
		offers:    offers,
		qr:        qr,
		publisher: publisher,
	}
}

// PerformCheckout places the order for the cart's scope. The table and offer
// code fall back to the scanned table and the applied offer when the form
// leaves them empty. It returns nil on failure with State().Error set.
func (s *CheckoutStore) PerformCheckout(ctx context.Context, form domain.CheckoutFormData) *domain.CheckoutResult {
	var scope domain.Scope
	if s.cart != nil {
		scope = s.cart.Scope()
	}
	if !scope.Complete() {
		s.mu.Lock()
		s.state.Error = msgCheckoutScopeMissing
		s.state.Phase = PhaseCheckoutFailed
		s.mu.Unlock()
		return nil
	}

	if form.TableID == "" && s.qr != nil {
		form.TableID = s.qr.TableID()
	}
	if form.OfferCode == "" && s.offers != nil {
		if applied := s.offers.AppliedOffer(); applied != nil {
			form.OfferCode = applied.Code
		}
	}

	req := domain.CheckoutRequest{
		HotelID:       scope.HotelID,
		BranchID:      scope.BranchID,
		TableID:       form.TableID,
		PaymentMethod: form.PaymentMethod,
		CustomerNote:  form.CustomerNote,
		CoinsToUse:    form.CoinsToUse,
		OfferCode:     form.OfferCode,
	}

	gen := s.begin(stepCheckout, PhaseCheckingOut)
	result, err := s.gateway.Checkout(ctx, req)
	if err == nil && result != nil && result.Declined() {
		err = &domain.APIError{Message: result.Message}
	}
	if err == nil && result == nil {
		err = &domain.APIError{}
	}

	s.mu.Lock()
	if !s.finish(stepCheckout, gen) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		log.Printf("[diner-svc] ERROR: checkout for %s failed: %v", scope.Key(), err)
		s.state.Error = domain.UserMessage(err, msgCheckoutFailed)
		s.state.Phase = PhaseCheckoutFailed
		s.mu.Unlock()
		return nil
	}
	s.state.CheckoutData = result
	s.state.CheckoutFormData = &form
	s.state.Phase = PhaseCheckedOut
	s.mu.Unlock()

	log.Printf("[diner-svc] order %s placed for %s table=%s", result.Data.ID, scope.Key(), form.TableID)
	s.publish(ctx, domain.OrderEvent{
		Type:     domain.EventCheckoutCompleted,
		OrderID:  result.Data.ID,
		HotelID:  scope.HotelID,
		BranchID: scope.BranchID,
		TableID:  form.TableID,
		Amount:   result.Data.TotalAmount,
		Status:   result.Data.Status,
	})
	return result
}

// InitiatePayment opens a gateway transaction for an existing order. It does
// not depend on PerformCheckout having run in this store.
func (s *CheckoutStore) InitiatePayment(ctx context.Context, orderID string, amount float64, user domain.User) *domain.PaymentSession {
	if orderID == "" {
		s.mu.Lock()
		s.state.Error = msgOrderIDMissing
		s.state.Phase = PhasePaymentFailed
		s.mu.Unlock()
		return nil
	}

	req := domain.PaymentInitRequest{
		OrderID:   orderID,
		Amount:    amount,
		UserID:    user.ID,
		UserPhone: user.Phone,
		UserName:  user.Name,
		UserEmail: user.Email,
	}

	gen := s.begin(stepPayment, PhaseInitiatingPayment)
	session, err := s.gateway.InitiateRazorpayPayment(ctx, req)
	if err == nil && session != nil && session.Declined() {
		err = &domain.APIError{Message: session.Message}
	}
	if err == nil && session == nil {
		err = &domain.APIError{}
	}

	s.mu.Lock()
	if !s.finish(stepPayment, gen) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		log.Printf("[diner-svc] ERROR: payment initiation for order %s failed: %v", orderID, err)
		s.state.Error = domain.UserMessage(err, msgPaymentInitFailed)
		s.state.Phase = PhasePaymentFailed
		s.mu.Unlock()
		return nil
	}
	s.state.PaymentInitData = session
	s.state.Phase = PhasePaymentReady
	s.mu.Unlock()

	s.publish(ctx, domain.OrderEvent{
		Type:          domain.EventPaymentInitiated,
		OrderID:       orderID,
		TransactionID: session.Data.TransactionID,
		Amount:        amount,
	})
	return session
}

// CheckPaymentStatus refreshes the status snapshot. Repeated calls are safe;
// whichever response resolves last wins. The caller decides when to stop.
func (s *CheckoutStore) CheckPaymentStatus(ctx context.Context, transactionID string) *domain.PaymentStatusResult {
	if transactionID == "" {
		s.mu.Lock()
		s.state.Error = msgTransactionIDMissing
		s.state.Phase = PhaseStatusFailed
		s.mu.Unlock()
		return nil
	}

	gen := s.begin(stepStatus, PhaseConfirmingStatus)
	result, err := s.gateway.CheckPaymentStatus(ctx, transactionID)
	if err == nil && result == nil {
		err = &domain.APIError{}
	}

	s.mu.Lock()
	if !s.finish(stepStatus, gen) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		log.Printf("[diner-svc] ERROR: payment status for %s failed: %v", transactionID, err)
		s.state.Error = domain.UserMessage(err, msgPaymentStatusFailed)
		s.state.Phase = PhaseStatusFailed
		s.mu.Unlock()
		return nil
	}
	s.state.PaymentStatusData = result
	if result.Data.Status.Terminal() {
		s.state.Phase = PhaseSettled
	} else {
		s.state.Phase = PhaseConfirmingStatus
	}
	s.mu.Unlock()

	if result.Data.Status.Terminal() {
		s.publish(ctx, domain.OrderEvent{
			Type:          domain.EventPaymentStatus,
			OrderID:       result.Data.OrderID,
			TransactionID: transactionID,
			Amount:        result.Data.Amount,
			Status:        string(result.Data.Status),
		})
	}
	return result
}

// ClearCheckoutData drops all four snapshots and the error. Responses still
// in flight from before the clear are ignored.
func (s *CheckoutStore) ClearCheckoutData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.inFlight = [3]int{}
	s.state = CheckoutState{Phase: PhaseIdle}
}

func (s *CheckoutStore) State() CheckoutState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *CheckoutStore) begin(step int, phase CheckoutPhase) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight[step]++
	s.setLoadingLocked()
	s.state.Phase = phase
	s.state.Error = ""
	return s.gen
}

// finish must be called with mu held. It reports false when the response
// belongs to data that has since been cleared.
func (s *CheckoutStore) finish(step int, gen uint64) bool {
	if gen != s.gen {
		return false
	}
	if s.inFlight[step] > 0 {
		s.inFlight[step]--
	}
	s.setLoadingLocked()
	return true
}

func (s *CheckoutStore) setLoadingLocked() {
	s.state.IsCheckingOut = s.inFlight[stepCheckout] > 0
	s.state.IsInitiatingPayment = s.inFlight[stepPayment] > 0
	s.state.IsCheckingStatus = s.inFlight[stepStatus] > 0
}

func (s *CheckoutStore) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("[diner-svc] WARNING: failed to publish %s for order %s: %v", event.Type, event.OrderID, err)
	}
}
