package service

import (
	"context"
	"log"
	"time"

	"qr-dine/diner-svc/internal/domain"

	"golang.org/x/sync/errgroup"
)

// BackendFactory binds a backend to the access token of one session.
type BackendFactory func(token func() string) Backend

// Session owns the stores of one diner from QR scan to logout. Nothing in it
// is shared with other sessions.
type Session struct {
	ID        string
	CreatedAt time.Time

	Auth      *AuthStore
	QR        *QRStore
	Menu      *MenuStore
	Offers    *OffersStore
	Cart      *CartStore
	Checkout  *CheckoutStore
	Navigator *PendingNavigator

	backend     Backend
	unsubscribe func()
}

func NewSession(id string, newBackend BackendFactory, persister AuthPersister, publisher OrderEventPublisher) *Session {
	auth := NewAuthStore(persister)
	backend := newBackend(auth.AccessToken)
	navigator := NewPendingNavigator()

	qr := NewQRStore(backend, auth, navigator)
	cart := NewCartStore(backend)
	offers := NewOffersStore(backend)

	sess := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Auth:      auth,
		QR:        qr,
		Menu:      NewMenuStore(backend),
		Offers:    offers,
		Cart:      cart,
		Checkout:  NewCheckoutStore(backend, cart, offers, qr, publisher),
		Navigator: navigator,
		backend:   backend,
	}

	// The dining scope must not outlive the sign-in it was granted under.
	sess.unsubscribe = auth.Subscribe(func(state AuthState) {
		if !state.IsAuthenticated && qr.IsAuthenticated() {
			log.Printf("[diner-svc] session %s signed out, clearing table scope", id)
			qr.ClearScanData()
		}
	})
	return sess
}

// EnterTable scans the QR params and, when the table session is granted,
// scopes the menu, offers and cart to it and loads all three.
func (s *Session) EnterTable(ctx context.Context, params domain.ScanParams) *domain.ScanData {
	data := s.QR.Scan(ctx, params)
	if data == nil {
		return nil
	}
	s.ApplyScanScope()
	s.LoadScopedData(ctx)
	return data
}

// ApplyScanScope copies the QR store's scope into the scoped stores.
func (s *Session) ApplyScanScope() {
	scope := s.QR.Scope()
	s.Menu.SetHotelAndBranch(scope.HotelID, scope.BranchID)
	s.Offers.SetHotelAndBranch(scope.HotelID, scope.BranchID)
	s.Cart.SetHotelAndBranch(scope.HotelID, scope.BranchID)
}

// LoadScopedData hydrates menu, offers and cart concurrently. Each store keeps
// its own error; this never fails.
func (s *Session) LoadScopedData(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		s.Menu.InitializeMenu(ctx)
		return nil
	})
	g.Go(func() error {
		s.Offers.InitializeOffersData(ctx)
		return nil
	})
	g.Go(func() error {
		s.Cart.InitializeCart(ctx)
		return nil
	})
	_ = g.Wait()
}

// Logout tells the backend the session is over and signs out locally. The
// remote call is best effort: its failure is logged and the local logout
// happens regardless.
func (s *Session) Logout(ctx context.Context, allSessions bool) {
	var err error
	if allSessions {
		err = s.backend.LogoutAllSessions(ctx)
	} else {
		err = s.backend.LogoutCurrentSession(ctx)
	}
	if err != nil {
		log.Printf("[diner-svc] WARNING: remote logout for session %s failed: %v", s.ID, err)
	}

	s.Auth.Logout(ctx)
	s.Checkout.ClearCheckoutData()
	s.Offers.ClearSelectedOffer()
	s.Offers.RemoveAppliedOffer()
}

// Close detaches the session's subscriptions.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
