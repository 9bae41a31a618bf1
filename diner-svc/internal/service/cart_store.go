package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"qr-dine/diner-svc/internal/domain"

	"golang.org/x/sync/singleflight"
)

const msgCartLoadFailed = "Failed to load cart."

var (
	ErrItemNotFound    = errors.New("item is not in the cart")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

type CartState struct {
	Scope         domain.Scope      `json:"scope"`
	Items         []domain.CartItem `json:"items"`
	TotalItems    int               `json:"totalItems"`
	TotalAmount   float64           `json:"totalAmount"`
	IsLoading     bool              `json:"isLoading"`
	IsLoaded      bool              `json:"isLoaded"`
	IsCartVisible bool              `json:"isCartVisible"`
	Error         string            `json:"error,omitempty"`
}

// CartStore holds one cart for the current hotel/branch scope. The cart is
// fetched at most once per scope until the scope changes or it is invalidated.
type CartStore struct {
	mu      sync.RWMutex
	state   CartState
	fetcher CartFetcher
	flight  singleflight.Group
}

func NewCartStore(fetcher CartFetcher) *CartStore {
	return &CartStore{fetcher: fetcher}
}

// SetHotelAndBranch moves the cart to a new scope. Items of the old scope are
// dropped so two scopes never mix.
func (s *CartStore) SetHotelAndBranch(hotelID, branchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := domain.Scope{HotelID: hotelID, BranchID: branchID}
	if scope == s.state.Scope {
		return
	}
	s.state.Scope = scope
	s.state.Items = nil
	s.state.IsLoaded = false
	s.state.IsLoading = false
	s.state.Error = ""
	s.recomputeLocked()
}

// InitializeCart hydrates the cart unless it is already loaded for the current
// scope. Concurrent callers share one fetch, which is detached from any single
// caller's cancellation.
func (s *CartStore) InitializeCart(ctx context.Context) {
	s.mu.RLock()
	scope := s.state.Scope
	loaded := s.state.IsLoaded
	s.mu.RUnlock()

	if loaded || !scope.Complete() {
		return
	}

	s.flight.Do(scope.Key(), func() (interface{}, error) {
		s.mu.RLock()
		done := s.state.IsLoaded && s.state.Scope == scope
		s.mu.RUnlock()
		if !done {
			s.fetch(context.WithoutCancel(ctx), scope)
		}
		return nil, nil
	})
}

// FetchCart reloads the cart for the current scope regardless of the loaded flag.
func (s *CartStore) FetchCart(ctx context.Context) {
	s.mu.RLock()
	scope := s.state.Scope
	s.mu.RUnlock()

	if !scope.Complete() {
		s.mu.Lock()
		s.state.Error = domain.ErrMissingScope.Error()
		s.mu.Unlock()
		return
	}
	s.fetch(ctx, scope)
}

func (s *CartStore) fetch(ctx context.Context, scope domain.Scope) {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	items, err := s.fetcher.GetCart(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Scope != scope {
		log.Printf("[diner-svc] discarding cart response for stale scope %s", scope.Key())
		return
	}
	s.state.IsLoading = false
	if err != nil {
		log.Printf("[diner-svc] ERROR: cart fetch for %s failed: %v", scope.Key(), err)
		s.state.Error = domain.UserMessage(err, msgCartLoadFailed)
		return
	}
	s.state.Items = append([]domain.CartItem(nil), items...)
	s.state.IsLoaded = true
	s.recomputeLocked()
}

// Invalidate forces the next InitializeCart to fetch again.
func (s *CartStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoaded = false
}

// AddItem adds item to the cart, merging quantities for a product already present.
func (s *CartStore) AddItem(item domain.CartItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Scope.Complete() {
		return domain.ErrMissingScope
	}
	for i := range s.state.Items {
		if s.state.Items[i].ProductID == item.ProductID {
			s.state.Items[i].Quantity += item.Quantity
			s.recomputeLocked()
			return nil
		}
	}
	s.state.Items = append(s.state.Items, item)
	s.recomputeLocked()
	return nil
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (s *CartStore) UpdateQuantity(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			s.state.Items = append(s.state.Items[:i:i], s.state.Items[i+1:]...)
		} else {
			s.state.Items[i].Quantity = quantity
		}
		s.recomputeLocked()
		return nil
	}
	return ErrItemNotFound
}

func (s *CartStore) RemoveItem(productID string) error {
	return s.UpdateQuantity(productID, 0)
}

func (s *CartStore) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = nil
	s.recomputeLocked()
}

func (s *CartStore) SetCartVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsCartVisible = visible
}

// ShouldShowCart reports whether the cart indicator is shown. An empty cart
// is never shown.
func (s *CartStore) ShouldShowCart() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsCartVisible && s.state.TotalItems > 0
}

func (s *CartStore) Scope() domain.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Scope
}

func (s *CartStore) State() CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Items = append([]domain.CartItem(nil), s.state.Items...)
	return st
}

func (s *CartStore) recomputeLocked() {
	s.state.TotalItems, s.state.TotalAmount = domain.CartTotals(s.state.Items)
}
