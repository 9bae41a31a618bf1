package service

import (
	"context"
	"log"
	"sync"

	"qr-dine/diner-svc/internal/domain"

	"golang.org/x/sync/singleflight"
)

const msgOffersLoadFailed = "Failed to fetch available offers."

type OffersState struct {
	Scope           domain.Scope   `json:"scope"`
	AvailableOffers []domain.Offer `json:"availableOffers"`
	SelectedOffer   *domain.Offer  `json:"selectedOffer,omitempty"`
	AppliedOffer    *domain.Offer  `json:"appliedOffer,omitempty"`
	IsLoading       bool           `json:"isLoading"`
	IsDataLoaded    bool           `json:"isDataLoaded"`
	Error           string         `json:"error,omitempty"`
}

// OffersStore tracks the promotions of the current scope plus the offer the
// diner is looking at and the one applied to checkout.
type OffersStore struct {
	mu          sync.RWMutex
	state       OffersState
	loadedScope string
	fetcher     OffersFetcher
	flight      singleflight.Group
}

func NewOffersStore(fetcher OffersFetcher) *OffersStore {
	return &OffersStore{fetcher: fetcher}
}

// SetHotelAndBranch changes scope. The loaded guard is keyed by scope, so the
// next InitializeOffersData after a switch fetches again.
func (s *OffersStore) SetHotelAndBranch(hotelID, branchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := domain.Scope{HotelID: hotelID, BranchID: branchID}
	if scope == s.state.Scope {
		return
	}
	s.state.Scope = scope
	s.state.AvailableOffers = nil
	s.state.SelectedOffer = nil
	s.state.AppliedOffer = nil
	s.state.IsLoading = false
	s.state.IsDataLoaded = false
	s.state.Error = ""
}

// FetchAvailableOffers loads offers for the current scope and returns them,
// or nil with State().Error set.
func (s *OffersStore) FetchAvailableOffers(ctx context.Context) []domain.Offer {
	s.mu.Lock()
	scope := s.state.Scope
	if !scope.Complete() {
		s.state.Error = domain.ErrMissingScope.Error()
		s.mu.Unlock()
		return nil
	}
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	offers, err := s.fetcher.GetAvailableOffers(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Scope != scope {
		log.Printf("[diner-svc] discarding offers response for stale scope %s", scope.Key())
		return nil
	}
	s.state.IsLoading = false
	if err != nil {
		log.Printf("[diner-svc] ERROR: offers fetch for %s failed: %v", scope.Key(), err)
		s.state.Error = domain.UserMessage(err, msgOffersLoadFailed)
		return nil
	}
	s.state.AvailableOffers = append([]domain.Offer(nil), offers...)
	s.state.IsDataLoaded = true
	s.loadedScope = scope.Key()
	return append([]domain.Offer(nil), offers...)
}

func (s *OffersStore) InitializeOffersData(ctx context.Context) {
	if s.loadedFor() {
		return
	}

	s.mu.RLock()
	scope := s.state.Scope
	s.mu.RUnlock()
	if !scope.Complete() {
		s.FetchAvailableOffers(ctx)
		return
	}

	s.flight.Do(scope.Key(), func() (interface{}, error) {
		if !s.loadedFor() {
			s.FetchAvailableOffers(context.WithoutCancel(ctx))
		}
		return nil, nil
	})
}

func (s *OffersStore) loadedFor() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsDataLoaded && s.loadedScope == s.state.Scope.Key()
}

func (s *OffersStore) SelectOffer(offer domain.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedOffer = &offer
}

func (s *OffersStore) ClearSelectedOffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedOffer = nil
}

// ApplyOffer makes offer the active one and empties the selection slot.
func (s *OffersStore) ApplyOffer(offer domain.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppliedOffer = &offer
	s.state.SelectedOffer = nil
}

// ApplySelectedOffer promotes the current candidate. It reports false when
// nothing is selected.
func (s *OffersStore) ApplySelectedOffer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedOffer == nil {
		return false
	}
	s.state.AppliedOffer = s.state.SelectedOffer
	s.state.SelectedOffer = nil
	return true
}

func (s *OffersStore) RemoveAppliedOffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppliedOffer = nil
}

// FindOffer returns the loaded offer with the given code.
func (s *OffersStore) FindOffer(code string) (domain.Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, offer := range s.state.AvailableOffers {
		if offer.Code == code {
			return offer, true
		}
	}
	return domain.Offer{}, false
}

func (s *OffersStore) AppliedOffer() *domain.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.AppliedOffer == nil {
		return nil
	}
	offer := *s.state.AppliedOffer
	return &offer
}

// Discount is what the applied offer takes off subtotal.
func (s *OffersStore) Discount(subtotal float64) float64 {
	offer := s.AppliedOffer()
	if offer == nil {
		return 0
	}
	return offer.Discount(subtotal)
}

// ClearOffers resets the store, scope included.
func (s *OffersStore) ClearOffers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = OffersState{}
	s.loadedScope = ""
}

func (s *OffersStore) State() OffersState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.AvailableOffers = append([]domain.Offer(nil), s.state.AvailableOffers...)
	return st
}
