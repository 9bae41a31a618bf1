package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"qr-dine/diner-svc/internal/domain"

	"golang.org/x/sync/singleflight"
)

const msgMenuLoadFailed = "Failed to load menu."

type MenuState struct {
	Scope            domain.Scope          `json:"scope"`
	Categories       []domain.MenuCategory `json:"categories"`
	Items            []domain.MenuItem     `json:"items"`
	SelectedCategory string                `json:"selectedCategory,omitempty"`
	SearchQuery      string                `json:"searchQuery,omitempty"`
	IsLoading        bool                  `json:"isLoading"`
	IsLoaded         bool                  `json:"isLoaded"`
	Error            string                `json:"error,omitempty"`
}

type MenuStore struct {
	mu      sync.RWMutex
	state   MenuState
	fetcher MenuFetcher
	flight  singleflight.Group
}

func NewMenuStore(fetcher MenuFetcher) *MenuStore {
	return &MenuStore{fetcher: fetcher}
}

func (s *MenuStore) SetHotelAndBranch(hotelID, branchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := domain.Scope{HotelID: hotelID, BranchID: branchID}
	if scope == s.state.Scope {
		return
	}
	s.state = MenuState{Scope: scope}
}

func (s *MenuStore) InitializeMenu(ctx context.Context) {
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
			s.FetchMenu(context.WithoutCancel(ctx))
		}
		return nil, nil
	})
}

func (s *MenuStore) FetchMenu(ctx context.Context) {
	s.mu.Lock()
	scope := s.state.Scope
	if !scope.Complete() {
		s.state.Error = domain.ErrMissingScope.Error()
		s.mu.Unlock()
		return
	}
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	menu, err := s.fetcher.GetMenu(ctx, scope)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Scope != scope {
		log.Printf("[diner-svc] discarding menu response for stale scope %s", scope.Key())
		return
	}
	s.state.IsLoading = false
	if err != nil {
		log.Printf("[diner-svc] ERROR: menu fetch for %s failed: %v", scope.Key(), err)
		s.state.Error = domain.UserMessage(err, msgMenuLoadFailed)
		return
	}
	if menu == nil {
		menu = &domain.Menu{}
	}
	s.state.Categories = append([]domain.MenuCategory(nil), menu.Categories...)
	s.state.Items = append([]domain.MenuItem(nil), menu.Items...)
	s.state.IsLoaded = true
}

// SelectCategory narrows FilteredItems to one category. An empty id selects all.
func (s *MenuStore) SelectCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedCategory = categoryID
}

func (s *MenuStore) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchQuery = strings.TrimSpace(query)
}

// FilteredItems applies the category and search filters. Available items come
// first; otherwise the backend order is kept.
func (s *MenuStore) FilteredItems() []domain.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(s.state.SearchQuery)
	var items []domain.MenuItem
	for _, item := range s.state.Items {
		if s.state.SelectedCategory != "" && item.CategoryID != s.state.SelectedCategory {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].IsAvailable && !items[j].IsAvailable
	})
	return items
}

func (s *MenuStore) Categories() []domain.MenuCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MenuCategory(nil), s.state.Categories...)
}

// Item looks up a menu item by id in the loaded menu.
func (s *MenuStore) Item(id string) (domain.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.state.Items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

func (s *MenuStore) State() MenuState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Categories = append([]domain.MenuCategory(nil), s.state.Categories...)
	st.Items = append([]domain.MenuItem(nil), s.state.Items...)
	return st
}
