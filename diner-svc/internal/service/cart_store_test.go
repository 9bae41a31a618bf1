package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"qr-dine/diner-svc/internal/domain"
	"qr-dine/diner-svc/internal/mocks"
	"qr-dine/diner-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var scopeH1 = domain.Scope{HotelID: "h1", BranchID: "b1"}

func TestCartStore_TotalsFromFetch(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewCartStore(backend)
	store.SetHotelAndBranch("h1", "b1")

	backend.On("GetCart", mock.Anything, scopeH1).Return([]domain.CartItem{
		{ProductID: "p1", Price: 100, Quantity: 2},
		{ProductID: "p2", Price: 50, Quantity: 1},
	}, nil).Once()

	store.InitializeCart(context.Background())

	state := store.State()
	assert.Equal(t, 3, state.TotalItems)
	assert.Equal(t, 250.0, state.TotalAmount)
	assert.True(t, state.IsLoaded)
	assert.False(t, state.IsLoading)
}

func TestCartStore_InitializeOncePerScope(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewCartStore(backend)
	ctx := context.Background()

	backend.On("GetCart", mock.Anything, scopeH1).Return([]domain.CartItem{{ProductID: "p1", Price: 10, Quantity: 1}}, nil).Once()
	backend.On("GetCart", mock.Anything, domain.Scope{HotelID: "h2", BranchID: "b9"}).Return([]domain.CartItem{}, nil).Once()

	store.SetHotelAndBranch("h1", "b1")
	store.InitializeCart(ctx)
	store.InitializeCart(ctx)
	store.SetHotelAndBranch("h1", "b1")
	store.InitializeCart(ctx)

	store.SetHotelAndBranch("h2", "b9")
	assert.Empty(t, store.State().Items)
	store.InitializeCart(ctx)

	assert.Equal(t, 0, store.State().TotalItems)
}

func TestCartStore_ConcurrentInitializeSharesFetch(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewCartStore(backend)
	store.SetHotelAndBranch("h1", "b1")

	release := make(chan struct{})
	backend.On("GetCart", mock.Anything, scopeH1).
		Run(func(mock.Arguments) { <-release }).
		Return([]domain.CartItem{{ProductID: "p1", Price: 10, Quantity: 1}}, nil).Once()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.InitializeCart(context.Background())
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, 1, store.State().TotalItems)
}

func TestCartStore_DiscardsResponseForPreviousScope(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewCartStore(backend)
	store.SetHotelAndBranch("h1", "b1")

	started := make(chan struct{})
	release := make(chan struct{})
	backend.On("GetCart", mock.Anything, scopeH1).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]domain.CartItem{{ProductID: "p1", Price: 100, Quantity: 2}}, nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.InitializeCart(context.Background())
	}()

	<-started
	store.SetHotelAndBranch("h2", "b2")
	close(release)
	<-done

	state := store.State()
	assert.Equal(t, domain.Scope{HotelID: "h2", BranchID: "b2"}, state.Scope)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.TotalItems)
	assert.False(t, state.IsLoaded)
	assert.False(t, state.IsLoading)
}

func TestCartStore_SharedFetchIgnoresCallerCancellation(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewCartStore(backend)
	store.SetHotelAndBranch("h1", "b1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend.On("GetCart", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), scopeH1).
		Return([]domain.CartItem{{ProductID: "p1", Price: 10, Quantity: 1}}, nil).Once()

	store.InitializeCart(ctx)

	assert.True(t, store.State().IsLoaded)
	assert.Equal(t, 1, store.State().TotalItems)
}

func TestCartStore_InvalidateRefetches(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewCartStore(backend)
	store.SetHotelAndBranch("h1", "b1")
	ctx := context.Background()

	backend.On("GetCart", mock.Anything, scopeH1).Return([]domain.CartItem{}, nil).Twice()

	store.InitializeCart(ctx)
	store.Invalidate()
	store.InitializeCart(ctx)
}

func TestCartStore_FetchErrors(t *testing.T) {
	tests := []struct {
		name          string
		scope         domain.Scope
		prepareMocks  func(backend *mocks.Backend)
		expectedError string
	}{
		{
			name:          "missing_scope",
			prepareMocks:  func(*mocks.Backend) {},
			expectedError: domain.ErrMissingScope.Error(),
		},
		{
			name:  "backend_message",
			scope: scopeH1,
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("GetCart", mock.Anything, scopeH1).
					Return(nil, &domain.APIError{StatusCode: 500, Message: "Cart service down"}).Once()
			},
			expectedError: "Cart service down",
		},
		{
			name:  "fallback_message",
			scope: scopeH1,
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("GetCart", mock.Anything, scopeH1).Return(nil, errors.New("timeout")).Once()
			},
			expectedError: "Failed to load cart.",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			backend := mocks.NewBackend(t)
			store := service.NewCartStore(backend)
			store.SetHotelAndBranch(testCase.scope.HotelID, testCase.scope.BranchID)
			testCase.prepareMocks(backend)

			store.FetchCart(context.Background())

			state := store.State()
			assert.Equal(t, testCase.expectedError, state.Error)
			assert.False(t, state.IsLoaded)
			assert.False(t, state.IsLoading)
		})
	}
}

func TestCartStore_LocalMutations(t *testing.T) {
	store := service.NewCartStore(nil)

	assert.ErrorIs(t, store.AddItem(domain.CartItem{ProductID: "p1", Price: 100, Quantity: 1}), domain.ErrMissingScope)

	store.SetHotelAndBranch("h1", "b1")

	tests := []struct {
		name          string
		action        func() error
		expectedErr   error
		expectedItems int
		expectedTotal float64
	}{
		{
			name:          "add_first_line",
			action:        func() error { return store.AddItem(domain.CartItem{ProductID: "p1", Price: 100, Quantity: 2}) },
			expectedItems: 2,
			expectedTotal: 200,
		},
		{
			name:          "add_merges_same_product",
			action:        func() error { return store.AddItem(domain.CartItem{ProductID: "p1", Price: 100, Quantity: 1}) },
			expectedItems: 3,
			expectedTotal: 300,
		},
		{
			name:          "add_second_line",
			action:        func() error { return store.AddItem(domain.CartItem{ProductID: "p2", Price: 50, Quantity: 1}) },
			expectedItems: 4,
			expectedTotal: 350,
		},
		{
			name:          "add_zero_quantity",
			action:        func() error { return store.AddItem(domain.CartItem{ProductID: "p3", Price: 5}) },
			expectedErr:   service.ErrInvalidQuantity,
			expectedItems: 4,
			expectedTotal: 350,
		},
		{
			name:          "update_quantity",
			action:        func() error { return store.UpdateQuantity("p1", 1) },
			expectedItems: 2,
			expectedTotal: 150,
		},
		{
			name:          "update_unknown",
			action:        func() error { return store.UpdateQuantity("nope", 1) },
			expectedErr:   service.ErrItemNotFound,
			expectedItems: 2,
			expectedTotal: 150,
		},
		{
			name:          "zero_removes_line",
			action:        func() error { return store.UpdateQuantity("p2", 0) },
			expectedItems: 1,
			expectedTotal: 100,
		},
		{
			name:          "remove_item",
			action:        func() error { return store.RemoveItem("p1") },
			expectedItems: 0,
			expectedTotal: 0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.action()
			assert.ErrorIs(t, err, testCase.expectedErr)
			state := store.State()
			assert.Equal(t, testCase.expectedItems, state.TotalItems)
			assert.Equal(t, testCase.expectedTotal, state.TotalAmount)
		})
	}
}

func TestCartStore_ShouldShowCart(t *testing.T) {
	store := service.NewCartStore(nil)
	store.SetHotelAndBranch("h1", "b1")

	store.SetCartVisible(true)
	assert.False(t, store.ShouldShowCart())

	require.NoError(t, store.AddItem(domain.CartItem{ProductID: "p1", Price: 10, Quantity: 1}))
	assert.True(t, store.ShouldShowCart())

	store.SetCartVisible(false)
	assert.False(t, store.ShouldShowCart())

	store.SetCartVisible(true)
	store.ClearCart()
	assert.False(t, store.ShouldShowCart())
	assert.Equal(t, 0.0, store.State().TotalAmount)
}
