package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"qr-dine/diner-svc/internal/domain"
	"qr-dine/diner-svc/internal/mocks"
	"qr-dine/diner-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var tableParams = domain.ScanParams{HotelID: "h1", BranchID: "b1", TableNo: "7"}

func signedInAuth(token string) *service.AuthStore {
	auth := service.NewAuthStore(nil)
	if token != "" {
		auth.Login(context.Background(), domain.User{ID: "u1", Name: "Asha"}, token, "refresh")
	}
	return auth
}

func grantedScan() *domain.ScanResponse {
	return &domain.ScanResponse{
		Success: true,
		Data: domain.ScanData{
			Authenticated: true,
			Hotel:         &domain.Hotel{ID: "h1", Name: "Sea View"},
			Branch:        &domain.Branch{ID: "b1", Name: "Main"},
			Table:         &domain.Table{ID: "t-7", TableNumber: 7},
			User:          &domain.User{ID: "u1"},
		},
	}
}

func TestQRStore_Scan(t *testing.T) {
	tests := []struct {
		name             string
		params           domain.ScanParams
		token            string
		prepareMocks     func(backend *mocks.Backend)
		expectData       bool
		expectedError    string
		expectedRedirect *service.Redirect
		expectParamsKept bool
	}{
		{
			name:   "authenticated_scan",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).Return(grantedScan(), nil).Once()
			},
			expectData:       true,
			expectParamsKept: true,
		},
		{
			name:             "missing_params",
			params:           domain.ScanParams{HotelID: "h1", BranchID: "b1"},
			token:            "access",
			prepareMocks:     func(*mocks.Backend) {},
			expectedError:    "Invalid QR code. Hotel, branch or table information is missing.",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn, Delay: service.RedirectDelay},
			expectParamsKept: true,
		},
		{
			name:             "no_access_token",
			params:           tableParams,
			prepareMocks:     func(*mocks.Backend) {},
			expectedError:    "Please sign in to continue ordering.",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn},
			expectParamsKept: true,
		},
		{
			name:   "not_authenticated_by_backend",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).
					Return(&domain.ScanResponse{Success: true, Data: domain.ScanData{Authenticated: false}}, nil).Once()
			},
			expectedError:    "QR code authentication failed.",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn},
			expectParamsKept: true,
		},
		{
			name:   "unsuccessful_with_message",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).
					Return(&domain.ScanResponse{Success: false, Message: "Table is closed"}, nil).Once()
			},
			expectedError:    "Table is closed",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn},
			expectParamsKept: true,
		},
		{
			name:   "session_expired",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).
					Return(nil, &domain.APIError{StatusCode: http.StatusUnauthorized}).Once()
			},
			expectedError:    "Your session has expired. Please sign in again.",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn},
			expectParamsKept: true,
		},
		{
			name:   "forbidden_is_expired_too",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).
					Return(nil, &domain.APIError{StatusCode: http.StatusForbidden, Message: "nope"}).Once()
			},
			expectedError:    "Your session has expired. Please sign in again.",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn},
			expectParamsKept: true,
		},
		{
			name:   "backend_error_message",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).
					Return(nil, &domain.APIError{StatusCode: http.StatusNotFound, Message: "Table not found"}).Once()
			},
			expectedError:    "Table not found",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn, Delay: service.RedirectDelay},
			expectParamsKept: true,
		},
		{
			name:   "transport_error",
			params: tableParams,
			token:  "access",
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("ScanQR", mock.Anything, tableParams).
					Return(nil, errors.New("connection refused")).Once()
			},
			expectedError:    "Failed to verify QR code. Please try again.",
			expectedRedirect: &service.Redirect{Route: service.RouteSignIn, Delay: service.RedirectDelay},
			expectParamsKept: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			backend := mocks.NewBackend(t)
			navigator := service.NewPendingNavigator()
			store := service.NewQRStore(backend, signedInAuth(testCase.token), navigator)
			testCase.prepareMocks(backend)

			data := store.Scan(context.Background(), testCase.params)
			state := store.State()

			if testCase.expectData {
				require.NotNil(t, data)
				assert.True(t, state.IsAuthenticated)
				assert.Equal(t, "Sea View", state.Hotel.Name)
				assert.Equal(t, "t-7", store.TableID())
			} else {
				assert.Nil(t, data)
				assert.False(t, state.IsAuthenticated)
				assert.Nil(t, state.Hotel)
				assert.Nil(t, state.Table)
			}
			assert.False(t, state.IsLoading)
			assert.Equal(t, testCase.expectedError, state.Error)

			redirect, ok := navigator.Take()
			if testCase.expectedRedirect == nil {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, *testCase.expectedRedirect, redirect)
			}

			if testCase.expectParamsKept {
				require.NotNil(t, state.CurrentScanParams)
				assert.Equal(t, testCase.params, *state.CurrentScanParams)
			}
		})
	}
}

func TestQRStore_ClearScanData(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewQRStore(backend, signedInAuth("access"), nil)

	backend.On("ScanQR", mock.Anything, tableParams).Return(grantedScan(), nil).Once()
	require.NotNil(t, store.Scan(context.Background(), tableParams))

	store.ClearScanData()
	store.ClearScanData()

	assert.Equal(t, service.QRState{}, store.State())
	assert.Equal(t, domain.Scope{}, store.Scope())
}

func TestQRStore_StaleResponseDiscarded(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewQRStore(backend, signedInAuth("access"), nil)

	started := make(chan struct{})
	release := make(chan struct{})
	backend.On("ScanQR", mock.Anything, tableParams).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(grantedScan(), nil).Once()

	done := make(chan *domain.ScanData)
	go func() {
		done <- store.Scan(context.Background(), tableParams)
	}()

	<-started
	store.ClearScanData()
	close(release)

	select {
	case data := <-done:
		assert.Nil(t, data)
	case <-time.After(time.Second):
		t.Fatal("scan did not return")
	}
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.State().Hotel)
}

func TestQRStore_ScopePrefersBackendIDs(t *testing.T) {
	backend := mocks.NewBackend(t)
	store := service.NewQRStore(backend, signedInAuth("access"), nil)

	resp := grantedScan()
	resp.Data.Hotel.ID = "hotel-uuid"
	backend.On("ScanQR", mock.Anything, tableParams).Return(resp, nil).Once()

	store.SetCurrentScanParams(tableParams)
	assert.Equal(t, domain.Scope{HotelID: "h1", BranchID: "b1"}, store.Scope())

	require.NotNil(t, store.Scan(context.Background(), tableParams))
	assert.Equal(t, domain.Scope{HotelID: "hotel-uuid", BranchID: "b1"}, store.Scope())
}
