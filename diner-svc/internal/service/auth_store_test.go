package service_test

import (
	"context"
	"errors"
	"testing"

	"qr-dine/diner-svc/internal/domain"
	"qr-dine/diner-svc/internal/mocks"
	"qr-dine/diner-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthStore_LoginPersistsRecord(t *testing.T) {
	persister := mocks.NewAuthPersister(t)
	store := service.NewAuthStore(persister)
	ctx := context.Background()
	user := domain.User{ID: "u1", Name: "Asha"}

	persister.On("Save", ctx, domain.AuthRecord{
		User:            &user,
		AccessToken:     "access",
		RefreshToken:    "refresh",
		IsAuthenticated: true,
	}).Return(nil).Once()

	store.Login(ctx, user, "access", "refresh")

	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "access", store.AccessToken())
	assert.Equal(t, "Asha", store.User().Name)
}

func TestAuthStore_IsAuthenticatedFollowsToken(t *testing.T) {
	store := service.NewAuthStore(nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		action   func()
		expected bool
	}{
		{
			name:     "login_with_token",
			action:   func() { store.Login(ctx, domain.User{ID: "u1"}, "a", "r") },
			expected: true,
		},
		{
			name:     "tokens_replaced",
			action:   func() { store.UpdateTokens(ctx, "a2", "r2") },
			expected: true,
		},
		{
			name:     "token_emptied",
			action:   func() { store.UpdateTokens(ctx, "", "r3") },
			expected: false,
		},
		{
			name:     "user_update_keeps_flag",
			action:   func() { store.UpdateUser(ctx, domain.User{ID: "u1", Name: "New"}) },
			expected: false,
		},
		{
			name:     "login_again",
			action:   func() { store.Login(ctx, domain.User{ID: "u2"}, "b", "") },
			expected: true,
		},
		{
			name:     "clear_auth",
			action:   func() { store.ClearAuth(ctx) },
			expected: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.action()
			assert.Equal(t, testCase.expected, store.IsAuthenticated())
			assert.Equal(t, store.AccessToken() != "", store.IsAuthenticated())
		})
	}
}

func TestAuthStore_LogoutResetsEverything(t *testing.T) {
	persister := mocks.NewAuthPersister(t)
	store := service.NewAuthStore(persister)
	ctx := context.Background()

	persister.On("Save", ctx, mock.Anything).Return(nil).Once()
	persister.On("Clear", ctx).Return(nil).Once()

	store.Login(ctx, domain.User{ID: "u1"}, "a", "r")
	store.Logout(ctx)

	assert.Equal(t, service.AuthState{}, store.State())
	assert.Nil(t, store.User())
}

func TestAuthStore_PersistFailureDoesNotFail(t *testing.T) {
	persister := mocks.NewAuthPersister(t)
	store := service.NewAuthStore(persister)
	ctx := context.Background()

	persister.On("Save", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	store.Login(ctx, domain.User{ID: "u1"}, "a", "r")

	assert.True(t, store.IsAuthenticated())
}

func TestAuthStore_Hydrate(t *testing.T) {
	tests := []struct {
		name          string
		record        *domain.AuthRecord
		loadErr       error
		expectedAuth  bool
		expectedToken string
		wantErr       bool
	}{
		{
			name:          "restores_record",
			record:        &domain.AuthRecord{User: &domain.User{ID: "u1"}, AccessToken: "a", IsAuthenticated: true},
			expectedAuth:  true,
			expectedToken: "a",
		},
		{
			name:   "flag_rederived_from_token",
			record: &domain.AuthRecord{User: &domain.User{ID: "u1"}, IsAuthenticated: true},
		},
		{
			name: "nothing_saved",
		},
		{
			name:    "load_error",
			loadErr: errors.New("redis down"),
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			persister := mocks.NewAuthPersister(t)
			store := service.NewAuthStore(persister)
			ctx := context.Background()

			persister.On("Load", ctx).Return(testCase.record, testCase.loadErr).Once()

			err := store.Hydrate(ctx)
			if testCase.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, testCase.expectedAuth, store.IsAuthenticated())
			assert.Equal(t, testCase.expectedToken, store.AccessToken())
		})
	}
}

func TestAuthStore_Subscribe(t *testing.T) {
	store := service.NewAuthStore(nil)
	ctx := context.Background()

	var seen []bool
	unsubscribe := store.Subscribe(func(state service.AuthState) {
		seen = append(seen, state.IsAuthenticated)
	})

	store.Login(ctx, domain.User{ID: "u1"}, "a", "r")
	store.Logout(ctx)
	unsubscribe()
	store.Login(ctx, domain.User{ID: "u1"}, "a", "r")

	assert.Equal(t, []bool{true, false}, seen)
}

func TestAuthStore_StateIsACopy(t *testing.T) {
	store := service.NewAuthStore(nil)
	store.Login(context.Background(), domain.User{ID: "u1", Name: "Asha"}, "a", "r")

	state := store.State()
	state.User.Name = "Changed"

	assert.Equal(t, "Asha", store.User().Name)
}
