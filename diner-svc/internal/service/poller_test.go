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
	"golang.org/x/time/rate"
)

func statusResult(status domain.PaymentStatus) *domain.PaymentStatusResult {
	return &domain.PaymentStatusResult{Success: true, Data: domain.PaymentStatusData{TransactionID: "tx-1", Status: status}}
}

func TestPaymentPoller_Poll(t *testing.T) {
	tests := []struct {
		name           string
		maxAttempts    int
		prepareMocks   func(backend *mocks.Backend)
		expectedStatus domain.PaymentStatus
		expectedErr    error
	}{
		{
			name:        "settles_after_pending",
			maxAttempts: 5,
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("CheckPaymentStatus", mock.Anything, "tx-1").Return(statusResult(domain.PaymentPending), nil).Once()
				backend.On("CheckPaymentStatus", mock.Anything, "tx-1").Return(nil, errors.New("blip")).Once()
				backend.On("CheckPaymentStatus", mock.Anything, "tx-1").Return(statusResult("PAID"), nil).Once()
			},
			expectedStatus: "PAID",
		},
		{
			name:        "failed_is_terminal",
			maxAttempts: 5,
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("CheckPaymentStatus", mock.Anything, "tx-1").Return(statusResult(domain.PaymentFailed), nil).Once()
			},
			expectedStatus: domain.PaymentFailed,
		},
		{
			name:        "exhausted",
			maxAttempts: 2,
			prepareMocks: func(backend *mocks.Backend) {
				backend.On("CheckPaymentStatus", mock.Anything, "tx-1").Return(statusResult(domain.PaymentProcessing), nil).Twice()
			},
			expectedStatus: domain.PaymentProcessing,
			expectedErr:    service.ErrPollingExhausted,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			backend := mocks.NewBackend(t)
			checkout := service.NewCheckoutStore(backend, nil, nil, nil, nil)
			poller := service.NewPaymentPoller(checkout, rate.NewLimiter(rate.Inf, 1), testCase.maxAttempts)
			testCase.prepareMocks(backend)

			result, err := poller.Poll(context.Background(), "tx-1")

			assert.ErrorIs(t, err, testCase.expectedErr)
			require.NotNil(t, result)
			assert.Equal(t, testCase.expectedStatus, result.Data.Status)
		})
	}
}

func TestPaymentPoller_ContextCancelled(t *testing.T) {
	checkout := service.NewCheckoutStore(mocks.NewBackend(t), nil, nil, nil, nil)
	poller := service.NewPaymentPoller(checkout, rate.NewLimiter(rate.Every(1), 1), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := poller.Poll(ctx, "tx-1")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}
