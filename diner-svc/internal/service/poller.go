package service

import (
	"context"
	"errors"

	"qr-dine/diner-svc/internal/domain"

	"golang.org/x/time/rate"
)

var ErrPollingExhausted = errors.New("payment status did not settle")

// PaymentPoller drives CheckPaymentStatus until the payment reaches a terminal
// status. The limiter sets the cadence; the checkout store itself never polls.
type PaymentPoller struct {
	checkout    *CheckoutStore
	limiter     *rate.Limiter
	maxAttempts int
}

func NewPaymentPoller(checkout *CheckoutStore, limiter *rate.Limiter, maxAttempts int) *PaymentPoller {
	return &PaymentPoller{
		checkout:    checkout,
		limiter:     limiter,
		maxAttempts: maxAttempts,
	}
}

// Poll returns the terminal status result, or the last result seen together
// with ErrPollingExhausted or the context error.
func (p *PaymentPoller) Poll(ctx context.Context, transactionID string) (*domain.PaymentStatusResult, error) {
	var last *domain.PaymentStatusResult
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return last, err
		}

		result := p.checkout.CheckPaymentStatus(ctx, transactionID)
		if result == nil {
			continue
		}
		last = result
		if result.Data.Status.Terminal() {
			return result, nil
		}
	}
	return last, ErrPollingExhausted
}
