package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"qr-dine/diner-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffer_Discount(t *testing.T) {
	tests := []struct {
		name     string
		offer    domain.Offer
		subtotal float64
		expected float64
	}{
		{
			name:     "percentage",
			offer:    domain.Offer{DiscountType: domain.DiscountPercentage, DiscountValue: 10},
			subtotal: 250,
			expected: 25,
		},
		{
			name:     "percentage_capped",
			offer:    domain.Offer{DiscountType: domain.DiscountPercentage, DiscountValue: 50, MaxDiscount: 100},
			subtotal: 500,
			expected: 100,
		},
		{
			name:     "percentage_rounded",
			offer:    domain.Offer{DiscountType: domain.DiscountPercentage, DiscountValue: 10},
			subtotal: 33.33,
			expected: 3.33,
		},
		{
			name:     "flat",
			offer:    domain.Offer{DiscountType: domain.DiscountFlat, DiscountValue: 50},
			subtotal: 300,
			expected: 50,
		},
		{
			name:     "flat_never_exceeds_subtotal",
			offer:    domain.Offer{DiscountType: domain.DiscountFlat, DiscountValue: 50},
			subtotal: 30,
			expected: 30,
		},
		{
			name:     "below_minimum",
			offer:    domain.Offer{DiscountType: domain.DiscountFlat, DiscountValue: 50, MinOrderAmount: 200},
			subtotal: 199,
			expected: 0,
		},
		{
			name:     "empty_cart",
			offer:    domain.Offer{DiscountType: domain.DiscountFlat, DiscountValue: 50},
			subtotal: 0,
			expected: 0,
		},
		{
			name:     "unknown_type",
			offer:    domain.Offer{DiscountType: "bogo", DiscountValue: 50},
			subtotal: 300,
			expected: 0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.offer.Discount(testCase.subtotal))
		})
	}
}

func TestOffer_Expired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, domain.Offer{}.Expired(now))
	assert.True(t, domain.Offer{ValidUntil: &past}.Expired(now))
	assert.False(t, domain.Offer{ValidUntil: &future}.Expired(now))
}

func TestCartTotals(t *testing.T) {
	totalItems, totalAmount := domain.CartTotals([]domain.CartItem{
		{ProductID: "p1", Price: 100, Quantity: 2},
		{ProductID: "p2", Price: 50, Quantity: 1},
	})
	assert.Equal(t, 3, totalItems)
	assert.Equal(t, 250.0, totalAmount)

	totalItems, totalAmount = domain.CartTotals(nil)
	assert.Equal(t, 0, totalItems)
	assert.Equal(t, 0.0, totalAmount)
}

func TestScanParamsFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("hotelId", " h1 ")
	q.Set("branchId", "b1")

	params := domain.ScanParamsFromQuery(q)
	assert.Equal(t, domain.ScanParams{HotelID: "h1", BranchID: "b1"}, params)
	assert.False(t, params.Complete())

	params.TableNo = "7"
	assert.True(t, params.Complete())
	assert.Equal(t, "h1:b1", domain.Scope{HotelID: "h1", BranchID: "b1"}.Key())
}

func TestPaymentStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   domain.PaymentStatus
		expected bool
	}{
		{domain.PaymentPending, false},
		{domain.PaymentProcessing, false},
		{domain.PaymentSuccess, true},
		{"PAID", true},
		{domain.PaymentFailed, true},
		{domain.PaymentCancelled, true},
		{domain.PaymentRefunded, true},
		{"", false},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.status), func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.status.Terminal())
		})
	}
}

func TestAPIError(t *testing.T) {
	wrapped := fmt.Errorf("scan: %w", &domain.APIError{StatusCode: http.StatusForbidden, Message: "Forbidden"})

	assert.True(t, domain.IsUnauthorized(wrapped))
	assert.False(t, domain.IsUnauthorized(&domain.APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, domain.IsUnauthorized(errors.New("plain")))

	assert.Equal(t, "Forbidden", domain.UserMessage(wrapped, "fallback"))
	assert.Equal(t, "fallback", domain.UserMessage(&domain.APIError{StatusCode: 500}, "fallback"))
	assert.Equal(t, "fallback", domain.UserMessage(errors.New("plain"), "fallback"))
}

func TestCheckoutResult_Declined(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		declined bool
	}{
		{name: "no_flag", body: `{"data":{"orderId":"o-1","totalAmount":250}}`},
		{name: "empty_body", body: `{}`},
		{name: "explicit_true", body: `{"success":true,"data":{"orderId":"o-1"}}`},
		{name: "explicit_false", body: `{"success":false,"message":"Cart is empty"}`, declined: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var result domain.CheckoutResult
			require.NoError(t, json.Unmarshal([]byte(testCase.body), &result))
			assert.Equal(t, testCase.declined, result.Declined())

			var session domain.PaymentSession
			require.NoError(t, json.Unmarshal([]byte(testCase.body), &session))
			assert.Equal(t, testCase.declined, session.Declined())
		})
	}
}
