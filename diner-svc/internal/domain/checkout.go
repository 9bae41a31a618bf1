package domain

import (
	"strings"
	"time"
)

// CheckoutFormData is the transient draft submitted at checkout.
type CheckoutFormData struct {
	TableID       string `json:"tableId"`
	PaymentMethod string `json:"paymentMethod"`
	CustomerNote  string `json:"customerNote,omitempty"`
	CoinsToUse    int    `json:"coinsToUse,omitempty"`
	OfferCode     string `json:"offerCode,omitempty"`
}

type CheckoutRequest struct {
	HotelID       string `json:"hotelId"`
	BranchID      string `json:"branchId"`
	TableID       string `json:"tableId"`
	PaymentMethod string `json:"paymentMethod"`
	CustomerNote  string `json:"customerNote,omitempty"`
	CoinsToUse    int    `json:"coinsToUse,omitempty"`
	OfferCode     string `json:"offerCode,omitempty"`
}

type Order struct {
	ID            string  `json:"orderId"`
	OrderNumber   string  `json:"orderNumber,omitempty"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	CoinsUsed     int     `json:"coinsUsed"`
	TotalAmount   float64 `json:"totalAmount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
}

// CheckoutResult.Success is nil when the backend omits the flag; only an
// explicit false marks the body as declined.
type CheckoutResult struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Data    Order  `json:"data"`
}

func (r *CheckoutResult) Declined() bool {
	return r.Success != nil && !*r.Success
}

type PaymentInitRequest struct {
	OrderID   string  `json:"orderId"`
	Amount    float64 `json:"amount"`
	UserID    string  `json:"userId"`
	UserPhone string  `json:"userPhone"`
	UserName  string  `json:"userName"`
	UserEmail string  `json:"userEmail"`
}

type GatewaySession struct {
	TransactionID   string  `json:"transactionId"`
	OrderID         string  `json:"orderId"`
	RazorpayOrderID string  `json:"razorpayOrderId"`
	KeyID           string  `json:"keyId,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

type PaymentSession struct {
	Success *bool          `json:"success,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    GatewaySession `json:"data"`
}

func (s *PaymentSession) Declined() bool {
	return s.Success != nil && !*s.Success
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Terminal reports whether polling should stop on this status.
func (s PaymentStatus) Terminal() bool {
	switch PaymentStatus(strings.ToLower(string(s))) {
	case PaymentSuccess, PaymentPaid, PaymentFailed, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

type PaymentStatusData struct {
	TransactionID string        `json:"transactionId"`
	OrderID       string        `json:"orderId"`
	Status        PaymentStatus `json:"status"`
	Amount        float64       `json:"amount"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

type PaymentStatusResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    PaymentStatusData `json:"data"`
}
