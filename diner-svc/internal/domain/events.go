package domain

import "time"

const (
	EventCheckoutCompleted = "checkout_completed"
	EventPaymentInitiated  = "payment_initiated"
	EventPaymentStatus     = "payment_status"
)

type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	HotelID       string    `json:"hotel_id,omitempty"`
	BranchID      string    `json:"branch_id,omitempty"`
	TableID       string    `json:"table_id,omitempty"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
