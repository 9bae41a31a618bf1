package domain

type OrderStatus struct {
	OrderID       string  `json:"order_id"`
	Status        string  `json:"status"`
	LastEvent     string  `json:"last_event"`
	TransactionID string  `json:"transaction_id,omitempty"`
	HotelID       string  `json:"hotel_id,omitempty"`
	BranchID      string  `json:"branch_id,omitempty"`
	Amount        float64 `json:"amount"`
	LastUpdated   int64   `json:"last_updated"`
}

type BranchTotal struct {
	BranchID string  `json:"branch_id"`
	Amount   float64 `json:"amount"`
}

type DailyTotals struct {
	HotelID  string        `json:"hotel_id"`
	Date     string        `json:"date"`
	Total    float64       `json:"total"`
	Branches []BranchTotal `json:"branches"`
}
