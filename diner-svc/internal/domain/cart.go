package domain

type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotals derives the item count and amount from the lines.
func CartTotals(items []CartItem) (totalItems int, totalAmount float64) {
	for _, item := range items {
		totalItems += item.Quantity
		totalAmount += item.LineTotal()
	}
	return totalItems, totalAmount
}
