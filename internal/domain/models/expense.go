package models

type Expense struct {
	ID        int64   `json:"id"`
	TripID    int64   `json:"tripId"`
	ItemName  string  `json:"itemName"`
	Amount    float64 `json:"amount"`
	PayerName string  `json:"payerName"`
}
