package domain

import "time"

// Order is a placed order. Lines are snapshotted from the cart at
// checkout time; later price or stock changes do not touch them.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Currency   string      `json:"currency"`
	TotalCents int64       `json:"totalCents"`
	Lines      []OrderLine `json:"items"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type OrderLine struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}
