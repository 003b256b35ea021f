package domain

import "time"

// Cart is the server-owned cart, authoritative once a session is
// authenticated and reconciled.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId,omitempty"`
	Currency   string     `json:"currency"`
	TotalCents int64      `json:"totalCents"`
	Lines      []CartLine `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CartLine is one product's quantity in a cart. Quantity stays within Stock
// on reconciliation but may transiently exceed it after an external stock
// decrease; reconciliation clamps, never drops.
type CartLine struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Stock          int    `json:"stock"`
	ServerLineID   string `json:"serverLineId,omitempty"`
}

// LocalCart is the durable client-side cart, authoritative while the
// session is unauthenticated. It is the JSON blob written to storage.
type LocalCart struct {
	Items []CartLine `json:"items"`
}

// Line returns the line for productID, or nil if the cart has none.
func (c *LocalCart) Line(productID string) *CartLine {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove deletes the line for productID and reports whether a line was
// removed. Removing an absent product is a no-op.
func (c *LocalCart) Remove(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Count sums quantities across all lines.
func (c *LocalCart) Count() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}
