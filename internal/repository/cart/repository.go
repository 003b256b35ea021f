package cart

import (
	"context"

	"storefront-client/internal/domain"
)

type Repository interface {
	// GetOrCreateByCustomer returns the customer's cart, creating an
	// empty one on first access.
	GetOrCreateByCustomer(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	// AddLine adds quantity of a product, summing into an existing line.
	// The unit price is snapshotted from the product on first add.
	AddLine(ctx context.Context, cartID string, product domain.Product, quantity int) error
	// SetLineQuantity sets (not adds) a line's quantity.
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	// DeleteLine removes a line; domain.ErrNotFound if it does not exist.
	DeleteLine(ctx context.Context, cartID, lineID string) error
	// ClearLines removes all lines, as happens after checkout.
	ClearLines(ctx context.Context, cartID string) error
}
