package order

import (
	"context"

	"storefront-client/internal/domain"
)

type Repository interface {
	// Create stores an order with its lines in one transaction.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
