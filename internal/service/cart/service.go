package cart

import (
	"context"
	"errors"

	"storefront-client/internal/domain"
)

const defaultCurrency = "USD"

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

type cartRepo interface {
	GetOrCreateByCustomer(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, product domain.Product, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	DeleteLine(ctx context.Context, cartID, lineID string) error
	ClearLines(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

// Service owns the server-side cart and checkout flow. Every mutation
// returns the full resulting cart so clients can adopt it as their view.
type Service struct {
	repo     cartRepo
	products productRepo
	orders   orderRepo
}

func New(repo cartRepo, products productRepo, orders orderRepo) *Service {
	return &Service{repo: repo, products: products, orders: orders}
}

func (s *Service) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
}

// AddItem adds quantity of a product, summing into an existing line. The
// quantity is not validated against stock; clients clamp on reconcile.
func (s *Service) AddItem(ctx context.Context, customerID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, *product, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
}

// SetQuantity sets a line's quantity; zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, customerID, lineID string, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		err = s.repo.DeleteLine(ctx, cart.ID, lineID)
	} else {
		err = s.repo.SetLineQuantity(ctx, cart.ID, lineID, quantity)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
}

// RemoveItem deletes a line. domain.ErrNotFound propagates so the handler
// can answer 404 and the client can treat it as already removed.
func (s *Service) RemoveItem(ctx context.Context, customerID, lineID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
}

// Checkout snapshots the cart into an order and empties the cart.
func (s *Service) Checkout(ctx context.Context, customerID string) (*domain.Order, error) {
	cart, err := s.repo.GetOrCreateByCustomer(ctx, customerID, defaultCurrency)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := domain.Order{
		CustomerID: customerID,
		Currency:   cart.Currency,
		TotalCents: cart.TotalCents,
	}
	for _, line := range cart.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Orders(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
