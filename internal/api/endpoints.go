package api

import (
	"context"
	"net/http"

	"storefront-client/internal/domain"
)

// SignupInput captures the fields the signup endpoint expects.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Customer     domain.Customer `json:"customer"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresIn    int             `json:"expiresIn"`
}

// Signup registers a customer. It does not log in.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodPost, "/users/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and persists the issued token pair plus the
// customer profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Customer, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if err := c.sessions.SetTokens(domain.Session{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}); err != nil {
		return nil, err
	}
	if err := c.sessions.SetCustomer(out.Customer); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// Logout revokes the session server-side on a best-effort basis and always
// clears the stored session. A caller-initiated logout does not fire the
// session-ended hook.
func (c *Client) Logout(ctx context.Context) error {
	if c.sessions.Authenticated() {
		if err := c.do(ctx, http.MethodPost, "/users/logout", nil, nil); err != nil {
			c.logger.Printf("logout request: %v", err)
		}
	}
	return c.sessions.Clear()
}

// Me fetches the authenticated customer profile.
func (c *Client) Me(ctx context.Context) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches one product, including its current price and stock.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cart fetches the customer's active cart, creating it server-side on
// first access.
func (c *Client) Cart(ctx context.Context) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type addLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AddCartLine adds quantity of a product to the cart; the server sums it
// into an existing line for the same product.
func (c *Client) AddCartLine(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodPost, "/cart", addLineRequest{ProductID: productID, Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCartLineQuantity sets (not adds) the quantity of a cart line.
func (c *Client) SetCartLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodPut, "/cart/item/"+lineID, setQuantityRequest{Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCartLine deletes a cart line by its server id.
func (c *Client) RemoveCartLine(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/item/"+lineID, nil, nil)
}

// CreateOrder places an order from the active cart.
func (c *Client) CreateOrder(ctx context.Context) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists the customer's order history, newest first.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
