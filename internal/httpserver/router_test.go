package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-client/internal/domain"
	authsvc "storefront-client/internal/service/auth"
	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubAuthService struct {
	customer   *domain.Customer
	signupErr  error
	loginErr   error
	refreshErr error
	lookupErr  error
	logoutErr  error

	logoutCalls int
}

func (s *stubAuthService) Signup(_ context.Context, _ authsvc.SignupInput) (*domain.Customer, error) {
	return s.customer, s.signupErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*domain.Customer, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.customer, "access-token", "refresh-token", nil
}

func (s *stubAuthService) Refresh(_ context.Context, _ string) (string, error) {
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return "new-access-token", nil
}

func (s *stubAuthService) Logout(_ context.Context, _ string) error {
	s.logoutCalls++
	return s.logoutErr
}

func (s *stubAuthService) LookupByToken(_ context.Context, _ string) (*domain.Customer, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.customer, nil
}

func (s *stubAuthService) AccessTTLSeconds() int { return 3600 }

type stubCartService struct {
	cart        *domain.Cart
	order       *domain.Order
	orders      []domain.Order
	getErr      error
	addErr      error
	setErr      error
	removeErr   error
	checkoutErr error
	ordersErr   error

	lastProductID string
	lastLineID    string
	lastQuantity  int
}

func (s *stubCartService) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.getErr
}

func (s *stubCartService) AddItem(_ context.Context, _, productID string, quantity int) (*domain.Cart, error) {
	s.lastProductID = productID
	s.lastQuantity = quantity
	return s.cart, s.addErr
}

func (s *stubCartService) SetQuantity(_ context.Context, _, lineID string, quantity int) (*domain.Cart, error) {
	s.lastLineID = lineID
	s.lastQuantity = quantity
	return s.cart, s.setErr
}

func (s *stubCartService) RemoveItem(_ context.Context, _, lineID string) (*domain.Cart, error) {
	s.lastLineID = lineID
	return s.cart, s.removeErr
}

func (s *stubCartService) Checkout(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.checkoutErr
}

func (s *stubCartService) Orders(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.ordersErr
}

type stubProductStore struct {
	products []domain.Product
	product  *domain.Product
	listErr  error
	getErr   error
}

func (s *stubProductStore) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.listErr
}

func (s *stubProductStore) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.getErr
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.AuthSvc == nil {
		deps.AuthSvc = &stubAuthService{customer: &domain.Customer{ID: "cust-1", Email: "user@example.com"}}
	}
	if deps.CartSvc == nil {
		deps.CartSvc = &stubCartService{cart: &domain.Cart{ID: "cart-1", CustomerID: "cust-1"}}
	}
	if deps.Products == nil {
		deps.Products = &stubProductStore{}
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := buildRouter(logDiscard(), nil, Deps{})
	if err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz_NoDB(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without db, got %d", rec.Code)
	}
}
