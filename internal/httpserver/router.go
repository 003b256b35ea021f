package httpserver

import (
	"context"
	"errors"
	"log"

	"storefront-client/internal/domain"
	authsvc "storefront-client/internal/service/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthService is what the router needs from the auth layer.
type AuthService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, customerID string) error
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

// CartService covers cart mutation, checkout and order history.
type CartService interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, customerID, productID string, quantity int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, customerID, lineID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, lineID string) (*domain.Cart, error)
	Checkout(ctx context.Context, customerID string) (*domain.Order, error)
	Orders(ctx context.Context, customerID string) ([]domain.Order, error)
}

// ProductStore lists and resolves catalog products.
type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Deps bundles the collaborators the router dispatches to.
type Deps struct {
	AuthSvc  AuthService
	CartSvc  CartService
	Products ProductStore
}

// buildRouter wires all storefront routes. The storefront runs in a
// browser context, so CORS allows the Authorization header through.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.AuthSvc == nil || deps.CartSvc == nil || deps.Products == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/users/signup", signupHandler(deps))
	router.POST("/users/login", loginHandler(deps))
	router.POST("/users/token/refresh", refreshHandler(deps))

	router.GET("/products", listProductsHandler(deps))
	router.GET("/products/:id", getProductHandler(deps))

	authed := router.Group("", requireCustomer(deps))
	authed.POST("/users/logout", logoutHandler(deps))
	authed.GET("/users/me", meHandler())
	authed.GET("/cart", getCartHandler(deps))
	authed.POST("/cart", addCartLineHandler(deps))
	authed.PUT("/cart/item/:id", setCartLineHandler(deps))
	authed.DELETE("/cart/item/:id", removeCartLineHandler(deps))
	authed.POST("/orders", checkoutHandler(deps))
	authed.GET("/orders", listOrdersHandler(deps))

	return router, nil
}
