package httpserver

import (
	"errors"
	"net/http"

	"storefront-client/internal/domain"
	cartsvc "storefront-client/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.CartSvc.Get(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "get cart failed"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addLineRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		cart, err := deps.CartSvc.AddItem(c.Request.Context(), currentCustomer(c).ID, in.ProductID, in.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func setCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in setQuantityRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		cart, err := deps.CartSvc.SetQuantity(c.Request.Context(), currentCustomer(c).ID, c.Param("id"), in.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "cart line not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "update cart failed"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func removeCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.CartSvc.RemoveItem(c.Request.Context(), currentCustomer(c).ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "cart line not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "remove cart line failed"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func checkoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.CartSvc.Checkout(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			if errors.Is(err, cartsvc.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "cart is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "checkout failed"})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.CartSvc.Orders(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "list orders failed"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}
