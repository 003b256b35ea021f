package httpserver

import (
	"errors"
	"net/http"

	"storefront-client/internal/domain"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := deps.Products.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "list products failed"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := deps.Products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "get product failed"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
