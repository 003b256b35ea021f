package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"storefront-client/internal/domain"
	authsvc "storefront-client/internal/service/auth"
	"github.com/gin-gonic/gin"
)

const customerKey = "customer"

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func signupHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		cust, err := deps.AuthSvc.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, cust)
	}
}

func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		cust, access, refresh, err := deps.AuthSvc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"customer":     cust,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    deps.AuthSvc.AccessTTLSeconds(),
		})
	}
}

func refreshHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in refreshTokenRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		access, err := deps.AuthSvc.Refresh(c.Request.Context(), in.RefreshToken)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "refresh failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"accessToken": access,
			"expiresIn":   deps.AuthSvc.AccessTTLSeconds(),
		})
	}
}

func logoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust := currentCustomer(c)
		if err := deps.AuthSvc.Logout(c.Request.Context(), cust.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "logout failed"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentCustomer(c))
	}
}

// requireCustomer resolves the bearer token to a customer or answers 401.
func requireCustomer(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		cust, err := deps.AuthSvc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set(customerKey, cust)
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentCustomer(c *gin.Context) *domain.Customer {
	return c.MustGet(customerKey).(*domain.Customer)
}
