package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-client/internal/domain"
	"storefront-client/internal/session"
	"storefront-client/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sessions := session.NewStore(storage.NewMemStore())
	return New(srv.URL, sessions, testLogger()), sessions
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.Product{})
	}))
	if err := sessions.SetTokens(domain.Session{AccessToken: "acc", RefreshToken: "ref"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	if _, err := c.Products(context.Background()); err != nil {
		t.Fatalf("products: %v", err)
	}
	if gotAuth != "Bearer acc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestRefreshReplayCarriesNewToken(t *testing.T) {
	var cartCalls, refreshCalls int
	var replayAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		cartCalls++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		replayAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.Cart{ID: "cart-1"})
	})
	mux.HandleFunc("/users/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var in refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.RefreshToken != "ref" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(refreshResponse{AccessToken: "fresh", ExpiresIn: 3600})
	})

	c, sessions := newTestClient(t, mux)
	if err := sessions.SetTokens(domain.Session{AccessToken: "stale", RefreshToken: "ref"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	cart, err := c.Cart(context.Background())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if cart.ID != "cart-1" {
		t.Fatalf("caller should see the replayed response, got %+v", cart)
	}
	if cartCalls != 2 || refreshCalls != 1 {
		t.Fatalf("expected exactly one replay and one refresh, got %d/%d", cartCalls, refreshCalls)
	}
	if replayAuth != "Bearer fresh" {
		t.Fatalf("replay did not carry the new token: %q", replayAuth)
	}
	if sessions.AccessToken() != "fresh" {
		t.Fatalf("new access token not stored, got %q", sessions.AccessToken())
	}
}

func TestRefreshFailureClearsSessionAndSignalsOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/users/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, sessions := newTestClient(t, mux)
	if err := sessions.SetTokens(domain.Session{AccessToken: "stale", RefreshToken: "dead"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := sessions.SetCustomer(domain.Customer{ID: "c1"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}

	var signals int
	c.OnSessionEnd(func() { signals++ })

	_, err := c.Cart(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if signals != 1 {
		t.Fatalf("expected exactly one session-ended signal, got %d", signals)
	}
	if sessions.AccessToken() != "" || sessions.RefreshToken() != "" || sessions.Customer() != nil {
		t.Fatalf("session state should be cleared after refresh failure")
	}
}

func TestMissingRefreshTokenEndsSession(t *testing.T) {
	c, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if err := sessions.SetAccessToken("stale"); err != nil {
		t.Fatalf("set access token: %v", err)
	}

	_, err := c.Cart(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestNonAuthErrorsAreNotRetried(t *testing.T) {
	var cartCalls, refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		cartCalls++
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	})
	mux.HandleFunc("/users/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
	})

	c, sessions := newTestClient(t, mux)
	if err := sessions.SetTokens(domain.Session{AccessToken: "acc", RefreshToken: "ref"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	_, err := c.Cart(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500 error, got %v", err)
	}
	if apiErr.Message != "boom" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if cartCalls != 1 || refreshCalls != 0 {
		t.Fatalf("non-auth failures must not refresh or retry, got %d/%d", cartCalls, refreshCalls)
	}
}

func TestRejectedReplayIsNotRetriedAgain(t *testing.T) {
	var cartCalls, refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		cartCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/users/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		json.NewEncoder(w).Encode(refreshResponse{AccessToken: "fresh"})
	})

	c, sessions := newTestClient(t, mux)
	if err := sessions.SetTokens(domain.Session{AccessToken: "stale", RefreshToken: "ref"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	_, err := c.Cart(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected the second 401 to pass through, got %v", err)
	}
	if cartCalls != 2 || refreshCalls != 1 {
		t.Fatalf("expected one replay and one refresh only, got %d/%d", cartCalls, refreshCalls)
	}
}

func TestLoginStoresTokensAndCustomer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		var in credentials
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email != "a@b.c" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(authResponse{
			Customer:     domain.Customer{ID: "c1", Email: in.Email},
			AccessToken:  "acc",
			RefreshToken: "ref",
			ExpiresIn:    3600,
		})
	})

	c, sessions := newTestClient(t, mux)
	cust, err := c.Login(context.Background(), "a@b.c", "Abcdefg1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if cust.ID != "c1" {
		t.Fatalf("unexpected customer %+v", cust)
	}
	if sessions.AccessToken() != "acc" || sessions.RefreshToken() != "ref" {
		t.Fatalf("tokens not stored")
	}
	if got := sessions.Customer(); got == nil || got.ID != "c1" {
		t.Fatalf("customer profile not stored")
	}
}

func TestRemoveCartLineNotFoundSurfacesStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "line not found"})
	}))

	err := c.RemoveCartLine(context.Background(), "missing")
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 error, got %v", err)
	}
}
