package session

import (
	"testing"

	"storefront-client/internal/domain"
	"storefront-client/internal/storage"
)

func TestStoreTokenLifecycle(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	if s.Authenticated() {
		t.Fatalf("fresh store should be unauthenticated")
	}

	if err := s.SetTokens(domain.Session{AccessToken: "acc", RefreshToken: "ref"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if !s.Authenticated() {
		t.Fatalf("expected authenticated after SetTokens")
	}
	if s.AccessToken() != "acc" || s.RefreshToken() != "ref" {
		t.Fatalf("unexpected tokens %q %q", s.AccessToken(), s.RefreshToken())
	}

	if err := s.SetAccessToken("acc2"); err != nil {
		t.Fatalf("set access token: %v", err)
	}
	if s.AccessToken() != "acc2" {
		t.Fatalf("access token not replaced, got %q", s.AccessToken())
	}
	if s.RefreshToken() != "ref" {
		t.Fatalf("refresh token should survive an access refresh")
	}
}

func TestStoreClearRemovesEverything(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	if err := s.SetTokens(domain.Session{AccessToken: "acc", RefreshToken: "ref"}); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := s.SetCustomer(domain.Customer{ID: "c1", Email: "a@b.c"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Authenticated() || s.RefreshToken() != "" || s.Customer() != nil {
		t.Fatalf("expected empty session after Clear")
	}
}

func TestStoreCustomerRoundTrip(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	if s.Customer() != nil {
		t.Fatalf("expected nil customer on fresh store")
	}
	if err := s.SetCustomer(domain.Customer{ID: "c1", Email: "a@b.c"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	c := s.Customer()
	if c == nil || c.ID != "c1" || c.Email != "a@b.c" {
		t.Fatalf("unexpected customer %+v", c)
	}
}
