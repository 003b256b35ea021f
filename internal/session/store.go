// Package session persists the authenticated session (token pair plus the
// customer profile blob) under well-known storage keys.
package session

import (
	"storefront-client/internal/domain"
	"storefront-client/internal/storage"
)

const (
	keyAccessToken  = "session.access_token"
	keyRefreshToken = "session.refresh_token"
	keyCustomer     = "session.customer"
)

// Store reads and writes session state through a storage.Store. It holds no
// state of its own, so every read reflects the durable copy.
type Store struct {
	kv storage.Store
}

func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// AccessToken returns the stored access token, or "" when unauthenticated.
func (s *Store) AccessToken() string {
	return s.getString(keyAccessToken)
}

// RefreshToken returns the stored refresh token, or "".
func (s *Store) RefreshToken() string {
	return s.getString(keyRefreshToken)
}

// SetAccessToken replaces the access token in place, as happens on refresh.
func (s *Store) SetAccessToken(token string) error {
	return s.kv.Set(keyAccessToken, token)
}

// SetTokens stores a freshly issued token pair.
func (s *Store) SetTokens(sess domain.Session) error {
	if err := s.kv.Set(keyAccessToken, sess.AccessToken); err != nil {
		return err
	}
	return s.kv.Set(keyRefreshToken, sess.RefreshToken)
}

// Customer returns the stored profile, or nil when none is stored.
func (s *Store) Customer() *domain.Customer {
	var c domain.Customer
	if err := s.kv.Get(keyCustomer, &c); err != nil {
		return nil
	}
	return &c
}

func (s *Store) SetCustomer(c domain.Customer) error {
	return s.kv.Set(keyCustomer, c)
}

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated() bool {
	return s.AccessToken() != ""
}

// Clear removes all session keys. Used on logout and on irrecoverable
// refresh failure.
func (s *Store) Clear() error {
	var firstErr error
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyCustomer} {
		if err := s.kv.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Store) getString(key string) string {
	var v string
	if err := s.kv.Get(key, &v); err != nil {
		return ""
	}
	return v
}
