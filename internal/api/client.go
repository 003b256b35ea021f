// Package api is the storefront's REST client. Every call builds its
// request from scratch and attaches the current bearer token, so there is
// no shared mutable client state between calls. A single auth-expired
// response triggers one silent token refresh and replay; a failed refresh
// tears the session down and surfaces domain.ErrSessionExpired.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/internal/session"
)

// Error carries a non-2xx response back to the caller unmodified.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsStatus reports whether err is an API error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the storefront backend.
type Client struct {
	baseURL      string
	http         *http.Client
	sessions     *session.Store
	logger       *log.Logger
	onSessionEnd func()
}

func New(baseURL string, sessions *session.Store, logger *log.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		sessions: sessions,
		logger:   logger,
	}
}

// OnSessionEnd registers a hook fired when the session is torn down after
// an irrecoverable refresh failure, so the application can redirect to an
// unauthenticated state.
func (c *Client) OnSessionEnd(fn func()) {
	c.onSessionEnd = fn
}

// do dispatches one request. On a 401 it attempts exactly one token
// refresh and replay; the replayed outcome is what the caller sees. Any
// other error status passes through untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, status, err := c.roundTrip(ctx, method, path, body, c.sessions.AccessToken())
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		token, refreshErr := c.refresh(ctx)
		if refreshErr != nil {
			c.logger.Printf("token refresh failed: %v", refreshErr)
			c.endSession()
			return domain.ErrSessionExpired
		}
		data, status, err = c.roundTrip(ctx, method, path, body, token)
		if err != nil {
			return err
		}
		// A second 401 means the fresh token was rejected too; it is
		// returned like any other error status, never retried again.
	}

	if status >= http.StatusBadRequest {
		return decodeError(status, data)
	}
	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, token string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return data, resp.StatusCode, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// refresh exchanges the stored refresh token for a new access token and
// stores it. The refresh call itself never goes through do, so it can
// never recurse into another refresh.
func (c *Client) refresh(ctx context.Context) (string, error) {
	refreshToken := c.sessions.RefreshToken()
	if refreshToken == "" {
		return "", errors.New("no refresh token stored")
	}

	data, status, err := c.roundTrip(ctx, http.MethodPost, "/users/token/refresh", refreshRequest{RefreshToken: refreshToken}, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", decodeError(status, data)
	}

	var out refreshResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh response missing access token")
	}
	if err := c.sessions.SetAccessToken(out.AccessToken); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) endSession() {
	if err := c.sessions.Clear(); err != nil {
		c.logger.Printf("clear session: %v", err)
	}
	if c.onSessionEnd != nil {
		c.onSessionEnd()
	}
}

func decodeError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(status)
	}
	return &Error{Status: status, Message: payload.Message}
}
