package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSessionExpired is returned after a failed token refresh, once the
	// stored session state has been cleared.
	ErrSessionExpired = errors.New("session expired")
)
