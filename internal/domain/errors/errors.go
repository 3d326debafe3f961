package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidCart         = errors.New("cart has no valid items")
	ErrMissingContact      = errors.New("customer email is required")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrInvalidAmount       = errors.New("invalid amount")
)
