package models

import "errors"

// Common errors used throughout the storefront
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoEventSelected  = errors.New("no event selected")
	ErrUnknownCategory  = errors.New("unknown ticket category")
	ErrPurchaseFailed   = errors.New("purchase failed")
	ErrNotAuthenticated = errors.New("not authenticated")
)
