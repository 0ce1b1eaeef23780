package bank

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrTimeout     = errors.New("bank backend timed out")
	ErrUnavailable = errors.New("bank backend unavailable")
)
