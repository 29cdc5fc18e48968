package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidConfig   = errors.New("invalid generation config")
	ErrAlreadyRunning  = errors.New("continuous generation already running")
	ErrProviderFailure = errors.New("provider failure")
)
