package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrQuotaExhausted     = errors.New("no remaining prompts available")
	ErrSessionComplete    = errors.New("session already complete")
	ErrProviderFailure    = errors.New("provider failure")
)
