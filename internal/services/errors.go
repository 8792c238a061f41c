package services

import "errors"

// Shared sentinel errors returned by the service layer. Handlers map these
// onto HTTP status codes; everything else becomes a 500.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("access denied")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
)
