package models

import "errors"

// Sentinel errors shared across services and controllers. Controllers map
// these onto HTTP status codes; everything else is treated as internal.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrExternalService = errors.New("external service error")
)
