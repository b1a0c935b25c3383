package adapter

import "errors"

var (
	// ErrNotAuthenticated is returned when a call is made without a bearer token.
	ErrNotAuthenticated = errors.New("remote store: not authenticated")

	ErrInvalidToken = errors.New("remote store: invalid token")

	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServerError  = errors.New("remote server error")
)
