package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrIDMismatch          = errors.New("item id does not match the request path")
	ErrPrincipalChanged    = errors.New("local change belongs to another principal")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrValidationNoPrincipal = errors.New("no principal was given")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
