package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidItemID  = errors.New("invalid item id")
	ErrInvalidKind    = errors.New("invalid item kind")
	ErrInvalidBody    = errors.New("item body does not match its kind")
	ErrEmptyBatch     = errors.New("batch cannot be empty")
	ErrLengthMismatch = errors.New("batch length does not match items")
)
