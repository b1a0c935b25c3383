package models

import "errors"

var (
	// ErrMissingID is returned when a SyncableItem carries no id.
	ErrMissingID = errors.New("item has no id")
	// ErrUnknownKind is returned when an item's kind is not registered.
	ErrUnknownKind = errors.New("unknown item kind")
	// ErrInvalidTimestamp is returned when a timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidBody is returned when an item's body does not decode into its kind.
	ErrInvalidBody = errors.New("invalid item body")
)
