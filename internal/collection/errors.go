package collection

import "errors"

var (
	// ErrUnmappedCollection is returned for a name outside the declared set.
	ErrUnmappedCollection = errors.New("collection has no mapping")

	// ErrDuplicateMapping is returned when two definitions share a local or
	// remote name, which would break the bijection.
	ErrDuplicateMapping = errors.New("duplicate collection mapping")

	// ErrEmptyName is returned for a definition with an empty local or remote name.
	ErrEmptyName = errors.New("collection name is empty")

	// ErrUnknownKind is returned for a definition whose kind is not registered.
	ErrUnknownKind = errors.New("collection kind is not registered")
)
