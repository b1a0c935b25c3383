package utils

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7 string, falling back to a random UUIDv4
// when the v7 generator fails. Used for trace ids and subscriber ids.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
