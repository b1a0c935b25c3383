// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// PrincipalCtxKey is the key used to store the authenticated principal in the
// context. The auth middleware sets it from the JWT "sub" claim.
var PrincipalCtxKey = contextKey("principal")

// WithPrincipal returns a copy of ctx carrying principal.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, PrincipalCtxKey, principal)
}

// GetPrincipalFromContext retrieves the principal from the context.
//
// ok is false when the value is missing, has an unexpected type or is empty.
//
// Example usage:
//
//	principal, ok := utils.GetPrincipalFromContext(ctx)
//	if !ok {
//	    // handle unauthenticated request
//	}
func GetPrincipalFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(PrincipalCtxKey).(string)
	return principal, ok && principal != ""
}
