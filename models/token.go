package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT bearer token that scopes remote-store calls to a principal.
//
// The "sub" claim holds the principal id. Principal caches it after
// [Token.GetPrincipal] or token construction.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// Principal is the owner identifier extracted from the "sub" claim.
	Principal string `json:"-"`
}

// GetPrincipal returns the principal from the subject claim.
func (t *Token) GetPrincipal() (string, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting principal from token: %w", err)
	}
	if subject == "" {
		return "", fmt.Errorf("error extracting principal from token: empty subject")
	}

	return subject, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
