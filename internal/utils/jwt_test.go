package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	principal := "user-123"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, principal, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}
	if token.Principal != principal {
		t.Errorf("expected principal %s, got %s", principal, token.Principal)
	}

	// Verify claims
	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != principal {
		t.Errorf("expected subject %s, got %s", principal, claims.Subject)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name      string
		issuer    string
		principal string
		duration  time.Duration
		key       string
	}{
		{"empty issuer", "", "p", time.Hour, "key"},
		{"empty principal", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "p", 0, "key"},
		{"empty key", "iss", "p", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.principal, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	key := "secret-key"

	genToken, err := GenerateJWTToken(issuer, "user-456", 5*time.Minute, key)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.Principal != "user-456" {
		t.Errorf("expected principal user-456, got %s", parsedToken.Principal)
	}
	if parsedToken.String() != genToken.SignedString {
		t.Error("expected parsed token to keep its signed string")
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "p", time.Hour, "correct-key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "wrong-key", "test-issuer")
	if err == nil {
		t.Error("expected error due to signature mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	// Token that expired 1 second ago
	genToken, _ := GenerateJWTToken("test-issuer", "p", -time.Second, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "test-issuer")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	genToken, _ := GenerateJWTToken("real-issuer", "p", time.Hour, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "fake-issuer")
	if err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Malformed(t *testing.T) {
	_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"  Bearer   abc  ", "abc", false},
		{"Basic abc", "", true},
		{"Bearer", "", true},
		{"", "", true},
		{"Bearer a b", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAuthorizationHeader) {
				t.Errorf("%q: expected ErrInvalidAuthorizationHeader, got %v", tt.header, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got (%q, %v), want %q", tt.header, got, err, tt.want)
		}
	}
}

func TestParsePrincipalFromJWT(t *testing.T) {
	genToken, _ := GenerateJWTToken("iss", "user-9", time.Hour, "key")

	principal, err := ParsePrincipalFromJWT(genToken.SignedString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal != "user-9" {
		t.Errorf("expected user-9, got %s", principal)
	}

	if _, err := ParsePrincipalFromJWT("garbage"); err == nil {
		t.Error("expected error for malformed token")
	}
}
