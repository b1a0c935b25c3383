package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

func newTestAuthService(duration time.Duration) AuthService {
	return NewAuthService(config.ServerApp{
		TokenSignKey:  "secret",
		TokenIssuer:   "clearmind",
		TokenDuration: duration,
	}, logger.Nop())
}

func TestAuthService_CreateAndParse(t *testing.T) {
	svc := newTestAuthService(time.Hour)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, "user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", parsed.Principal)
}

func TestAuthService_CreateToken_EmptyPrincipal(t *testing.T) {
	_, err := newTestAuthService(time.Hour).CreateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	ctx := context.Background()

	expired, err := newTestAuthService(-time.Minute).CreateToken(ctx, "user-1")
	require.NoError(t, err)

	otherIssuer, err := NewAuthService(config.ServerApp{
		TokenSignKey:  "secret",
		TokenIssuer:   "someone-else",
		TokenDuration: time.Hour,
	}, logger.Nop()).CreateToken(ctx, "user-1")
	require.NoError(t, err)

	otherKey, err := NewAuthService(config.ServerApp{
		TokenSignKey:  "another-secret",
		TokenIssuer:   "clearmind",
		TokenDuration: time.Hour,
	}, logger.Nop()).CreateToken(ctx, "user-1")
	require.NoError(t, err)

	svc := newTestAuthService(time.Hour)
	for name, raw := range map[string]string{
		"expired":      expired.SignedString,
		"wrong issuer": otherIssuer.SignedString,
		"wrong key":    otherKey.SignedString,
		"garbage":      "not.a.jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(ctx, raw)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
