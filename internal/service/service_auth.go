package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/utils"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// authService is the concrete implementation of AuthService.
// Principals are opaque identifiers provisioned out of band; the service
// only signs and verifies the tokens that carry them.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the server token settings.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(cfg config.ServerApp, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken issues a signed JWT whose subject is principal.
//
// Returns ErrInvalidDataProvided for an empty principal, or
// ErrTokenCreationFailed wrapping the signing error.
func (a *authService) CreateToken(ctx context.Context, principal string) (models.Token, error) {
	if principal == "" {
		logger.FromContext(ctx).Error().Msg("empty principal provided")
		return models.Token{}, ErrInvalidDataProvided
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, principal, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed, missing subject)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	if token.Principal == "" {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
