package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/ports"
)

const adminRole = "admin"

var errMissingSecret = errors.New("jwt secret is not configured")

// TokenService signs and verifies HS256 admin tokens.
type TokenService struct {
	secret []byte
	clock  ports.Clock
}

func NewTokenService(secret string, clock ports.Clock) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		clock:  clock,
	}
}

func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errMissingSecret
	}
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", domain.ErrValidation)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", domain.ErrValidation)
	}

	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": adminRole,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Verify(ctx context.Context, raw string) (*ports.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, errMissingSecret
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", domain.ErrUnauthorized)
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return nil, fmt.Errorf("%w: admin role required", domain.ErrUnauthorized)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", domain.ErrUnauthorized)
	}
	jti, _ := claims["jti"].(string)

	return &ports.TokenClaims{
		Subject:   subject,
		ID:        jti,
		ExpiresAt: exp.Time,
	}, nil
}
