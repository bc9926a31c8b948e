package ports

import (
	"context"
	"time"
)

type TokenClaims struct {
	Subject   string
	ID        string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}
