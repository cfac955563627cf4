package revokedtokens

import (
	"context"
	"time"
)

// Repository is the revocation store.
type Repository interface {
	// Create revokes jti. Revoking an already revoked jti is not an error.
	Create(ctx context.Context, jti string, expiresAt time.Time) error
	Exists(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
