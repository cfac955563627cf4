package models

import "time"

// RevokedToken marks a bearer token id (jti) as no longer valid.
// ExpiresAt is the expiry of the revoked token itself.
type RevokedToken struct {
	ID        int64     `db:"id"`
	JTI       string    `db:"jti"`
	ExpiresAt time.Time `db:"expires_at"`
}
