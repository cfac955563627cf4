// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, logout (token revocation) and the
// bearer token checks used by protected endpoints.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// Identity is the verified holder of a bearer token.
type Identity struct {
	Email     string
	JTI       string
	ExpiresAt time.Time
}

// UserService provides authentication-related operations:
// - Signup: store a new credential record
// - Login: verify credentials and mint an access token
// - Authenticate: validate a presented token against signature, expiry and revocations
// - Logout: revoke a token
// - PruneRevoked: drop revocations of tokens that have expired anyway
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      *auth.Hasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      auth.NewHasher(cfg.BcryptCost),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Signup hashes password and stores the credential record in a transaction.
// A duplicate email fails with an error wrapping common.ErrAlreadyExists and
// leaves the existing record untouched.
func (s *UserService) Signup(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).Create(ctx, user)
	}); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// Login verifies the password for email and returns a signed access token.
// Unknown email and wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyMissing(password)
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	token, _, err := auth.GenerateToken(user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Authenticate validates tokenString and checks it has not been revoked.
// Token defects surface as common.ErrInvalidToken, common.ErrTokenExpired or
// common.ErrTokenRevoked; a failing store surfaces as common.ErrorInternal.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repomanager.RevokedTokens(s.db).Exists(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	return &Identity{Email: claims.Email(), JTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the token identified by id. Revoking twice is a no-op.
func (s *UserService) Logout(ctx context.Context, id *Identity) error {
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.RevokedTokens(tx).Create(ctx, id.JTI, id.ExpiresAt)
	}); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// PruneRevoked deletes revocations whose token has already expired and
// returns the number of rows removed.
func (s *UserService) PruneRevoked(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RevokedTokens(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error pruning revoked tokens: %w", err)
	}
	return n, nil
}

// Ping reports whether the backing store is reachable.
func (s *UserService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
