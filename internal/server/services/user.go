// Package services contains server-side business logic. UserService handles
// registration, login, and issuing/refreshing JWTs plus server-stored refresh
// tokens. DeckService, ThreadService and SourceService serve the remote store
// operations, always on behalf of the authenticated user.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/cryptox"
	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/auth"
	"github.com/dmitrijs2005/studydeck/internal/server/config"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/repomanager"
)

// refreshTokenBytes is the entropy of a refresh token; it is sent hex encoded.
const refreshTokenBytes = 32

// TokenPair is what a successful login or refresh hands to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// UserService owns accounts and the tokens issued to them.
type UserService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:         db,
		repos:      m,
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		now:        time.Now,
	}
}

// Register creates an account. The password is kept only as an argon2id
// key under a fresh salt.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	salt, verifier := cryptox.HashPassword([]byte(password))
	u, err := s.repos.Users(s.db).Create(ctx, &models.User{UserName: username, Salt: salt, Verifier: verifier})
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("register %q: %w", username, err)
	}
	return u, nil
}

// Login checks the password and issues a new pair. An unknown user costs a
// key derivation too, so the two failures cannot be told apart by timing.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repos.Users(s.db).FindByUsername(ctx, username)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		cryptox.VerifyPassword([]byte(password), common.RandomBytes(cryptox.SaltSize), nil)
		return nil, common.ErrorUnauthorized
	case err != nil:
		return nil, common.ErrorInternal
	}
	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.Verifier) {
		return nil, common.ErrorUnauthorized
	}
	return s.issue(ctx, s.db, user.ID)
}

// RefreshToken trades a refresh token for a new pair. The old token is
// consumed in the same transaction that stores its successor, so each one
// works once. Expired tokens give ErrRefreshTokenExpired, unknown or spent
// ones ErrorUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		old, err := s.repos.RefreshTokens(tx).Consume(ctx, refreshToken)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return common.ErrorUnauthorized
		case err != nil:
			return fmt.Errorf("consume refresh token: %w", err)
		case old.Expires.Before(s.now()):
			return common.ErrRefreshTokenExpired
		}
		pair, err = s.issue(ctx, tx, old.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// PruneRefreshTokens drops expired refresh tokens and reports how many.
func (s *UserService) PruneRefreshTokens(ctx context.Context) (int64, error) {
	return s.repos.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

func (s *UserService) issue(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	access, err := auth.IssueAccessToken(userID, s.secret, s.accessTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh := common.RandomHex(refreshTokenBytes)
	stored := &models.RefreshToken{UserID: userID, Token: refresh, Expires: s.now().Add(s.refreshTTL)}
	if err := s.repos.RefreshTokens(db).Create(ctx, stored); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, UserID: userID}, nil
}
