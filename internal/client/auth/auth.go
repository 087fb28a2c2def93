// Package auth is the client's credential provider. It logs in against the
// remote store, keeps the resulting session in the local metadata store and
// hands out the bearer token and user id every remote call needs.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/remote"
	"github.com/dmitrijs2005/studydeck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Session is what survives a restart.
type Session struct {
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Credentials is the bearer token and user identifier attached to remote
// calls.
type Credentials struct {
	Token  string
	UserID string
}

// CreatorID is the user id in the form stored on decks and threads.
func (c Credentials) CreatorID() string {
	return common.CreatorID(c.UserID)
}

// CredentialProvider yields credentials or common.ErrNoSession.
type CredentialProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

type Client interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (remote.LoginResult, error)
	SetTokens(t remote.Tokens)
	Ping(ctx context.Context) error
}

// Service defines the authentication operations of the CLI.
type Service interface {
	CredentialProvider

	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (Session, error)
	Logout(ctx context.Context) error
	// Restore loads the saved session and installs its tokens on the
	// client.
	Restore(ctx context.Context) (Session, error)
	// RememberTokens persists a refreshed token pair.
	RememberTokens(ctx context.Context, t remote.Tokens) error
	Ping(ctx context.Context) error
}

type authService struct {
	client Client
	repo   metadata.Repository

	mu      sync.Mutex
	session *Session
}

func NewService(client Client, repo metadata.Repository) Service {
	return &authService{client: client, repo: repo}
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	_, err := a.client.Register(ctx, username, password)
	return err
}

func (a *authService) Login(ctx context.Context, username, password string) (Session, error) {
	res, err := a.client.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	userID := res.UserID
	if userID == "" {
		if userID, err = UserIDFromToken(res.AccessToken); err != nil {
			return Session{}, err
		}
	}

	s := Session{
		Username:     username,
		UserID:       userID,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
	if err := metadata.SaveJSON(ctx, a.repo, metadata.KeySession, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	a.mu.Lock()
	a.session = &s
	a.mu.Unlock()

	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()

	a.client.SetTokens(remote.Tokens{})
	return a.repo.Delete(ctx, metadata.KeySession)
}

func (a *authService) Restore(ctx context.Context) (Session, error) {
	var s Session
	found, err := metadata.LoadJSON(ctx, a.repo, metadata.KeySession, &s)
	if err != nil {
		return Session{}, err
	}
	if !found || s.AccessToken == "" {
		return Session{}, common.ErrNoSession
	}

	a.client.SetTokens(remote.Tokens{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken})

	a.mu.Lock()
	a.session = &s
	a.mu.Unlock()

	return s, nil
}

func (a *authService) RememberTokens(ctx context.Context, t remote.Tokens) error {
	a.mu.Lock()
	if a.session == nil {
		a.mu.Unlock()
		return common.ErrNoSession
	}
	a.session.AccessToken = t.AccessToken
	a.session.RefreshToken = t.RefreshToken
	s := *a.session
	a.mu.Unlock()

	return metadata.SaveJSON(ctx, a.repo, metadata.KeySession, s)
}

func (a *authService) Credentials(ctx context.Context) (Credentials, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil || a.session.AccessToken == "" {
		return Credentials{}, common.ErrNoSession
	}
	return Credentials{Token: a.session.AccessToken, UserID: a.session.UserID}, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// UserIDFromToken reads the subject claim without verifying the signature;
// the server verifies every token it receives.
func UserIDFromToken(token string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
