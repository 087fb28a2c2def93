package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/studydeck/internal/client/localdb"
	"github.com/dmitrijs2005/studydeck/internal/client/remote"
	"github.com/dmitrijs2005/studydeck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	Client

	loginRes remote.LoginResult
	loginErr error
	tokens   remote.Tokens
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (remote.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeClient) SetTokens(t remote.Tokens) { f.tokens = t }

func newRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, localdb.RunMigrations(context.Background(), db))
	return metadata.NewSQLiteRepository(db)
}

func signed(t *testing.T, userID string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: userID}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestCredentials_NoSession(t *testing.T) {
	svc := NewService(&fakeClient{}, newRepo(t))
	_, err := svc.Credentials(context.Background())
	require.ErrorIs(t, err, common.ErrNoSession)
}

func TestLogin_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	fc := &fakeClient{loginRes: remote.LoginResult{
		Tokens: remote.Tokens{AccessToken: signed(t, "auth0|abc"), RefreshToken: "R1"},
	}}

	s, err := NewService(fc, repo).Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", s.UserID)

	restoredClient := &fakeClient{}
	svc := NewService(restoredClient, repo)
	got, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Equal(t, "R1", restoredClient.tokens.RefreshToken)

	creds, err := svc.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.CreatorID())
}

func TestRememberTokens_UpdatesSavedSession(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	svc := NewService(&fakeClient{loginRes: remote.LoginResult{
		Tokens: remote.Tokens{AccessToken: "A1", RefreshToken: "R1"}, UserID: "u-1",
	}}, repo)

	require.ErrorIs(t, svc.RememberTokens(ctx, remote.Tokens{}), common.ErrNoSession)

	_, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, svc.RememberTokens(ctx, remote.Tokens{AccessToken: "A2", RefreshToken: "R2"}))

	var saved Session
	found, err := metadata.LoadJSON(ctx, repo, metadata.KeySession, &saved)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "A2", saved.AccessToken)
	assert.Equal(t, "R2", saved.RefreshToken)
}

func TestLogout_ForgetsSession(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	fc := &fakeClient{loginRes: remote.LoginResult{Tokens: remote.Tokens{AccessToken: "A1"}, UserID: "u-1"}}
	svc := NewService(fc, repo)

	_, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, err = svc.Credentials(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)
	_, err = svc.Restore(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)
	assert.Equal(t, remote.Tokens{}, fc.tokens)
}

func TestUserIDFromToken(t *testing.T) {
	id, err := UserIDFromToken(signed(t, "u-9"))
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)

	_, err = UserIDFromToken("not-a-jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = UserIDFromToken(signed(t, ""))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
