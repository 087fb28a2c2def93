package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/remote"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInputs(t *testing.T, username string, password []byte) {
	t.Helper()
	origST, origGP := promptLine, promptPassword
	promptLine = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	promptPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		promptLine = origST
		promptPassword = origGP
	})
}

type fakeAuth struct {
	regUser string
	regPass string
	regErr  error

	loginUser string
	loginPass string
	session   auth.Session
	loginErr  error

	saved      *auth.Session
	logoutErr  error
	logoutCall bool

	pingErr  error
	creds    auth.Credentials
	credsErr error
}

func (f *fakeAuth) Register(_ context.Context, user, pass string) error {
	f.regUser, f.regPass = user, pass
	return f.regErr
}

func (f *fakeAuth) Login(_ context.Context, user, pass string) (auth.Session, error) {
	f.loginUser, f.loginPass = user, pass
	return f.session, f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCall = true
	return f.logoutErr
}

func (f *fakeAuth) Restore(context.Context) (auth.Session, error) {
	if f.saved == nil {
		return auth.Session{}, common.ErrNoSession
	}
	return *f.saved, nil
}

func (f *fakeAuth) RememberTokens(context.Context, remote.Tokens) error { return nil }
func (f *fakeAuth) Ping(context.Context) error                          { return f.pingErr }

func (f *fakeAuth) Credentials(context.Context) (auth.Credentials, error) {
	return f.creds, f.credsErr
}

func TestRegister_Success(t *testing.T) {
	a := newTestApp(t)
	stubInputs(t, "alice", []byte("secret"))

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "alice", a.auth.regUser)
	assert.Equal(t, "secret", a.auth.regPass)
	assert.Contains(t, a.out.String(), "Success!")
}

func TestRegister_ErrorPropagates(t *testing.T) {
	a := newTestApp(t)
	a.auth.regErr = errors.New("taken")
	stubInputs(t, "alice", []byte("secret"))

	assert.Error(t, a.Register(context.Background()))
}

func TestLogin_OnlineRefreshesDecks(t *testing.T) {
	a := newTestApp(t)
	a.auth.session = auth.Session{Username: "alice", UserID: "u-1"}
	a.auth.creds = auth.Credentials{Token: "tok", UserID: "u-1"}
	a.remote.decks = []models.RemoteDeck{{ID: "r1", Name: "Cells", CreatorID: "u-1"}}
	stubInputs(t, "alice", []byte("secret"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, ModeOnline, a.Mode)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, SurfaceCreator, a.surface)
	assert.NotNil(t, a.creator)
	assert.Len(t, a.store.Decks(), 1)
}

func TestLogin_OfflineFallsBackToSavedSession(t *testing.T) {
	a := newTestApp(t)
	a.auth.loginErr = remote.ErrUnavailable
	a.auth.saved = &auth.Session{Username: "alice", UserID: "u-1"}
	stubInputs(t, "alice", []byte("secret"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, ModeOffline, a.Mode)
	assert.True(t, a.isLoggedIn())
}

func TestLogin_OfflineOtherUserFails(t *testing.T) {
	a := newTestApp(t)
	a.auth.loginErr = remote.ErrUnavailable
	a.auth.saved = &auth.Session{Username: "bob"}
	stubInputs(t, "alice", []byte("secret"))

	require.ErrorIs(t, a.Login(context.Background()), remote.ErrUnavailable)
	assert.Equal(t, ModeDisabled, a.Mode)
	assert.False(t, a.isLoggedIn())
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestApp(t)
	a.auth.loginErr = remote.ErrUnauthorized
	stubInputs(t, "alice", []byte("wrong"))

	require.ErrorIs(t, a.Login(context.Background()), remote.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
}

func TestRestoreSession(t *testing.T) {
	a := newTestApp(t)
	a.auth.saved = &auth.Session{Username: "alice"}
	a.auth.pingErr = errors.New("down")

	a.restoreSession(context.Background())
	assert.Equal(t, ModeOffline, a.Mode)
	assert.Contains(t, a.out.String(), "Resumed session for alice")
}

func TestRestoreSession_NoneSaved(t *testing.T) {
	a := newTestApp(t)
	a.restoreSession(context.Background())
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, a.out.String(), "Not logged in")
}

func TestLogout(t *testing.T) {
	a := newTestApp(t)
	a.session = &auth.Session{Username: "alice"}

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, a.auth.logoutCall)
	assert.False(t, a.isLoggedIn())
}

func TestLogout_ErrorPropagates(t *testing.T) {
	a := newTestApp(t)
	a.session = &auth.Session{Username: "alice"}
	a.auth.logoutErr = errors.New("clean-fail")

	assert.Error(t, a.Logout(context.Background()))
	assert.True(t, a.isLoggedIn())
}
