package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/remote"
	"github.com/dmitrijs2005/studydeck/internal/common"
)

// Register prompts the user for a username and password and attempts to
// create a new account.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := promptLine(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	if err := a.authService.Register(ctx, userName, string(password)); err != nil {
		return err
	}

	a.printf("Success!\n")
	return nil
}

// Login prompts the user for credentials and authenticates against the
// server.
//
// When the server is unavailable (errors.Is(err, remote.ErrUnavailable)) and
// a saved session for the same user exists, that session is resumed offline.
// Connectivity Mode ends up as:
//   - ModeOnline if online login succeeds,
//   - ModeOffline if the saved session was resumed,
//   - ModeDisabled otherwise.
func (a *App) Login(ctx context.Context) error {
	userName, err := promptLine(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	s, err := a.authService.Login(ctx, userName, string(password))
	if err == nil {
		a.printf("Login successful\n")
		a.loggedIn(ctx, s, ModeOnline)
		return nil
	}

	if !errors.Is(err, remote.ErrUnavailable) {
		a.setMode(ModeDisabled)
		return err
	}

	a.log.Info(ctx, "server unavailable, trying saved session")
	s, rerr := a.authService.Restore(ctx)
	if rerr != nil || s.Username != userName {
		a.setMode(ModeDisabled)
		return err
	}
	a.printf("Server unavailable, resumed saved session\n")
	a.loggedIn(ctx, s, ModeOffline)
	return nil
}

// restoreSession resumes the saved session at startup, if there is one.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.authService.Restore(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoSession) {
			a.log.Warn(ctx, "failed to restore session", "error", err)
		}
		a.printf("Not logged in; use 'login' or 'register'\n")
		return
	}

	mode := ModeOnline
	if err := a.authService.Ping(ctx); err != nil {
		mode = ModeOffline
	}
	a.printf("Resumed session for %s\n", s.Username)
	a.loggedIn(ctx, s, mode)
}

func (a *App) loggedIn(ctx context.Context, s auth.Session, mode Mode) {
	a.mu.Lock()
	a.session = &s
	a.mu.Unlock()
	a.setMode(mode)
	a.startCreator()

	if mode == ModeOnline {
		if err := a.refreshDecks(ctx); err != nil {
			a.log.Warn(ctx, "failed to refresh decks", "error", err)
		}
	}
}

// Logout closes open chats, forgets the saved session and returns to the
// creator surface.
func (a *App) Logout(ctx context.Context) error {
	a.closeEditor(ctx)
	a.closeTeaching(ctx)
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.session = nil
	a.creator = nil
	a.surface = SurfaceCreator
	a.mu.Unlock()
	a.printf("Logged out\n")
	return nil
}
