package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const pingTimeout = 3 * time.Second

// startJobs schedules the connectivity watcher and the periodic deck
// refresh. Both run until Close stops the scheduler.
func (a *App) startJobs(ctx context.Context) error {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", a.config.OnlineCheckInterval), func() {
		a.checkOnline(ctx)
	}); err != nil {
		return fmt.Errorf("schedule online check: %w", err)
	}

	if _, err := c.AddFunc(a.config.RefreshSchedule, func() {
		if a.mode() != ModeOnline || !a.isLoggedIn() {
			return
		}
		if err := a.refreshDecks(ctx); err != nil {
			a.log.Warn(ctx, "scheduled refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule deck refresh %q: %w", a.config.RefreshSchedule, err)
	}

	c.Start()
	a.scheduler = c
	return nil
}

// checkOnline pings the server and switches between online and offline.
// Coming back online triggers a refresh so offline decks get uploaded.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	was := a.mode()
	if err := a.authService.Ping(pctx); err != nil {
		if was == ModeOnline {
			a.setMode(ModeOffline)
		}
		return
	}

	if !a.isLoggedIn() {
		return
	}
	a.setMode(ModeOnline)
	if was != ModeOnline {
		if err := a.refreshDecks(ctx); err != nil {
			a.log.Warn(ctx, "refresh after reconnect failed", "error", err)
		}
	}
}
