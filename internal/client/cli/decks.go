package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/workflow"
	"github.com/dmitrijs2005/studydeck/internal/common"
)

// deckAt resolves a 1-based position in the deck list.
func (a *App) deckAt(arg string) (models.Deck, error) {
	decks := a.store.Decks()
	i, err := parseIndex(arg, len(decks))
	if err != nil {
		return models.Deck{}, err
	}
	return decks[i], nil
}

// Decks prints the deck list; '*' marks the active deck.
func (a *App) Decks(ctx context.Context) error {
	decks := a.store.Decks()
	if len(decks) == 0 {
		a.printf("No decks yet; describe a subject or upload a PDF to create one\n")
		return nil
	}

	active, _ := a.store.ActiveDeckID()
	for i, d := range decks {
		mark := " "
		if d.ID == active {
			mark = "*"
		}
		state := ""
		if d.ID.IsPending() {
			state = " (not synced)"
		}
		n := len(a.store.DeckFlashcards(d.ID))
		a.printf("%s %d. %s [%s] %d cards%s\n", mark, i+1, d.Title, d.Subject, n, state)
	}
	return nil
}

// Show prints the cards of the deck at position arg.
func (a *App) Show(ctx context.Context, arg string) error {
	d, err := a.deckAt(arg)
	if err != nil {
		return err
	}
	a.printf("%s\n", d.Title)
	if d.Description != "" {
		a.printf("%s\n", d.Description)
	}
	for i, c := range a.store.DeckFlashcards(d.ID) {
		a.printf("  %d. Q: %s\n     A: %s\n", i+1, c.Question, c.Answer)
	}
	return nil
}

// Use makes the deck at position arg the active deck.
func (a *App) Use(ctx context.Context, arg string) error {
	d, err := a.deckAt(arg)
	if err != nil {
		return err
	}
	a.store.SetActiveDeckID(d.ID)
	a.printf("Active deck: %s\n", d.Title)
	return nil
}

// Delete removes the deck at position arg locally and, when it was
// synced, from the server.
func (a *App) Delete(ctx context.Context, arg string) error {
	d, err := a.deckAt(arg)
	if err != nil {
		return err
	}

	if serverID, ok := d.ID.ServerID(); ok {
		if a.mode() != ModeOnline {
			return errors.New("deleting a synced deck requires online mode")
		}
		if err := a.remote.DeleteDeck(ctx, serverID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("delete deck: %w", err)
		}
	}

	a.mu.Lock()
	editing := a.editor != nil && a.editor.DeckID() == d.ID
	a.mu.Unlock()
	if editing {
		a.closeEditor(ctx)
	}

	a.store.RemoveDeck(d.ID)
	a.printf("Deleted %s\n", d.Title)
	return nil
}

// Refresh pulls decks from the server and uploads decks created offline.
func (a *App) Refresh(ctx context.Context) error {
	if a.mode() != ModeOnline {
		return errors.New("refresh requires online mode")
	}
	if err := a.refreshDecks(ctx); err != nil {
		return err
	}
	a.printf("Decks up to date\n")
	return nil
}

// refreshDecks merges the user's server decks into the store, loads the
// cards of newly seen ones and publishes pending decks.
func (a *App) refreshDecks(ctx context.Context) error {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	creds, err := a.authService.Credentials(ctx)
	if err != nil {
		return err
	}

	remoteDecks, err := a.remote.ListDecks(ctx, creds.CreatorID())
	if err != nil {
		return fmt.Errorf("list decks: %w", err)
	}

	for _, id := range a.store.MergeRemoteDecks(remoteDecks) {
		serverID, _ := id.ServerID()
		cards, err := a.remote.ListFlashcards(ctx, serverID)
		if err != nil {
			a.log.Warn(ctx, "failed to load flashcards", "deck", serverID, "error", err)
			continue
		}
		a.store.UpdateDeck(id, models.DeckPatch{Flashcards: cards})
	}

	if published := workflow.PublishPendingDecks(ctx, a.store, a.remote, a.log); len(published) > 0 {
		a.printf("Uploaded %d deck(s) created offline\n", len(published))
	}
	return nil
}
