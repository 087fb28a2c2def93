package workflow

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/store"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

// PublishPendingDecks commits every deck that only exists locally, for
// example one restored from a blob written before the remote store was
// reachable. Each deck is committed on its own; a failed deck stays pending
// and is retried on the next call. It returns the server ids it assigned.
func PublishPendingDecks(ctx context.Context, s *store.Store, r Remote, log logging.Logger) []string {
	var published []string
	for _, d := range s.PendingDecks() {
		cards := s.DeckFlashcards(d.ID)
		if len(cards) == 0 {
			cards = d.Flashcards
		}

		committed, err := persistDeck(ctx, r, log, models.DeckInput{
			Name:        d.Title,
			Subject:     d.Subject,
			Description: d.Description,
		}, cards)
		if err != nil {
			log.Warn(ctx, "failed to publish pending deck", "deck_id", d.ID.Key(), "error", err)
			continue
		}

		serverID, _ := committed.ID.ServerID()
		if err := s.CommitDeckID(d.ID, serverID); err != nil {
			log.Warn(ctx, "pending deck vanished while publishing", "deck_id", d.ID.Key(), "error", err)
			continue
		}
		s.UpdateDeck(committed.ID, models.DeckPatch{Flashcards: committed.Flashcards})
		published = append(published, serverID)
	}
	return published
}
