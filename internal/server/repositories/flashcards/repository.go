// Package flashcards stores flashcards in PostgreSQL. Cards are ordered by
// position within their deck; lookups by card id are scoped to the creator of
// the owning deck.
package flashcards

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error)
	ListByDeck(ctx context.Context, deckID string) ([]*models.Flashcard, error)
	Update(ctx context.Context, id, creatorID string, question, answer *string) (*models.Flashcard, error)
	Delete(ctx context.Context, id, creatorID string) error
	DeleteByDeck(ctx context.Context, deckID string) error
}
