// Package decks stores decks in PostgreSQL. Every lookup is scoped to the
// deck's creator; a deck owned by someone else reads as missing.
package decks

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, deck *models.Deck) (*models.Deck, error)
	Get(ctx context.Context, id, creatorID string) (*models.Deck, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Deck, error)
	Update(ctx context.Context, id, creatorID string, patch models.DeckPatch) (*models.Deck, error)
	SetSourceKey(ctx context.Context, id, creatorID, key string) error
	Delete(ctx context.Context, id, creatorID string) error
}
