package store

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/repositories/metadata"
)

// Snapshot is the persisted form of the store. Map keys are models.ID keys.
type Snapshot struct {
	Decks              []models.Deck                 `json:"decks"`
	ActiveDeckID       *models.ID                    `json:"activeDeckId"`
	ActiveTeachingDeck *models.Deck                  `json:"activeTeachingDeck"`
	DeckFlashcards     map[string][]models.Flashcard `json:"deckFlashcards"`
	DeckMessages       map[string][]models.Message   `json:"deckMessages"`
}

// Persister loads and saves snapshots.
type Persister interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, s Snapshot) error
}

// MetadataPersister keeps the snapshot as one JSON blob in the metadata
// repository.
type MetadataPersister struct {
	repo metadata.Repository
}

func NewMetadataPersister(repo metadata.Repository) *MetadataPersister {
	return &MetadataPersister{repo: repo}
}

func (p *MetadataPersister) Load(ctx context.Context) (Snapshot, bool, error) {
	var s Snapshot
	found, err := metadata.LoadJSON(ctx, p.repo, metadata.KeyDeckState, &s)
	return s, found, err
}

func (p *MetadataPersister) Save(ctx context.Context, s Snapshot) error {
	return metadata.SaveJSON(ctx, p.repo, metadata.KeyDeckState, s)
}
