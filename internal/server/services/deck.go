package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/repomanager"
)

// DeckService manages decks and their flashcards. Every method acts for
// userID; records owned by someone else are reported as common.ErrorNotFound.
type DeckService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewDeckService(db *sql.DB, m repomanager.RepositoryManager) *DeckService {
	return &DeckService{db: db, repos: m}
}

func (s *DeckService) CreateDeck(ctx context.Context, userID string, deck models.Deck) (*models.Deck, error) {
	deck.CreatorID = userID
	return s.repos.Decks(s.db).Create(ctx, &deck)
}

func (s *DeckService) GetDeck(ctx context.Context, userID, id string) (*models.Deck, error) {
	return s.repos.Decks(s.db).Get(ctx, id, userID)
}

// ListDecks lists creatorID's decks. Only the caller's own decks are
// visible, so asking for another creator yields an empty list.
func (s *DeckService) ListDecks(ctx context.Context, userID, creatorID string) ([]*models.Deck, error) {
	if creatorID != "" && creatorID != userID {
		return nil, nil
	}
	return s.repos.Decks(s.db).ListByCreator(ctx, userID)
}

func (s *DeckService) UpdateDeck(ctx context.Context, userID, id string, patch models.DeckPatch) (*models.Deck, error) {
	return s.repos.Decks(s.db).Update(ctx, id, userID, patch)
}

func (s *DeckService) DeleteDeck(ctx context.Context, userID, id string) error {
	return s.repos.Decks(s.db).Delete(ctx, id, userID)
}

func (s *DeckService) CreateFlashcard(ctx context.Context, userID string, card models.Flashcard) (*models.Flashcard, error) {
	if _, err := s.repos.Decks(s.db).Get(ctx, card.DeckID, userID); err != nil {
		return nil, err
	}
	return s.repos.Flashcards(s.db).Create(ctx, &card)
}

// CreateFlashcards inserts cards in one transaction, in the given order.
// Cards may target several decks, all of which must belong to userID.
func (s *DeckService) CreateFlashcards(ctx context.Context, userID string, cards []models.Flashcard) ([]*models.Flashcard, error) {
	var out []*models.Flashcard
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		decks := s.repos.Decks(tx)
		repo := s.repos.Flashcards(tx)
		checked := map[string]bool{}
		for i := range cards {
			if !checked[cards[i].DeckID] {
				if _, err := decks.Get(ctx, cards[i].DeckID, userID); err != nil {
					return err
				}
				checked[cards[i].DeckID] = true
			}
			c, err := repo.Create(ctx, &cards[i])
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DeckService) ListFlashcards(ctx context.Context, userID, deckID string) ([]*models.Flashcard, error) {
	if _, err := s.repos.Decks(s.db).Get(ctx, deckID, userID); err != nil {
		return nil, err
	}
	return s.repos.Flashcards(s.db).ListByDeck(ctx, deckID)
}

func (s *DeckService) UpdateFlashcard(ctx context.Context, userID, id string, question, answer *string) (*models.Flashcard, error) {
	return s.repos.Flashcards(s.db).Update(ctx, id, userID, question, answer)
}

func (s *DeckService) DeleteFlashcard(ctx context.Context, userID, id string) error {
	return s.repos.Flashcards(s.db).Delete(ctx, id, userID)
}

func (s *DeckService) DeleteDeckFlashcards(ctx context.Context, userID, deckID string) error {
	if _, err := s.repos.Decks(s.db).Get(ctx, deckID, userID); err != nil {
		return err
	}
	return s.repos.Flashcards(s.db).DeleteByDeck(ctx, deckID)
}

// ReplaceFlashcards swaps a deck's cards for cards atomically: readers see
// either the old set or the new one.
func (s *DeckService) ReplaceFlashcards(ctx context.Context, userID, deckID string, cards []models.Flashcard) ([]*models.Flashcard, error) {
	var out []*models.Flashcard
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Decks(tx).Get(ctx, deckID, userID); err != nil {
			return err
		}
		repo := s.repos.Flashcards(tx)
		if err := repo.DeleteByDeck(ctx, deckID); err != nil {
			return err
		}
		for _, c := range cards {
			c.DeckID = deckID
			created, err := repo.Create(ctx, &c)
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
