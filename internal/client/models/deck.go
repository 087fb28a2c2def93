package models

import (
	"fmt"
	"time"
)

// Deck is the client-side view of a flashcard deck. Flashcards is the copy
// that travelled with the deck; the Store's per-deck flashcard cache is the
// working copy and may diverge until reconciled.
type Deck struct {
	ID          ID          `json:"id"`
	Title       string      `json:"title"`
	Subject     string      `json:"subject"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	Flashcards  []Flashcard `json:"flashcards"`
}

// Clone returns a deep copy.
func (d Deck) Clone() Deck {
	d.Flashcards = CloneFlashcards(d.Flashcards)
	return d
}

// DeckPatch holds the fields updateDeck may merge into a deck. Nil fields are
// left unchanged.
type DeckPatch struct {
	Title       *string
	Subject     *string
	Description *string
	Flashcards  []Flashcard
}

// DefaultDescription is the description given to a deck built from subject.
func DefaultDescription(subject string) string {
	return fmt.Sprintf("Flashcards about %s", subject)
}

// RemoteDeck is the deck record held by the remote store.
type RemoteDeck struct {
	ID          string
	CreatedAt   time.Time
	Name        string
	CreatorID   string
	Subject     string
	Description string
}

// DeckInput is what the client sends to create a deck remotely.
type DeckInput struct {
	Name        string
	Subject     string
	Description string
}
