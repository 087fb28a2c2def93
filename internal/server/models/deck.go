// Package models defines server-side data models persisted in the database.
package models

import "time"

type Deck struct {
	ID          string
	CreatedAt   time.Time
	Name        string
	CreatorID   string
	Subject     string
	Description string
	SourceKey   string
}

// DeckPatch carries the fields UpdateDeck may change. Nil fields are kept.
type DeckPatch struct {
	Name        *string
	Subject     *string
	Description *string
}

type Flashcard struct {
	ID        string
	CreatedAt time.Time
	Question  string
	Answer    string
	DeckID    string
	Position  int
}
