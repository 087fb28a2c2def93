package models

import "time"

// Flashcard is a question/answer pair. DeckID is set only once the owning
// deck has a server id.
type Flashcard struct {
	ID        ID        `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	DeckID    string    `json:"deck_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

const (
	MissingQuestion = "Question not available"
	MissingAnswer   = "Answer not available"
)

// Normalize fills the gaps a generator may leave: a missing id becomes a
// fresh pending id, missing texts get placeholders.
func (f Flashcard) Normalize() Flashcard {
	if f.ID.IsZero() {
		f.ID = NewPendingID()
	}
	if f.Question == "" {
		f.Question = MissingQuestion
	}
	if f.Answer == "" {
		f.Answer = MissingAnswer
	}
	return f
}

// CloneFlashcards copies cards; a nil input yields an empty slice.
func CloneFlashcards(cards []Flashcard) []Flashcard {
	out := make([]Flashcard, len(cards))
	copy(out, cards)
	return out
}

// FlashcardInput is what the client sends to create a card remotely.
type FlashcardInput struct {
	Question string
	Answer   string
	DeckID   string
}
