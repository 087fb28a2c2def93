// Package generation talks to the AI generation service: flashcards from a
// subject or a document, edits of an existing card set, transcription with a
// tutor reply, and evaluation of a teach-back conversation.
//
// Every call is a credential-bearing multipart POST. Failures and malformed
// responses are reported as common.ErrGenerationFailure; a missing session is
// reported as common.ErrNoSession before any request is made.
package generation

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
)

// File is an uploaded document or audio recording.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result is the outcome of generating a new card set.
type Result struct {
	Cards  []models.Flashcard
	UserID string
}

// Reply is the tutor's answer to a recorded explanation.
type Reply struct {
	Response        string `json:"response"`
	TranscribedText string `json:"transcribed_text"`
}

// DefaultLanguageCode is used for transcription when none is configured.
const DefaultLanguageCode = "en-US"

type Client interface {
	Generate(ctx context.Context, subject string) (Result, error)
	GenerateFromFile(ctx context.Context, file File) (Result, error)
	Edit(ctx context.Context, instruction string, current []models.Flashcard) ([]models.Flashcard, error)
	TranscribeAndRespond(ctx context.Context, audio File, history []string, languageCode string) (Reply, error)
	Evaluate(ctx context.Context, conversation []models.ConversationTurn) (models.EvaluationScore, error)
}
