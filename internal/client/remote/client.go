package remote

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
)

// Tokens is an access/refresh token pair.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Tokens
	UserID string
}

// SourceUpload is a presigned destination for a deck's source document.
type SourceUpload struct {
	Key string
	URL string
}

type DeckClient interface {
	CreateDeck(ctx context.Context, in models.DeckInput) (models.RemoteDeck, error)
	GetDeck(ctx context.Context, id string) (models.RemoteDeck, error)
	ListDecks(ctx context.Context, creatorID string) ([]models.RemoteDeck, error)
	UpdateDeck(ctx context.Context, id string, patch models.DeckPatch) (models.RemoteDeck, error)
	DeleteDeck(ctx context.Context, id string) error
}

type FlashcardClient interface {
	CreateFlashcard(ctx context.Context, in models.FlashcardInput) (models.Flashcard, error)
	CreateFlashcards(ctx context.Context, in []models.FlashcardInput) ([]models.Flashcard, error)
	ListFlashcards(ctx context.Context, deckID string) ([]models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, id string, question, answer *string) (models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id string) error
	DeleteDeckFlashcards(ctx context.Context, deckID string) error
	ReplaceFlashcards(ctx context.Context, deckID string, cards []models.Flashcard) ([]models.Flashcard, error)
}

type ThreadClient interface {
	// CreateThread reports created=false when the server already held a
	// thread with the same creator and name and returned it.
	CreateThread(ctx context.Context, name string) (thread models.MessageThread, created bool, err error)
	ListThreads(ctx context.Context) ([]models.MessageThread, error)
	GetThread(ctx context.Context, id int64) (models.MessageThread, error)
	DeleteThread(ctx context.Context, id int64) error
}

type MessageClient interface {
	CreateMessage(ctx context.Context, in models.MessageInput) (models.RemoteMessage, error)
	ListMessages(ctx context.Context, threadID int64) ([]models.RemoteMessage, error)
	DeleteMessage(ctx context.Context, id int64) error
}

type Client interface {
	DeckClient
	FlashcardClient
	ThreadClient
	MessageClient

	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	SetTokens(t Tokens)
	CreateSourceUpload(ctx context.Context, deckID, fileName, contentType string) (SourceUpload, error)
}
