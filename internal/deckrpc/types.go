package deckrpc

import "time"

// Records.

type Deck struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	CreatorID   string    `json:"creator_id"`
	Subject     string    `json:"subject,omitempty"`
	Description string    `json:"description,omitempty"`
}

type Flashcard struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	DeckID    string    `json:"deck_id"`
}

type MessageThread struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	CreatorID string    `json:"creator_id"`
}

type Message struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Content     string    `json:"content"`
	Role        string    `json:"role"`
	ThreadID    int64     `json:"thread_id"`
	ClientToken string    `json:"client_token,omitempty"`
}

type Empty struct{}

// Accounts.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Decks.

type CreateDeckRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Subject     string `json:"subject,omitempty" validate:"max=500"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type GetDeckRequest struct {
	ID string `json:"id" validate:"required"`
}

// ListDecksRequest lists the decks of CreatorID. An empty CreatorID means
// the caller.
type ListDecksRequest struct {
	CreatorID string `json:"creator_id,omitempty"`
}

type UpdateDeckRequest struct {
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Subject     *string `json:"subject,omitempty" validate:"omitempty,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type DeleteDeckRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeckResponse struct {
	Deck Deck `json:"deck"`
}

type ListDecksResponse struct {
	Decks []Deck `json:"decks"`
}

// Flashcards.

type FlashcardInput struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	DeckID   string `json:"deck_id" validate:"required"`
}

type CreateFlashcardRequest struct {
	Flashcard FlashcardInput `json:"flashcard"`
}

type CreateFlashcardsRequest struct {
	Flashcards []FlashcardInput `json:"flashcards" validate:"dive"`
}

type ListFlashcardsRequest struct {
	DeckID string `json:"deck_id" validate:"required"`
}

type UpdateFlashcardRequest struct {
	ID       string  `json:"id" validate:"required"`
	Question *string `json:"question,omitempty" validate:"omitempty,min=1"`
	Answer   *string `json:"answer,omitempty" validate:"omitempty,min=1"`
}

type DeleteFlashcardRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteDeckFlashcardsRequest struct {
	DeckID string `json:"deck_id" validate:"required"`
}

// CardContent is a flashcard body without identity, used when a deck's
// cards are replaced wholesale.
type CardContent struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type ReplaceFlashcardsRequest struct {
	DeckID     string        `json:"deck_id" validate:"required"`
	Flashcards []CardContent `json:"flashcards" validate:"dive"`
}

type FlashcardResponse struct {
	Flashcard Flashcard `json:"flashcard"`
}

type ListFlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// Threads and messages.

type CreateThreadRequest struct {
	Name string `json:"name" validate:"required,max=300"`
}

// CreateThreadResponse carries Created=false when a thread with the same
// creator and name already existed and was returned instead.
type CreateThreadResponse struct {
	Thread  MessageThread `json:"thread"`
	Created bool          `json:"created"`
}

type ListThreadsRequest struct{}

type GetThreadRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type DeleteThreadRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type ThreadResponse struct {
	Thread MessageThread `json:"thread"`
}

type ListThreadsResponse struct {
	Threads []MessageThread `json:"threads"`
}

// CreateMessageRequest appends a message. A zero CreatedAt is replaced by the
// server clock. A repeated ClientToken within a thread returns the message
// stored the first time.
type CreateMessageRequest struct {
	ThreadID    int64     `json:"thread_id" validate:"required,gt=0"`
	Content     string    `json:"content"`
	Role        string    `json:"role" validate:"required,oneof=user ai"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	ClientToken string    `json:"client_token,omitempty" validate:"max=64"`
}

type ListMessagesRequest struct {
	ThreadID int64 `json:"thread_id" validate:"required,gt=0"`
}

type DeleteMessageRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type MessageResponse struct {
	Message Message `json:"message"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// Source documents.

type CreateSourceUploadRequest struct {
	DeckID      string `json:"deck_id" validate:"required"`
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type,omitempty"`
}

type CreateSourceUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
