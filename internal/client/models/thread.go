package models

import "time"

// MessageThread groups persisted messages. Threads relate to decks only by
// name.
type MessageThread struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	CreatorID string
}

// TeachingThreadName derives the thread name for a deck's session.
func TeachingThreadName(deckTitle string) string {
	return "Teaching Session - " + deckTitle
}

// EditingThreadName derives the thread name for a deck's edit chat.
func EditingThreadName(deckTitle string) string {
	return "Deck Editor - " + deckTitle
}

// RemoteMessage is a message record as stored remotely.
type RemoteMessage struct {
	ID          int64
	CreatedAt   time.Time
	Content     string
	Role        string
	ThreadID    int64
	ClientToken string
}

// MessageInput is what the client sends to append a message.
type MessageInput struct {
	ThreadID    int64
	Content     string
	Role        string
	CreatedAt   time.Time
	ClientToken string
}
