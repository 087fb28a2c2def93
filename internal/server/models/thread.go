package models

import "time"

type MessageThread struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	CreatorID string
}

// Message is one chat entry. ClientToken is the idempotency key chosen by
// the client; empty when the client sent none.
type Message struct {
	ID          int64
	CreatedAt   time.Time
	Content     string
	Role        string
	ThreadID    int64
	ClientToken string
}
