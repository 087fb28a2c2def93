package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one chat transcript entry. ID is the server id and stays zero
// for entries that were never read back from the remote store. Token is a
// client-generated idempotency key sent with the remote append. IsLoading
// marks transient placeholders, which are never persisted.
type Message struct {
	ID        int64     `json:"id,omitempty"`
	Token     string    `json:"token"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	IsLoading bool      `json:"isLoading,omitempty"`
	HasFile   bool      `json:"hasFile,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
}

// NewMessage creates a transcript entry with a fresh token.
func NewMessage(sender Sender, content string, at time.Time) Message {
	return Message{
		Token:     uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: at,
	}
}

// NewLoadingMessage creates a placeholder shown while a remote call runs.
func NewLoadingMessage(content string, at time.Time) Message {
	m := NewMessage(SenderAI, content, at)
	m.IsLoading = true
	return m
}

// WithoutLoading returns msgs minus loading placeholders, in order.
func WithoutLoading(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.IsLoading {
			out = append(out, m)
		}
	}
	return out
}

// CloneMessages copies msgs; a nil input yields an empty slice.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// SortedByTimestamp returns a copy ordered by timestamp, ties kept in
// insertion order.
func SortedByTimestamp(msgs []Message) []Message {
	out := CloneMessages(msgs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
