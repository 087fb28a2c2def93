// Package metadata is the client's key/value store. Each persisted blob
// (deck state, evaluation results, session) lives under one key.
package metadata

import (
	"context"
)

// Keys of the blobs the client persists.
const (
	KeyDeckState   = "flashcard-storage"
	KeyEvaluations = "evaluation-storage"
	KeySession     = "session"
)

// Repository stores opaque values by key. Get returns (nil, nil) when the
// key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
