// Package messages stores chat messages in PostgreSQL. A message carrying a
// client token is written at most once per thread.
package messages

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

type Repository interface {
	// Create inserts msg, or returns the stored message when its thread
	// already has one with the same client token.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListByThread(ctx context.Context, threadID int64) ([]*models.Message, error)
	Delete(ctx context.Context, id int64, creatorID string) error
}
