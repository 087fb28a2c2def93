// Package threads stores message threads in PostgreSQL. A creator has at
// most one thread per name.
package threads

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

type Repository interface {
	// Upsert returns the creator's thread called name, creating it when
	// missing. created reports which of the two happened.
	Upsert(ctx context.Context, creatorID, name string) (thread *models.MessageThread, created bool, err error)
	Get(ctx context.Context, id int64, creatorID string) (*models.MessageThread, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.MessageThread, error)
	Delete(ctx context.Context, id int64, creatorID string) error
}
