package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

type Repository interface {
	// Create stores t.Token for t.UserID until t.Expires.
	Create(ctx context.Context, t *models.RefreshToken) error

	// Consume deletes the token and returns the row it removed, or
	// common.ErrorNotFound when the token is unknown or already used.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteExpired removes tokens that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
