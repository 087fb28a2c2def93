package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/server/models"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/repomanager"
)

// ThreadService manages message threads and their messages for the
// authenticated user.
type ThreadService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	now   func() time.Time
}

func NewThreadService(db *sql.DB, m repomanager.RepositoryManager) *ThreadService {
	return &ThreadService{db: db, repos: m, now: time.Now}
}

// CreateThread returns the user's thread called name, creating it if needed.
func (s *ThreadService) CreateThread(ctx context.Context, userID, name string) (*models.MessageThread, bool, error) {
	return s.repos.Threads(s.db).Upsert(ctx, userID, name)
}

func (s *ThreadService) ListThreads(ctx context.Context, userID string) ([]*models.MessageThread, error) {
	return s.repos.Threads(s.db).ListByCreator(ctx, userID)
}

func (s *ThreadService) GetThread(ctx context.Context, userID string, id int64) (*models.MessageThread, error) {
	return s.repos.Threads(s.db).Get(ctx, id, userID)
}

func (s *ThreadService) DeleteThread(ctx context.Context, userID string, id int64) error {
	return s.repos.Threads(s.db).Delete(ctx, id, userID)
}

// CreateMessage appends msg to one of the user's threads. A zero CreatedAt
// is stamped with the server clock; client timestamps are kept as sent.
func (s *ThreadService) CreateMessage(ctx context.Context, userID string, msg models.Message) (*models.Message, error) {
	if _, err := s.repos.Threads(s.db).Get(ctx, msg.ThreadID, userID); err != nil {
		return nil, err
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	return s.repos.Messages(s.db).Create(ctx, &msg)
}

func (s *ThreadService) ListMessages(ctx context.Context, userID string, threadID int64) ([]*models.Message, error) {
	if _, err := s.repos.Threads(s.db).Get(ctx, threadID, userID); err != nil {
		return nil, err
	}
	return s.repos.Messages(s.db).ListByThread(ctx, threadID)
}

func (s *ThreadService) DeleteMessage(ctx context.Context, userID string, id int64) error {
	return s.repos.Messages(s.db).Delete(ctx, id, userID)
}
