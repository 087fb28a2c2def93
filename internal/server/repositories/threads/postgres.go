package threads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanThread(row scanner) (*models.MessageThread, error) {
	var t models.MessageThread
	if err := row.Scan(&t.ID, &t.Name, &t.CreatorID, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, creatorID, name string) (*models.MessageThread, bool, error) {
	insert := `
		INSERT INTO message_threads (name, creator_id)
		VALUES ($1, $2)
		ON CONFLICT (creator_id, name) DO NOTHING
		RETURNING id, name, creator_id, created_at
	`
	t, err := scanThread(r.db.QueryRowContext(ctx, insert, name, creatorID))
	if err == nil {
		return t, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	existing := `
		SELECT id, name, creator_id, created_at
		FROM message_threads
		WHERE creator_id = $1 AND name = $2
	`
	t, err = scanThread(r.db.QueryRowContext(ctx, existing, creatorID, name))
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	return t, false, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64, creatorID string) (*models.MessageThread, error) {
	query := `
		SELECT id, name, creator_id, created_at
		FROM message_threads
		WHERE id = $1 AND creator_id = $2
	`
	t, err := scanThread(r.db.QueryRowContext(ctx, query, id, creatorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.MessageThread, error) {
	query := `
		SELECT id, name, creator_id, created_at
		FROM message_threads
		WHERE creator_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to select threads: %w", err)
	}
	defer rows.Close()

	var result []*models.MessageThread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the thread and its messages.
func (r *PostgresRepository) Delete(ctx context.Context, id int64, creatorID string) error {
	query := `
		DELETE FROM message_threads
		WHERE id = $1 AND creator_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, creatorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
