package messages

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

func scanMessage(row scanner) (*models.Message, error) {
	var (
		m     models.Message
		token sql.NullString
	)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.Content, &m.Role, &m.ThreadID, &token); err != nil {
		return nil, err
	}
	m.ClientToken = token.String
	return &m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	insert := `
		INSERT INTO messages (thread_id, content, role, created_at, client_token)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (thread_id, client_token) DO NOTHING
		RETURNING id, created_at, content, role, thread_id, client_token
	`
	m, err := scanMessage(r.db.QueryRowContext(ctx, insert,
		msg.ThreadID, msg.Content, msg.Role, msg.CreatedAt, msg.ClientToken))
	if err == nil {
		return m, nil
	}
	if dbx.IsForeignKeyViolation(err) {
		return nil, common.ErrorNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	existing := `
		SELECT id, created_at, content, role, thread_id, client_token
		FROM messages
		WHERE thread_id = $1 AND client_token = $2
	`
	m, err = scanMessage(r.db.QueryRowContext(ctx, existing, msg.ThreadID, msg.ClientToken))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// ListByThread returns the thread's messages in timestamp order.
func (r *PostgresRepository) ListByThread(ctx context.Context, threadID int64) ([]*models.Message, error) {
	query := `
		SELECT id, created_at, content, role, thread_id, client_token
		FROM messages
		WHERE thread_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, creatorID string) error {
	query := `
		DELETE FROM messages m
		USING message_threads t
		WHERE m.id = $1 AND t.id = m.thread_id AND t.creator_id = $2
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
