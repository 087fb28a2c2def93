package decks

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

func scanDeck(row scanner) (*models.Deck, error) {
	var (
		d   models.Deck
		key sql.NullString
	)
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.Name, &d.CreatorID, &d.Subject, &d.Description, &key); err != nil {
		return nil, err
	}
	d.SourceKey = key.String
	return &d, nil
}

// mapErr turns "no row" and unparsable ids into common.ErrorNotFound.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, deck *models.Deck) (*models.Deck, error) {
	query := `
		INSERT INTO decks (name, creator_id, subject, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, name, creator_id, subject, description, source_key
	`
	d, err := scanDeck(r.db.QueryRowContext(ctx, query, deck.Name, deck.CreatorID, deck.Subject, deck.Description))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, creatorID string) (*models.Deck, error) {
	query := `
		SELECT id, created_at, name, creator_id, subject, description, source_key
		FROM decks
		WHERE id = $1 AND creator_id = $2
	`
	d, err := scanDeck(r.db.QueryRowContext(ctx, query, id, creatorID))
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

// ListByCreator returns the creator's decks, oldest first.
func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Deck, error) {
	query := `
		SELECT id, created_at, name, creator_id, subject, description, source_key
		FROM decks
		WHERE creator_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to select decks: %w", err)
	}
	defer rows.Close()

	var result []*models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies the non-nil fields of patch.
func (r *PostgresRepository) Update(ctx context.Context, id, creatorID string, patch models.DeckPatch) (*models.Deck, error) {
	query := `
		UPDATE decks SET
			name = COALESCE($3, name),
			subject = COALESCE($4, subject),
			description = COALESCE($5, description)
		WHERE id = $1 AND creator_id = $2
		RETURNING id, created_at, name, creator_id, subject, description, source_key
	`
	d, err := scanDeck(r.db.QueryRowContext(ctx, query, id, creatorID,
		nullString(patch.Name), nullString(patch.Subject), nullString(patch.Description)))
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (r *PostgresRepository) SetSourceKey(ctx context.Context, id, creatorID, key string) error {
	query := `
		UPDATE decks SET source_key = $3
		WHERE id = $1 AND creator_id = $2
	`
	return r.exec(ctx, query, id, creatorID, key)
}

// Delete removes the deck; its flashcards go with it.
func (r *PostgresRepository) Delete(ctx context.Context, id, creatorID string) error {
	query := `
		DELETE FROM decks
		WHERE id = $1 AND creator_id = $2
	`
	return r.exec(ctx, query, id, creatorID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
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

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
