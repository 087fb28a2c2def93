package flashcards

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

func scanCard(row scanner) (*models.Flashcard, error) {
	var c models.Flashcard
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.Question, &c.Answer, &c.DeckID, &c.Position); err != nil {
		return nil, err
	}
	return &c, nil
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// Create appends card after the last card of its deck.
func (r *PostgresRepository) Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	query := `
		INSERT INTO flashcards (deck_id, question, answer, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position) + 1, 0) FROM flashcards WHERE deck_id = $1))
		RETURNING id, created_at, question, answer, deck_id, position
	`
	c, err := scanCard(r.db.QueryRowContext(ctx, query, card.DeckID, card.Question, card.Answer))
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByDeck(ctx context.Context, deckID string) ([]*models.Flashcard, error) {
	query := `
		SELECT id, created_at, question, answer, deck_id, position
		FROM flashcards
		WHERE deck_id = $1
		ORDER BY position, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to select flashcards: %w", err)
	}
	defer rows.Close()

	var result []*models.Flashcard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, creatorID string, question, answer *string) (*models.Flashcard, error) {
	query := `
		UPDATE flashcards f SET
			question = COALESCE($3, f.question),
			answer = COALESCE($4, f.answer)
		FROM decks d
		WHERE f.id = $1 AND d.id = f.deck_id AND d.creator_id = $2
		RETURNING f.id, f.created_at, f.question, f.answer, f.deck_id, f.position
	`
	c, err := scanCard(r.db.QueryRowContext(ctx, query, id, creatorID, nullString(question), nullString(answer)))
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, creatorID string) error {
	query := `
		DELETE FROM flashcards f
		USING decks d
		WHERE f.id = $1 AND d.id = f.deck_id AND d.creator_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, creatorID)
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

// DeleteByDeck removes every card of deckID. The caller checks ownership.
func (r *PostgresRepository) DeleteByDeck(ctx context.Context, deckID string) error {
	query := `
		DELETE FROM flashcards
		WHERE deck_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, deckID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
