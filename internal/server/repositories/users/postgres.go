// Package users stores accounts in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

const (
	insertUserSQL = `INSERT INTO users (username, salt, verifier) VALUES ($1, $2, $3) RETURNING id, created_at`
	selectUserSQL = `SELECT id, username, salt, verifier, created_at FROM users WHERE username = $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores u and returns a copy carrying the generated id and creation
// time. A taken username yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	created := *u
	err := r.db.QueryRowContext(ctx, insertUserSQL, u.UserName, u.Salt, u.Verifier).
		Scan(&created.ID, &created.CreatedAt)
	switch {
	case dbx.IsUniqueViolation(err):
		return nil, common.ErrorAlreadyExists
	case err != nil:
		return nil, fmt.Errorf("insert user %q: %w", u.UserName, err)
	}
	return &created, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserSQL, username).
		Scan(&u.ID, &u.UserName, &u.Salt, &u.Verifier, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
