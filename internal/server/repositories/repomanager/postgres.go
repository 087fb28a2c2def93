// Package repomanager binds the Postgres repositories to a *sql.DB or
// transaction and applies the server schema.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/migrations"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/decks"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/flashcards"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/messages"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/threads"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Decks(db dbx.DBTX) decks.Repository {
	return decks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Flashcards(db dbx.DBTX) flashcards.Repository {
	return flashcards.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Threads(db dbx.DBTX) threads.Repository {
	return threads.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is replaced in tests; the real provider needs a live server.
var newMigrator = func(db *sql.DB) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, db, migrations.Migrations)
}

// RunMigrations applies the embedded server migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	mg, err := newMigrator(db)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if _, err := mg.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
