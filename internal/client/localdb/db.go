// Package localdb opens the client's SQLite database and brings its schema
// up to date.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/studydeck/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the client's data directory.
const FileName = "studydeck.db"

// busyTimeout lets a second client process wait for the write lock instead
// of failing with SQLITE_BUSY.
const busyTimeout = "_pragma=busy_timeout(5000)"

// RunMigrations applies every pending migration to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("local migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply local migrations: %w", err)
	}
	return nil
}

// Open opens the database file at path, creating it if needed, and migrates
// it.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?"+busyTimeout)
	if err != nil {
		return nil, err
	}
	// One connection keeps writes from the store and the auth cache ordered.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
