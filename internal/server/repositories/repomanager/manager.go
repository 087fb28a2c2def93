package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/decks"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/flashcards"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/messages"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/threads"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a *sql.DB or *sql.Tx, so
// services can run several of them inside one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Decks(db dbx.DBTX) decks.Repository
	Flashcards(db dbx.DBTX) flashcards.Repository
	Threads(db dbx.DBTX) threads.Repository
	Messages(db dbx.DBTX) messages.Repository
}
