// Package server wires the studydeck server together: it opens PostgreSQL,
// applies migrations, builds the services and serves them over gRPC until
// the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/server/config"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studydeck/internal/server/services"
	"github.com/robfig/cron/v3"

	gs "github.com/dmitrijs2005/studydeck/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// pruneSchedule is how often expired refresh tokens are removed.
const pruneSchedule = "@hourly"

type tokenPruner interface {
	PruneRefreshTokens(ctx context.Context) (int64, error)
}

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	deckService   *services.DeckService
	threadService *services.ThreadService
	sourceService *services.SourceService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   services.NewUserService(db, rm, c),
		deckService:   services.NewDeckService(db, rm),
		threadService: services.NewThreadService(db, rm),
		sourceService: services.NewSourceService(db, rm, c),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.config.SecretKey,
		app.userService, app.deckService, app.threadService, app.sourceService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// pruneTokens deletes expired refresh tokens once.
func pruneTokens(ctx context.Context, p tokenPruner, l logging.Logger) {
	n, err := p.PruneRefreshTokens(ctx)
	if err != nil {
		l.Error(ctx, "failed to prune refresh tokens", "error", err)
		return
	}
	if n > 0 {
		l.Info(ctx, "pruned expired refresh tokens", "count", n)
	}
}

func startPruner(ctx context.Context, p tokenPruner, l logging.Logger, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { pruneTokens(ctx, p, l) }); err != nil {
		return nil, fmt.Errorf("schedule token pruning %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

// Run serves until a signal arrives or the server fails, then closes the
// database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	pruner, err := startPruner(ctx, app.userService, app.logger, pruneSchedule)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if pruner != nil {
		<-pruner.Stop().Done()
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "failed to close db", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
