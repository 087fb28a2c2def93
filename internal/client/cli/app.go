package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/config"
	"github.com/dmitrijs2005/studydeck/internal/client/generation"
	"github.com/dmitrijs2005/studydeck/internal/client/localdb"
	"github.com/dmitrijs2005/studydeck/internal/client/remote"
	"github.com/dmitrijs2005/studydeck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studydeck/internal/client/session"
	"github.com/dmitrijs2005/studydeck/internal/client/store"
	"github.com/dmitrijs2005/studydeck/internal/client/teach"
	"github.com/dmitrijs2005/studydeck/internal/client/workflow"
	"github.com/dmitrijs2005/studydeck/internal/filex"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/netx"
	"github.com/robfig/cron/v3"
)

// LogFileName is the client log inside the data directory.
const LogFileName = "studydeck.log"

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// Surface is the chat that receives free text.
type Surface string

const (
	SurfaceCreator  Surface = "creator"
	SurfaceEditor   Surface = "editor"
	SurfaceTeaching Surface = "teaching"
)

type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	reader *bufio.Reader

	db          *sql.DB
	logFile     io.Closer
	remote      remote.Client
	authService auth.Service
	generator   generation.Client
	store       *store.Store
	evaluations *teach.EvaluationStore
	uploader    workflow.Uploader
	scheduler   *cron.Cron

	// refreshMu keeps the scheduled, reconnect and manual refreshes from
	// publishing the same pending deck twice.
	refreshMu sync.Mutex

	mu      sync.Mutex
	Mode    Mode
	session *auth.Session

	surface   Surface
	creator   *workflow.Workflow
	editor    *workflow.Workflow
	editSink  *session.Debouncer
	teaching  *teach.Session
	teachSink *session.Debouncer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(dataDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log := logging.NewTextLogger(logFile, logging.ParseLevel(c.LogLevel))

	db, err := localdb.Open(ctx, filepath.Join(dataDir, localdb.FileName))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		_ = logFile.Close()
		return nil, err
	}
	repo := metadata.NewSQLiteRepository(db)

	var as auth.Service
	apiClient, err := remote.NewGRPCClient(c.ServerEndpointAddr,
		remote.WithTimeout(c.RequestTimeout),
		remote.WithRefreshHook(func(t remote.Tokens) {
			if err := as.RememberTokens(context.Background(), t); err != nil {
				log.Warn(context.Background(), "failed to save refreshed tokens", "error", err)
			}
		}),
	)
	if err != nil {
		_ = db.Close()
		_ = logFile.Close()
		return nil, err
	}
	as = auth.NewService(apiClient, repo)

	evals, err := teach.LoadEvaluationStore(ctx, repo)
	if err != nil {
		log.Warn(ctx, "discarding unreadable evaluation results", "error", err)
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}

	return &App{
		config:      c,
		log:         log,
		out:         os.Stdout,
		reader:      bufio.NewReader(os.Stdin),
		db:          db,
		logFile:     logFile,
		remote:      apiClient,
		authService: as,
		generator:   generation.NewHTTPClient(c.GenerationBaseURL, c.RequestTimeout, as, log),
		store:       store.New(ctx, store.NewMetadataPersister(repo), log),
		evaluations: evals,
		uploader: func(ctx context.Context, url, contentType string, body []byte) error {
			return netx.UploadToPresignedURL(ctx, httpClient, url, contentType, body)
		},
		surface: SurfaceCreator,
	}, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := ""
	if a.session != nil {
		s = a.session.Username + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s) ", s)
	}
	return s + string(a.surface)
}

// Run restores a saved session, starts background jobs and blocks in the
// REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	a.printf("Welcome to studydeck (type 'help' for commands)\n")
	a.restoreSession(ctx)

	if err := a.startJobs(ctx); err != nil {
		a.log.Error(ctx, "failed to start background jobs", "error", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close flushes open transcripts and the store and releases resources.
func (a *App) Close(ctx context.Context) {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	a.closeEditor(ctx)
	a.closeTeaching(ctx)
	if err := a.store.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to save state", "error", err)
	}
	if a.remote != nil {
		_ = a.remote.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// Status prints the connection state, the open chat and the latest
// teaching evaluation.
func (a *App) Status(ctx context.Context) error {
	a.mu.Lock()
	mode, surface := a.Mode, a.surface
	user := ""
	if a.session != nil {
		user = a.session.Username
	}
	a.mu.Unlock()

	a.printf("User:    %s\n", user)
	a.printf("Mode:    %s\n", mode)
	a.printf("Chat:    %s\n", surface)
	a.printf("Decks:   %d (%d not synced)\n", len(a.store.Decks()), len(a.store.PendingDecks()))
	if d, ok := a.store.ActiveDeck(); ok {
		a.printf("Active:  %s\n", d.Title)
	}
	if a.evaluations != nil {
		if s, ok := a.evaluations.Latest(); ok {
			a.printf("Last evaluation:\n")
			a.printScore(s)
		}
	}
	return nil
}
