// Package grpc exposes the services over the RemoteStore gRPC service. Every
// method except Register, Login and RefreshToken needs an access token in the
// "access_token" metadata key. A standard health service reports whether
// RemoteStore is serving.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/studydeck/internal/deckrpc"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
	"github.com/dmitrijs2005/studydeck/internal/server/services"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type DeckService interface {
	CreateDeck(ctx context.Context, userID string, deck models.Deck) (*models.Deck, error)
	GetDeck(ctx context.Context, userID, id string) (*models.Deck, error)
	ListDecks(ctx context.Context, userID, creatorID string) ([]*models.Deck, error)
	UpdateDeck(ctx context.Context, userID, id string, patch models.DeckPatch) (*models.Deck, error)
	DeleteDeck(ctx context.Context, userID, id string) error
	CreateFlashcard(ctx context.Context, userID string, card models.Flashcard) (*models.Flashcard, error)
	CreateFlashcards(ctx context.Context, userID string, cards []models.Flashcard) ([]*models.Flashcard, error)
	ListFlashcards(ctx context.Context, userID, deckID string) ([]*models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, userID, id string, question, answer *string) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, userID, id string) error
	DeleteDeckFlashcards(ctx context.Context, userID, deckID string) error
	ReplaceFlashcards(ctx context.Context, userID, deckID string, cards []models.Flashcard) ([]*models.Flashcard, error)
}

type ThreadService interface {
	CreateThread(ctx context.Context, userID, name string) (*models.MessageThread, bool, error)
	ListThreads(ctx context.Context, userID string) ([]*models.MessageThread, error)
	GetThread(ctx context.Context, userID string, id int64) (*models.MessageThread, error)
	DeleteThread(ctx context.Context, userID string, id int64) error
	CreateMessage(ctx context.Context, userID string, msg models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, userID string, threadID int64) ([]*models.Message, error)
	DeleteMessage(ctx context.Context, userID string, id int64) error
}

type SourceService interface {
	CreateUpload(ctx context.Context, userID, deckID, fileName, contentType string) (key, url string, err error)
}

type GRPCServer struct {
	deckrpc.UnimplementedRemoteStoreServer
	address   string
	users     UserService
	decks     DeckService
	threads   ThreadService
	sources   SourceService
	logger    logging.Logger
	jwtSecret []byte
	validate  *validator.Validate
	health    *health.Server
}

func NewGRPCServer(a string, l logging.Logger, secretKey string, us UserService, ds DeckService, ts ThreadService, ss SourceService) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		decks:     ds,
		threads:   ts,
		sources:   ss,
		jwtSecret: []byte(secretKey),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		health:    health.NewServer(),
	}
}

// NewServer builds a grpc.Server with the interceptors and both services
// registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	}, opts...)
	srv := grpc.NewServer(opts...)
	deckrpc.RegisterRemoteStoreServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(deckrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

// Run serves on the configured address until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
