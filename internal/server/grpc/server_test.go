package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/deckrpc"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/server/auth"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
	"github.com/dmitrijs2005/studydeck/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

const testSecret = "test-secret"

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeUsers struct {
	registered string
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "taken" {
		return nil, common.ErrorAlreadyExists
	}
	f.registered = username
	return &models.User{ID: "u-1", UserName: username}, nil
}

func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	if password != "correct-horse" {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: "A", RefreshToken: "R", UserID: "u-1"}, nil
}

func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return nil, common.ErrRefreshTokenExpired
}

type fakeDecks struct {
	mu       sync.Mutex
	userID   string
	patch    models.DeckPatch
	replaced []models.Flashcard
}

func (f *fakeDecks) seen(userID string) {
	f.mu.Lock()
	f.userID = userID
	f.mu.Unlock()
}

func (f *fakeDecks) CreateDeck(ctx context.Context, userID string, deck models.Deck) (*models.Deck, error) {
	f.seen(userID)
	deck.ID, deck.CreatorID, deck.CreatedAt = "d-1", userID, created
	return &deck, nil
}

func (f *fakeDecks) GetDeck(ctx context.Context, userID, id string) (*models.Deck, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeDecks) ListDecks(ctx context.Context, userID, creatorID string) ([]*models.Deck, error) {
	if creatorID != userID {
		return nil, nil
	}
	return []*models.Deck{{ID: "d-1", Name: "Cells", CreatorID: userID}, {ID: "d-2", Name: "Atoms", CreatorID: userID}}, nil
}

func (f *fakeDecks) UpdateDeck(ctx context.Context, userID, id string, patch models.DeckPatch) (*models.Deck, error) {
	f.patch = patch
	return &models.Deck{ID: id, Name: *patch.Name, CreatorID: userID}, nil
}

func (f *fakeDecks) DeleteDeck(ctx context.Context, userID, id string) error { return nil }

func (f *fakeDecks) CreateFlashcard(ctx context.Context, userID string, card models.Flashcard) (*models.Flashcard, error) {
	card.ID = "c-1"
	return &card, nil
}

func (f *fakeDecks) CreateFlashcards(ctx context.Context, userID string, cards []models.Flashcard) ([]*models.Flashcard, error) {
	return nil, errBoom
}

func (f *fakeDecks) ListFlashcards(ctx context.Context, userID, deckID string) ([]*models.Flashcard, error) {
	return []*models.Flashcard{}, nil
}

func (f *fakeDecks) UpdateFlashcard(ctx context.Context, userID, id string, question, answer *string) (*models.Flashcard, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeDecks) DeleteFlashcard(ctx context.Context, userID, id string) error          { return nil }
func (f *fakeDecks) DeleteDeckFlashcards(ctx context.Context, userID, deckID string) error { return nil }

func (f *fakeDecks) ReplaceFlashcards(ctx context.Context, userID, deckID string, cards []models.Flashcard) ([]*models.Flashcard, error) {
	f.replaced = cards
	out := make([]*models.Flashcard, 0, len(cards))
	for i, c := range cards {
		c.DeckID = deckID
		c.Position = i
		out = append(out, &c)
	}
	return out, nil
}

type fakeThreads struct {
	msg models.Message
}

func (f *fakeThreads) CreateThread(ctx context.Context, userID, name string) (*models.MessageThread, bool, error) {
	return &models.MessageThread{ID: 7, Name: name, CreatorID: userID}, false, nil
}

func (f *fakeThreads) ListThreads(ctx context.Context, userID string) ([]*models.MessageThread, error) {
	return []*models.MessageThread{{ID: 7, Name: "t", CreatorID: userID}}, nil
}

func (f *fakeThreads) GetThread(ctx context.Context, userID string, id int64) (*models.MessageThread, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeThreads) DeleteThread(ctx context.Context, userID string, id int64) error { return nil }

func (f *fakeThreads) CreateMessage(ctx context.Context, userID string, msg models.Message) (*models.Message, error) {
	f.msg = msg
	msg.ID = 11
	return &msg, nil
}

func (f *fakeThreads) ListMessages(ctx context.Context, userID string, threadID int64) ([]*models.Message, error) {
	return []*models.Message{{ID: 1, ThreadID: threadID, Role: "user", Content: "hi", ClientToken: "tok-1"}}, nil
}

func (f *fakeThreads) DeleteMessage(ctx context.Context, userID string, id int64) error {
	return context.DeadlineExceeded
}

type fakeSources struct{}

func (fakeSources) CreateUpload(ctx context.Context, userID, deckID, fileName, contentType string) (string, string, error) {
	return "sources/" + userID + "/" + deckID + "/" + fileName, "https://s3.local/put", nil
}

var errBoom = errors.New("boom")

type harness struct {
	client  deckrpc.RemoteStoreClient
	health  healthpb.HealthClient
	users   *fakeUsers
	decks   *fakeDecks
	threads *fakeThreads
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{users: &fakeUsers{}, decks: &fakeDecks{}, threads: &fakeThreads{}}
	s := NewGRPCServer("bufnet", nopLogger{}, testSecret, h.users, h.decks, h.threads, fakeSources{})

	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	h.client = deckrpc.NewRemoteStoreClient(conn)
	h.health = healthpb.NewHealthClient(conn)
	return h
}

func authed(t *testing.T, userID string) context.Context {
	t.Helper()
	tok, err := auth.IssueAccessToken(userID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), err.Error())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:0", nopLogger{}, testSecret, nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:99999", nopLogger{}, testSecret, nil, nil, nil, nil)
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestHealth_ReportsServing(t *testing.T) {
	h := newHarness(t)
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: deckrpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestAccounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.client.Register(ctx, &deckrpc.RegisterRequest{Username: "alice", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", reg.UserID)
	assert.Equal(t, "alice", h.users.registered)

	_, err = h.client.Register(ctx, &deckrpc.RegisterRequest{Username: "taken", Password: "long-enough"})
	requireCode(t, err, codes.AlreadyExists)

	_, err = h.client.Register(ctx, &deckrpc.RegisterRequest{Username: "al", Password: "short"})
	requireCode(t, err, codes.InvalidArgument)

	login, err := h.client.Login(ctx, &deckrpc.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "A", login.AccessToken)
	assert.Equal(t, "u-1", login.UserID)

	_, err = h.client.Login(ctx, &deckrpc.LoginRequest{Username: "alice", Password: "wrong"})
	requireCode(t, err, codes.Unauthenticated)

	_, err = h.client.RefreshToken(ctx, &deckrpc.RefreshTokenRequest{RefreshToken: "R"})
	requireCode(t, err, codes.Unauthenticated)
	assert.Equal(t, common.ErrRefreshTokenExpired.Error(), status.Convert(err).Message())
}

func TestDecks_RequireToken(t *testing.T) {
	h := newHarness(t)
	_, err := h.client.ListDecks(context.Background(), &deckrpc.ListDecksRequest{})
	requireCode(t, err, codes.Unauthenticated)
}

func TestDecks_RoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1")

	d, err := h.client.CreateDeck(ctx, &deckrpc.CreateDeckRequest{Name: "Cells", Subject: "bio"})
	require.NoError(t, err)
	assert.Equal(t, deckrpc.Deck{ID: "d-1", CreatedAt: created, Name: "Cells", CreatorID: "u-1", Subject: "bio"}, d.Deck)
	assert.Equal(t, "u-1", h.decks.userID)

	_, err = h.client.CreateDeck(ctx, &deckrpc.CreateDeckRequest{})
	requireCode(t, err, codes.InvalidArgument)

	list, err := h.client.ListDecks(ctx, &deckrpc.ListDecksRequest{})
	require.NoError(t, err)
	require.Len(t, list.Decks, 2)
	assert.Equal(t, "Atoms", list.Decks[1].Name)

	other, err := h.client.ListDecks(ctx, &deckrpc.ListDecksRequest{CreatorID: "u-2"})
	require.NoError(t, err)
	assert.Empty(t, other.Decks)

	_, err = h.client.GetDeck(ctx, &deckrpc.GetDeckRequest{ID: "missing"})
	requireCode(t, err, codes.NotFound)

	name := "Renamed"
	upd, err := h.client.UpdateDeck(ctx, &deckrpc.UpdateDeckRequest{ID: "d-1", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", upd.Deck.Name)
	assert.Nil(t, h.decks.patch.Subject)

	_, err = h.client.DeleteDeck(ctx, &deckrpc.DeleteDeckRequest{ID: "d-1"})
	require.NoError(t, err)
}

func TestFlashcards_RoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1")

	c, err := h.client.CreateFlashcard(ctx, &deckrpc.CreateFlashcardRequest{
		Flashcard: deckrpc.FlashcardInput{Question: "Q", Answer: "A", DeckID: "d-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.Flashcard.ID)

	_, err = h.client.CreateFlashcard(ctx, &deckrpc.CreateFlashcardRequest{Flashcard: deckrpc.FlashcardInput{DeckID: "d-1"}})
	requireCode(t, err, codes.InvalidArgument)

	replaced, err := h.client.ReplaceFlashcards(ctx, &deckrpc.ReplaceFlashcardsRequest{
		DeckID:     "d-1",
		Flashcards: []deckrpc.CardContent{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}},
	})
	require.NoError(t, err)
	require.Len(t, replaced.Flashcards, 2)
	assert.Equal(t, "d-1", replaced.Flashcards[1].DeckID)
	assert.Equal(t, "Q2", h.decks.replaced[1].Question)

	_, err = h.client.ReplaceFlashcards(ctx, &deckrpc.ReplaceFlashcardsRequest{
		DeckID:     "d-1",
		Flashcards: []deckrpc.CardContent{{Question: "Q1"}},
	})
	requireCode(t, err, codes.InvalidArgument)

	list, err := h.client.ListFlashcards(ctx, &deckrpc.ListFlashcardsRequest{DeckID: "d-1"})
	require.NoError(t, err)
	assert.Empty(t, list.Flashcards)

	_, err = h.client.UpdateFlashcard(ctx, &deckrpc.UpdateFlashcardRequest{ID: "c-9"})
	requireCode(t, err, codes.NotFound)

	_, err = h.client.CreateFlashcards(ctx, &deckrpc.CreateFlashcardsRequest{
		Flashcards: []deckrpc.FlashcardInput{{Question: "Q", Answer: "A", DeckID: "d-1"}},
	})
	requireCode(t, err, codes.Internal)
	assert.Equal(t, "internal error", status.Convert(err).Message())

	_, err = h.client.DeleteFlashcard(ctx, &deckrpc.DeleteFlashcardRequest{ID: "c-1"})
	require.NoError(t, err)
	_, err = h.client.DeleteDeckFlashcards(ctx, &deckrpc.DeleteDeckFlashcardsRequest{DeckID: "d-1"})
	require.NoError(t, err)
}

func TestThreads_RoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1")

	th, err := h.client.CreateThread(ctx, &deckrpc.CreateThreadRequest{Name: "Teaching Session - Cells"})
	require.NoError(t, err)
	assert.False(t, th.Created)
	assert.Equal(t, int64(7), th.Thread.ID)
	assert.Equal(t, "u-1", th.Thread.CreatorID)

	threads, err := h.client.ListThreads(ctx, &deckrpc.ListThreadsRequest{})
	require.NoError(t, err)
	require.Len(t, threads.Threads, 1)

	_, err = h.client.GetThread(ctx, &deckrpc.GetThreadRequest{ID: 99})
	requireCode(t, err, codes.NotFound)

	_, err = h.client.GetThread(ctx, &deckrpc.GetThreadRequest{})
	requireCode(t, err, codes.InvalidArgument)

	m, err := h.client.CreateMessage(ctx, &deckrpc.CreateMessageRequest{
		ThreadID: 7, Content: "hello", Role: "user", CreatedAt: created, ClientToken: "tok-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), m.Message.ID)
	assert.True(t, created.Equal(h.threads.msg.CreatedAt))
	assert.Equal(t, "tok-1", h.threads.msg.ClientToken)

	_, err = h.client.CreateMessage(ctx, &deckrpc.CreateMessageRequest{ThreadID: 7, Content: "x", Role: "system"})
	requireCode(t, err, codes.InvalidArgument)

	msgs, err := h.client.ListMessages(ctx, &deckrpc.ListMessagesRequest{ThreadID: 7})
	require.NoError(t, err)
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, "tok-1", msgs.Messages[0].ClientToken)

	_, err = h.client.DeleteThread(ctx, &deckrpc.DeleteThreadRequest{ID: 7})
	require.NoError(t, err)

	_, err = h.client.DeleteMessage(ctx, &deckrpc.DeleteMessageRequest{ID: 1})
	requireCode(t, err, codes.DeadlineExceeded)
}

func TestCreateSourceUpload(t *testing.T) {
	h := newHarness(t)
	ctx := authed(t, "u-1")

	resp, err := h.client.CreateSourceUpload(ctx, &deckrpc.CreateSourceUploadRequest{DeckID: "d-1", FileName: "notes.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "sources/u-1/d-1/notes.pdf", resp.Key)
	assert.Equal(t, "https://s3.local/put", resp.URL)

	_, err = h.client.CreateSourceUpload(ctx, &deckrpc.CreateSourceUploadRequest{DeckID: "d-1"})
	requireCode(t, err, codes.InvalidArgument)
}
