package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/decks"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/flashcards"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/messages"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/threads"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memStore backs every fake repository. Tests poke the err fields to make a
// specific call fail.
type memStore struct {
	mu sync.Mutex
	n  int

	users    map[string]*models.User
	tokens   map[string]*models.RefreshToken
	decks    map[string]*models.Deck
	cards    map[string]*models.Flashcard
	threads  map[int64]*models.MessageThread
	messages map[int64]*models.Message

	createUserErr   error
	consumeTokenErr error
	createTokenErr  error
	createCardErr   error
	setSourceErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		tokens:   map[string]*models.RefreshToken{},
		decks:    map[string]*models.Deck{},
		cards:    map[string]*models.Flashcard{},
		threads:  map[int64]*models.MessageThread{},
		messages: map[int64]*models.Message{},
	}
}

func (m *memStore) next() int {
	m.n++
	return m.n
}

type fakeRepoManager struct{ s *memStore }

func (f fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (f fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return fakeUsers(f) }
func (f fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return fakeTokens(f) }
func (f fakeRepoManager) Decks(dbx.DBTX) decks.Repository                 { return fakeDecks(f) }
func (f fakeRepoManager) Flashcards(dbx.DBTX) flashcards.Repository       { return fakeCards(f) }
func (f fakeRepoManager) Threads(dbx.DBTX) threads.Repository             { return fakeThreads(f) }
func (f fakeRepoManager) Messages(dbx.DBTX) messages.Repository           { return fakeMessages(f) }

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createUserErr != nil {
		return nil, f.s.createUserErr
	}
	for _, existing := range f.s.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = fmt.Sprintf("u-%d", f.s.next())
	f.s.users[c.ID] = &c
	return &c, nil
}

func (f fakeUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.UserName == username {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeTokens struct{ s *memStore }

func (f fakeTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createTokenErr != nil {
		return f.s.createTokenErr
	}
	c := *t
	f.s.tokens[t.Token] = &c
	return nil
}

func (f fakeTokens) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.consumeTokenErr != nil {
		return nil, f.s.consumeTokenErr
	}
	t, ok := f.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.s.tokens, token)
	return t, nil
}

// issue stores a token for userID that expires ttl from now.
func (f fakeTokens) issue(t *testing.T, userID, token string, ttl time.Duration) {
	t.Helper()
	require.NoError(t, f.Create(context.Background(), &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(ttl)}))
}

func (f fakeTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for k, t := range f.s.tokens {
		if t.Expires.Before(now) {
			delete(f.s.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeDecks struct{ s *memStore }

func (f fakeDecks) Create(ctx context.Context, d *models.Deck) (*models.Deck, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c := *d
	n := f.s.next()
	c.ID = fmt.Sprintf("d-%d", n)
	c.CreatedAt = time.Unix(int64(n), 0)
	f.s.decks[c.ID] = &c
	out := c
	return &out, nil
}

func (f fakeDecks) owned(id, creatorID string) (*models.Deck, error) {
	d, ok := f.s.decks[id]
	if !ok || d.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (f fakeDecks) Get(ctx context.Context, id, creatorID string) (*models.Deck, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	d, err := f.owned(id, creatorID)
	if err != nil {
		return nil, err
	}
	c := *d
	return &c, nil
}

func (f fakeDecks) ListByCreator(ctx context.Context, creatorID string) ([]*models.Deck, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Deck
	for _, d := range f.s.decks {
		if d.CreatorID == creatorID {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeDecks) Update(ctx context.Context, id, creatorID string, p models.DeckPatch) (*models.Deck, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	d, err := f.owned(id, creatorID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Subject != nil {
		d.Subject = *p.Subject
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	c := *d
	return &c, nil
}

func (f fakeDecks) SetSourceKey(ctx context.Context, id, creatorID, key string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.setSourceErr != nil {
		return f.s.setSourceErr
	}
	d, err := f.owned(id, creatorID)
	if err != nil {
		return err
	}
	d.SourceKey = key
	return nil
}

func (f fakeDecks) Delete(ctx context.Context, id, creatorID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, err := f.owned(id, creatorID); err != nil {
		return err
	}
	delete(f.s.decks, id)
	for k, c := range f.s.cards {
		if c.DeckID == id {
			delete(f.s.cards, k)
		}
	}
	return nil
}

type fakeCards struct{ s *memStore }

func (f fakeCards) Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createCardErr != nil {
		return nil, f.s.createCardErr
	}
	if _, ok := f.s.decks[card.DeckID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *card
	n := f.s.next()
	c.ID = fmt.Sprintf("c-%d", n)
	c.Position = n
	f.s.cards[c.ID] = &c
	out := c
	return &out, nil
}

func (f fakeCards) ListByDeck(ctx context.Context, deckID string) ([]*models.Flashcard, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Flashcard
	for _, c := range f.s.cards {
		if c.DeckID == deckID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f fakeCards) owned(id, creatorID string) (*models.Flashcard, error) {
	c, ok := f.s.cards[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if d, ok := f.s.decks[c.DeckID]; !ok || d.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f fakeCards) Update(ctx context.Context, id, creatorID string, q, a *string) (*models.Flashcard, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, err := f.owned(id, creatorID)
	if err != nil {
		return nil, err
	}
	if q != nil {
		c.Question = *q
	}
	if a != nil {
		c.Answer = *a
	}
	cp := *c
	return &cp, nil
}

func (f fakeCards) Delete(ctx context.Context, id, creatorID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, err := f.owned(id, creatorID); err != nil {
		return err
	}
	delete(f.s.cards, id)
	return nil
}

func (f fakeCards) DeleteByDeck(ctx context.Context, deckID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for k, c := range f.s.cards {
		if c.DeckID == deckID {
			delete(f.s.cards, k)
		}
	}
	return nil
}

type fakeThreads struct{ s *memStore }

func (f fakeThreads) Upsert(ctx context.Context, creatorID, name string) (*models.MessageThread, bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, t := range f.s.threads {
		if t.CreatorID == creatorID && t.Name == name {
			c := *t
			return &c, false, nil
		}
	}
	t := &models.MessageThread{ID: int64(f.s.next()), Name: name, CreatorID: creatorID}
	f.s.threads[t.ID] = t
	c := *t
	return &c, true, nil
}

func (f fakeThreads) Get(ctx context.Context, id int64, creatorID string) (*models.MessageThread, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.threads[id]
	if !ok || t.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (f fakeThreads) ListByCreator(ctx context.Context, creatorID string) ([]*models.MessageThread, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.MessageThread
	for _, t := range f.s.threads {
		if t.CreatorID == creatorID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeThreads) Delete(ctx context.Context, id int64, creatorID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.threads[id]
	if !ok || t.CreatorID != creatorID {
		return common.ErrorNotFound
	}
	delete(f.s.threads, id)
	return nil
}

type fakeMessages struct{ s *memStore }

func (f fakeMessages) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if msg.ClientToken != "" {
		for _, m := range f.s.messages {
			if m.ThreadID == msg.ThreadID && m.ClientToken == msg.ClientToken {
				c := *m
				return &c, nil
			}
		}
	}
	c := *msg
	c.ID = int64(f.s.next())
	f.s.messages[c.ID] = &c
	out := c
	return &out, nil
}

func (f fakeMessages) ListByThread(ctx context.Context, threadID int64) ([]*models.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Message
	for _, m := range f.s.messages {
		if m.ThreadID == threadID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeMessages) Delete(ctx context.Context, id int64, creatorID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	m, ok := f.s.messages[id]
	if !ok {
		return common.ErrorNotFound
	}
	if t, ok := f.s.threads[m.ThreadID]; !ok || t.CreatorID != creatorID {
		return common.ErrorNotFound
	}
	delete(f.s.messages, id)
	return nil
}

// newSQLMockDB returns a database for dbx.WithTx. Every test that opens a
// transaction declares its Begin and Commit or Rollback.
func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
