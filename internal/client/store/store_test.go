package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/localdb"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	mu      sync.Mutex
	initial *Snapshot
	loadErr error
	saved   []Snapshot
}

func (m *memPersister) Load(ctx context.Context) (Snapshot, bool, error) {
	if m.loadErr != nil {
		return Snapshot{}, false, m.loadErr
	}
	if m.initial == nil {
		return Snapshot{}, false, nil
	}
	return *m.initial, true, nil
}

func (m *memPersister) Save(ctx context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return nil
}

func (m *memPersister) last() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return Snapshot{}, false
	}
	return m.saved[len(m.saved)-1], true
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T, p Persister) *Store {
	t.Helper()
	s := New(context.Background(), p, logging.Discard(), WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func cards(n int) []models.Flashcard {
	out := make([]models.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Flashcard{
			ID:       models.NewPendingID(),
			Question: "q" + string(rune('a'+i)),
			Answer:   "a" + string(rune('a'+i)),
		})
	}
	return out
}

func deck(id models.ID, title string, n int) models.Deck {
	return models.Deck{ID: id, Title: title, Subject: title, CreatedAt: fixedNow, Flashcards: cards(n)}
}

func TestAddDeck_SeedsFlashcardCache(t *testing.T) {
	s := newStore(t, &memPersister{})
	d := deck(models.CommittedID("d-1"), "Bio Basics", 3)

	s.AddDeck(d)

	got := s.DeckFlashcards(d.ID)
	require.Len(t, got, len(d.Flashcards))
	for i := range got {
		assert.Equal(t, d.Flashcards[i].Question, got[i].Question)
		assert.Equal(t, d.Flashcards[i].Answer, got[i].Answer)
	}
}

func TestAddDeck_SeedsWelcomeOnlyOnce(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("d-1")

	s.AddDeck(deck(id, "Bio", 0))
	msgs := s.DeckMessages(id)
	require.Len(t, msgs, 1)
	assert.Equal(t, `You're now editing "Bio". What would you like to modify or add to this deck?`, msgs[0].Content)
	assert.Equal(t, models.SenderAI, msgs[0].Sender)

	s.SetDeckMessages(id, []models.Message{models.NewMessage(models.SenderUser, "mine", fixedNow)})
	s.RemoveDeck(id)
	s.AddMessageToDeck(id, models.NewMessage(models.SenderUser, "kept", fixedNow))
	s.AddDeck(deck(id, "Bio", 0))

	msgs = s.DeckMessages(id)
	require.Len(t, msgs, 1)
	assert.Equal(t, "kept", msgs[0].Content)
}

func TestAbsentDeck_EmptyDefaults(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("nope")

	fc := s.DeckFlashcards(id)
	require.NotNil(t, fc)
	assert.Empty(t, fc)

	msgs := s.DeckMessages(id)
	require.NotNil(t, msgs)
	assert.Empty(t, msgs)

	_, ok := s.GetDeck(id)
	assert.False(t, ok)
}

func TestUpdateDeck_MergesAndOverwritesCache(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("d-1")
	s.AddDeck(deck(id, "Bio", 3))

	title := "Biology"
	ok := s.UpdateDeck(id, models.DeckPatch{Title: &title, Flashcards: cards(4)})
	require.True(t, ok)

	d, found := s.GetDeck(id)
	require.True(t, found)
	assert.Equal(t, "Biology", d.Title)
	assert.Equal(t, "Bio", d.Subject)
	assert.Len(t, d.Flashcards, 4)
	assert.Len(t, s.DeckFlashcards(id), 4)

	assert.False(t, s.UpdateDeck(models.CommittedID("other"), models.DeckPatch{Title: &title}))
}

func TestUpdateDeck_WithoutCardsKeepsCache(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("d-1")
	s.AddDeck(deck(id, "Bio", 2))
	s.SetDeckFlashcards(id, cards(5))

	desc := "new"
	s.UpdateDeck(id, models.DeckPatch{Description: &desc})

	assert.Len(t, s.DeckFlashcards(id), 5)
}

func TestRemoveDeck_ClearsCachesAndActive(t *testing.T) {
	s := newStore(t, &memPersister{})
	a, b := models.CommittedID("a"), models.CommittedID("b")
	s.AddDeck(deck(a, "A", 1))
	s.AddDeck(deck(b, "B", 1))
	s.SetActiveDeckID(a)

	s.RemoveDeck(a)

	_, ok := s.ActiveDeckID()
	assert.False(t, ok)
	assert.Empty(t, s.DeckFlashcards(a))
	assert.Empty(t, s.DeckMessages(a))
	require.Len(t, s.Decks(), 1)

	s.SetActiveDeckID(b)
	s.RemoveDeck(a)
	active, ok := s.ActiveDeckID()
	require.True(t, ok)
	assert.Equal(t, b, active)
}

func TestCardActions(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("d-1")
	s.AddDeck(deck(id, "Bio", 0))

	card := models.Flashcard{ID: models.PendingID("c1"), Question: "q", Answer: "a"}
	s.AddCardToDeck(id, card)

	q := "q2"
	s.UpdateCardInDeck(id, card.ID, CardPatch{Question: &q})
	d, _ := s.GetDeck(id)
	require.Len(t, d.Flashcards, 1)
	assert.Equal(t, "q2", d.Flashcards[0].Question)
	assert.Equal(t, "q2", s.DeckFlashcards(id)[0].Question)

	s.RemoveCardFromDeck(id, card.ID)
	d, _ = s.GetDeck(id)
	assert.Empty(t, d.Flashcards)
	assert.Empty(t, s.DeckFlashcards(id))
}

func TestActiveDeckHelpers(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("d-1")

	assert.Empty(t, s.FlashcardsFromActiveDeck())
	_, ok := s.ActiveDeck()
	assert.False(t, ok)

	d := deck(id, "Bio", 2)
	s.AddDeck(d)
	s.SetActiveDeckID(id)
	s.SetDeckFlashcards(id, nil)

	got, ok := s.ActiveDeck()
	require.True(t, ok)
	assert.Equal(t, "Bio", got.Title)
	assert.Len(t, s.FlashcardsFromActiveDeck(), 2)

	s.SetDeckFlashcards(id, cards(3))
	assert.Len(t, s.FlashcardsFromActiveDeck(), 3)
}

func TestTeachingDeck_PrefersCacheAndNotifies(t *testing.T) {
	s := newStore(t, &memPersister{})
	changes, cancel := s.Subscribe()
	defer cancel()

	id := models.CommittedID("d-1")
	d := deck(id, "Bio", 2)
	s.AddDeck(d)
	require.Equal(t, DeckAdded, (<-changes).Kind)

	s.SetActiveTeachingDeck(&d)
	c := <-changes
	assert.Equal(t, TeachingDeckChanged, c.Kind)
	assert.Equal(t, id, c.DeckID)

	assert.Len(t, s.ActiveTeachingFlashcards(), 2)
	s.SetDeckFlashcards(id, cards(5))
	assert.Len(t, s.ActiveTeachingFlashcards(), 5)
	s.SetDeckFlashcards(id, []models.Flashcard{})
	assert.Len(t, s.ActiveTeachingFlashcards(), 2)

	s.ClearActiveTeachingDeck()
	_, ok := s.ActiveTeachingDeck()
	assert.False(t, ok)
	assert.Empty(t, s.ActiveTeachingFlashcards())
}

func TestCommitDeckID_MigratesEverything(t *testing.T) {
	s := newStore(t, &memPersister{})
	pending := models.NewPendingID()
	d := deck(pending, "Bio", 2)
	s.AddDeck(d)
	s.AddMessageToDeck(pending, models.NewMessage(models.SenderUser, "hi", fixedNow))
	s.SetActiveDeckID(pending)
	s.SetActiveTeachingDeck(&d)

	require.NoError(t, s.CommitDeckID(pending, "srv-1"))

	committed := models.CommittedID("srv-1")
	_, ok := s.GetDeck(pending)
	assert.False(t, ok)
	got, ok := s.GetDeck(committed)
	require.True(t, ok)
	for _, f := range got.Flashcards {
		assert.Equal(t, "srv-1", f.DeckID)
	}

	assert.Empty(t, s.DeckFlashcards(pending))
	require.Len(t, s.DeckFlashcards(committed), 2)
	assert.Equal(t, "srv-1", s.DeckFlashcards(committed)[0].DeckID)
	assert.Empty(t, s.DeckMessages(pending))
	assert.Len(t, s.DeckMessages(committed), 2)

	active, _ := s.ActiveDeckID()
	assert.Equal(t, committed, active)
	teaching, _ := s.ActiveTeachingDeck()
	assert.Equal(t, committed, teaching.ID)
	assert.Empty(t, s.PendingDecks())
}

func TestCommitDeckID_UnknownDeck(t *testing.T) {
	s := newStore(t, &memPersister{})
	err := s.CommitDeckID(models.PendingID("missing"), "srv-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	s.AddDeck(deck(models.CommittedID("c"), "C", 0))
	err = s.CommitDeckID(models.CommittedID("c"), "srv-2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMergeRemoteDecks(t *testing.T) {
	s := newStore(t, &memPersister{})
	known := models.CommittedID("d-1")
	pending := models.NewPendingID()
	s.AddDeck(deck(known, "Old", 2))
	s.AddDeck(deck(pending, "Local", 1))
	s.AddMessageToDeck(known, models.NewMessage(models.SenderUser, "hi", fixedNow))

	added := s.MergeRemoteDecks([]models.RemoteDeck{
		{ID: "d-1", Name: "Renamed", Description: "desc", CreatedAt: fixedNow},
		{ID: "d-2", Name: "New", Subject: "chem", CreatedAt: fixedNow},
	})

	assert.Equal(t, []models.ID{models.CommittedID("d-2")}, added)

	d, _ := s.GetDeck(known)
	assert.Equal(t, "Renamed", d.Title)
	assert.Equal(t, "Renamed", d.Subject)
	assert.Len(t, s.DeckFlashcards(known), 2)
	assert.Len(t, s.DeckMessages(known), 2)

	_, ok := s.GetDeck(pending)
	assert.True(t, ok)
	require.Len(t, s.PendingDecks(), 1)

	n, ok := s.GetDeck(models.CommittedID("d-2"))
	require.True(t, ok)
	assert.Equal(t, "chem", n.Subject)
	assert.Empty(t, s.DeckFlashcards(n.ID))
}

func countDecks(s *Store, id models.ID) int {
	n := 0
	for _, d := range s.Decks() {
		if d.ID == id {
			n++
		}
	}
	return n
}

func TestAddDeck_AfterRefreshListedIt(t *testing.T) {
	s := newStore(t, &memPersister{})
	id := models.CommittedID("srv-1")
	s.MergeRemoteDecks([]models.RemoteDeck{{ID: "srv-1", Name: "Cells", CreatedAt: fixedNow}})

	s.AddDeck(deck(id, "Cells", 3))

	assert.Equal(t, 1, countDecks(s, id))
	assert.Len(t, s.DeckFlashcards(id), 3)
	assert.Len(t, s.DeckMessages(id), 1)
	got, _ := s.GetDeck(id)
	assert.Len(t, got.Flashcards, 3)
}

func TestCommitDeckID_AfterRefreshListedIt(t *testing.T) {
	s := newStore(t, &memPersister{})
	pending := models.NewPendingID()
	s.AddDeck(deck(pending, "Offline", 2))
	s.AddMessageToDeck(pending, models.NewMessage(models.SenderUser, "hi", fixedNow))
	s.SetActiveDeckID(pending)
	s.MergeRemoteDecks([]models.RemoteDeck{{ID: "srv-2", Name: "Offline", CreatedAt: fixedNow}})

	require.NoError(t, s.CommitDeckID(pending, "srv-2"))

	committed := models.CommittedID("srv-2")
	assert.Equal(t, 1, countDecks(s, committed))
	assert.Len(t, s.Decks(), 1)
	assert.Len(t, s.DeckFlashcards(committed), 2)
	assert.Len(t, s.DeckMessages(committed), 2)
	active, _ := s.ActiveDeckID()
	assert.Equal(t, committed, active)
	assert.Empty(t, s.PendingDecks())
}

func TestPersistence_SavesInBackgroundWithoutLoading(t *testing.T) {
	p := &memPersister{}
	s := newStore(t, p)
	id := models.CommittedID("d-1")

	s.AddDeck(deck(id, "Bio", 1))
	s.AddMessageToDeck(id, models.NewLoadingMessage("Updating flashcards...", fixedNow))

	require.Eventually(t, func() bool {
		snap, ok := p.last()
		return ok && len(snap.Decks) == 1 && len(snap.DeckMessages[id.Key()]) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Len(t, s.DeckMessages(id), 2)
}

func TestClose_WritesFinalState(t *testing.T) {
	p := &memPersister{}
	s := New(context.Background(), p, logging.Discard())
	s.SetActiveDeckID(models.CommittedID("x"))

	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()))

	snap, ok := p.last()
	require.True(t, ok)
	require.NotNil(t, snap.ActiveDeckID)
	assert.Equal(t, models.CommittedID("x"), *snap.ActiveDeckID)
}

func TestNew_LoadErrorStartsEmpty(t *testing.T) {
	s := newStore(t, &memPersister{loadErr: errors.New("disk")})
	assert.Empty(t, s.Decks())
}

func TestReload_FromMetadataRepository(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	require.NoError(t, localdb.RunMigrations(ctx, db))
	p := NewMetadataPersister(metadata.NewSQLiteRepository(db))

	first := New(ctx, p, logging.Discard())
	pending := models.PendingID("tok")
	d := deck(pending, "Bio", 2)
	first.AddDeck(d)
	first.SetActiveDeckID(pending)
	first.SetActiveTeachingDeck(&d)
	first.AddMessageToDeck(pending, models.NewLoadingMessage("x", fixedNow))
	require.NoError(t, first.Close(ctx))

	second := New(ctx, p, logging.Discard())
	defer second.Close(ctx)

	got, ok := second.GetDeck(pending)
	require.True(t, ok)
	assert.True(t, got.ID.IsPending())
	assert.Len(t, second.DeckFlashcards(pending), 2)
	assert.Len(t, second.DeckMessages(pending), 1)
	active, ok := second.ActiveDeckID()
	require.True(t, ok)
	assert.Equal(t, pending, active)
	teaching, ok := second.ActiveTeachingDeck()
	require.True(t, ok)
	assert.Equal(t, "Bio", teaching.Title)
}
