// Package store is the client's single source of truth for decks, their
// working flashcard sets, their chat transcripts, and the active and teaching
// deck selections.
//
// Every action runs to completion under one lock, so readers never observe a
// half-applied change. After each action the resulting state is handed to a
// background worker that saves it through a Persister; callers never wait
// for durable storage. The store is created with New and disposed with
// Close, which writes the final state.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

const saveTimeout = 5 * time.Second

// EditorWelcome is the first transcript entry of a deck's edit chat.
func EditorWelcome(title string) string {
	return fmt.Sprintf("You're now editing %q. What would you like to modify or add to this deck?", title)
}

type Store struct {
	log       logging.Logger
	persister Persister
	now       func() time.Time

	mu             sync.RWMutex
	decks          []models.Deck
	deckFlashcards map[string][]models.Flashcard
	deckMessages   map[string][]models.Message
	activeDeckID   models.ID
	activeTeaching *models.Deck

	subMu sync.Mutex
	subs  map[int]chan Change
	subID int

	saves     chan Snapshot
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type Option func(*Store)

// WithClock replaces time.Now for welcome-message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New loads the persisted state, if any, and starts the persistence worker.
// A corrupt or unreadable state is logged and replaced by an empty one.
func New(ctx context.Context, persister Persister, log logging.Logger, opts ...Option) *Store {
	s := &Store{
		log:            log.With("module", "store"),
		persister:      persister,
		now:            time.Now,
		deckFlashcards: map[string][]models.Flashcard{},
		deckMessages:   map[string][]models.Message{},
		subs:           map[int]chan Change{},
		saves:          make(chan Snapshot, 1),
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	snap, found, err := persister.Load(ctx)
	switch {
	case err != nil:
		s.log.Error(ctx, "failed to load persisted state, starting empty", "error", err)
	case found:
		s.restore(snap)
		s.log.Info(ctx, "state restored", "decks", len(s.decks))
	}

	go s.run()
	return s
}

func (s *Store) restore(snap Snapshot) {
	for _, d := range snap.Decks {
		if d.Flashcards == nil {
			d.Flashcards = []models.Flashcard{}
		}
		s.decks = append(s.decks, d)
	}
	for k, v := range snap.DeckFlashcards {
		s.deckFlashcards[k] = models.CloneFlashcards(v)
	}
	for k, v := range snap.DeckMessages {
		s.deckMessages[k] = models.WithoutLoading(v)
	}
	if snap.ActiveDeckID != nil {
		s.activeDeckID = *snap.ActiveDeckID
	}
	if snap.ActiveTeachingDeck != nil {
		d := snap.ActiveTeachingDeck.Clone()
		s.activeTeaching = &d
	}
}

func (s *Store) run() {
	defer close(s.stopped)
	for {
		select {
		case snap := <-s.saves:
			s.save(snap)
		case <-s.done:
			return
		}
	}
}

func (s *Store) save(snap Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.persister.Save(ctx, snap); err != nil {
		s.log.Error(ctx, "failed to persist state", "error", err)
	}
}

// Close stops the persistence worker and writes the final state.
func (s *Store) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		select {
		case <-s.stopped:
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
		if perr := s.persister.Save(ctx, s.Snapshot()); perr != nil {
			err = fmt.Errorf("persist final state: %w", perr)
		}

		s.subMu.Lock()
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
		s.subMu.Unlock()
	})
	return err
}

// commit must be called with s.mu held for writing. It queues the current
// state for saving, replacing any snapshot the worker has not picked up yet,
// and notifies subscribers.
func (s *Store) commit(c Change) {
	snap := s.snapshotLocked()
	select {
	case <-s.saves:
	default:
	}
	s.saves <- snap
	s.notify(c)
}

// Snapshot returns a deep copy of the current state with loading
// placeholders removed.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Decks:          make([]models.Deck, 0, len(s.decks)),
		DeckFlashcards: make(map[string][]models.Flashcard, len(s.deckFlashcards)),
		DeckMessages:   make(map[string][]models.Message, len(s.deckMessages)),
	}
	for _, d := range s.decks {
		snap.Decks = append(snap.Decks, d.Clone())
	}
	for k, v := range s.deckFlashcards {
		snap.DeckFlashcards[k] = models.CloneFlashcards(v)
	}
	for k, v := range s.deckMessages {
		snap.DeckMessages[k] = models.WithoutLoading(v)
	}
	if !s.activeDeckID.IsZero() {
		id := s.activeDeckID
		snap.ActiveDeckID = &id
	}
	if s.activeTeaching != nil {
		d := s.activeTeaching.Clone()
		snap.ActiveTeachingDeck = &d
	}
	return snap
}

func (s *Store) indexLocked(id models.ID) int {
	for i, d := range s.decks {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Decks.

// Decks returns copies of all decks in insertion order.
func (s *Store) Decks() []models.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Deck, 0, len(s.decks))
	for _, d := range s.decks {
		out = append(out, d.Clone())
	}
	return out
}

// SetDecks replaces the deck list. Caches are left as they are.
func (s *Store) SetDecks(decks []models.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks = make([]models.Deck, 0, len(decks))
	for _, d := range decks {
		s.decks = append(s.decks, d.Clone())
	}
	s.commit(Change{Kind: DecksReplaced})
}

// AddDeck appends deck, seeds its flashcard cache from deck.Flashcards and,
// unless a transcript already exists, seeds the edit-chat welcome message.
// A deck already holding the same id, such as one a concurrent refresh
// listed first, is replaced in place so ids stay unique.
func (s *Store) AddDeck(deck models.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addDeckLocked(deck)
	s.commit(Change{Kind: DeckAdded, DeckID: deck.ID})
}

func (s *Store) addDeckLocked(deck models.Deck) {
	deck = deck.Clone()
	key := deck.ID.Key()
	if i := s.indexLocked(deck.ID); i >= 0 {
		s.decks[i] = deck
		s.syncTeachingLocked(deck)
	} else {
		s.decks = append(s.decks, deck)
	}
	s.deckFlashcards[key] = models.CloneFlashcards(deck.Flashcards)
	if _, ok := s.deckMessages[key]; !ok {
		s.deckMessages[key] = []models.Message{
			models.NewMessage(models.SenderAI, EditorWelcome(deck.Title), s.now()),
		}
	}
}

// UpdateDeck merges patch into the deck. Flashcards in the patch overwrite
// both the deck's copy and the flashcard cache. It reports whether the deck
// exists.
func (s *Store) UpdateDeck(id models.ID, patch models.DeckPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	d := &s.decks[i]
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Subject != nil {
		d.Subject = *patch.Subject
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Flashcards != nil {
		d.Flashcards = models.CloneFlashcards(patch.Flashcards)
		s.deckFlashcards[id.Key()] = models.CloneFlashcards(patch.Flashcards)
	}
	s.syncTeachingLocked(*d)

	s.commit(Change{Kind: DeckUpdated, DeckID: id})
	return true
}

// RemoveDeck drops the deck and its caches, and clears the active deck if it
// pointed at it.
func (s *Store) RemoveDeck(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		s.decks = append(s.decks[:i], s.decks[i+1:]...)
	}
	delete(s.deckFlashcards, id.Key())
	delete(s.deckMessages, id.Key())
	if s.activeDeckID == id {
		s.activeDeckID = models.ID{}
	}
	s.commit(Change{Kind: DeckRemoved, DeckID: id})
}

func (s *Store) GetDeck(id models.ID) (models.Deck, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.decks[i].Clone(), true
	}
	return models.Deck{}, false
}

// CommitDeckID replaces a pending deck id with the server-assigned one. The
// deck, its flashcard cache, its transcript and the active selections move
// to the new id in one action; cards get deck_id set.
func (s *Store) CommitDeckID(pending models.ID, serverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(pending)
	if i < 0 || !pending.IsPending() {
		return fmt.Errorf("pending deck %s: %w", pending, common.ErrorNotFound)
	}
	committed := models.CommittedID(serverID)
	oldKey, newKey := pending.Key(), committed.Key()

	// A refresh may have listed the new server deck before this commit. The
	// pending deck holds the real content, so the listed copy goes.
	if k := s.indexLocked(committed); k >= 0 {
		s.decks = append(s.decks[:k], s.decks[k+1:]...)
		i = s.indexLocked(pending)
	}

	d := &s.decks[i]
	d.ID = committed
	for j := range d.Flashcards {
		d.Flashcards[j].DeckID = serverID
	}

	if cards, ok := s.deckFlashcards[oldKey]; ok {
		for j := range cards {
			cards[j].DeckID = serverID
		}
		s.deckFlashcards[newKey] = cards
		delete(s.deckFlashcards, oldKey)
	}
	if msgs, ok := s.deckMessages[oldKey]; ok {
		s.deckMessages[newKey] = msgs
		delete(s.deckMessages, oldKey)
	}
	if s.activeDeckID == pending {
		s.activeDeckID = committed
	}
	if s.activeTeaching != nil && (s.activeTeaching.ID == pending || s.activeTeaching.ID == committed) {
		t := d.Clone()
		s.activeTeaching = &t
	}

	s.commit(Change{Kind: DeckIDCommitted, DeckID: committed, PreviousID: pending})
	return nil
}

// PendingDecks returns the decks the remote store does not know yet.
func (s *Store) PendingDecks() []models.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Deck
	for _, d := range s.decks {
		if d.ID.IsPending() {
			c := d.Clone()
			c.Flashcards = s.preferredCardsLocked(d)
			out = append(out, c)
		}
	}
	return out
}

// MergeRemoteDecks refreshes committed decks from a remote listing. Matching
// decks get the remote metadata; remote decks unknown locally are added with
// an empty card set. Pending decks, flashcard caches and transcripts of known
// decks are not touched. It returns the ids of the added decks.
func (s *Store) MergeRemoteDecks(remote []models.RemoteDeck) []models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []models.ID
	for _, r := range remote {
		id := models.CommittedID(r.ID)
		subject := r.Subject
		if subject == "" {
			subject = r.Name
		}

		if i := s.indexLocked(id); i >= 0 {
			d := &s.decks[i]
			d.Title = r.Name
			d.Subject = subject
			d.Description = r.Description
			d.CreatedAt = r.CreatedAt
			s.syncTeachingLocked(*d)
			continue
		}

		s.addDeckLocked(models.Deck{
			ID:          id,
			Title:       r.Name,
			Subject:     subject,
			Description: r.Description,
			CreatedAt:   r.CreatedAt,
			Flashcards:  []models.Flashcard{},
		})
		added = append(added, id)
	}

	s.commit(Change{Kind: DecksReplaced})
	return added
}

// Flashcards.

// DeckFlashcards returns the cached working set; never nil.
func (s *Store) DeckFlashcards(id models.ID) []models.Flashcard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneFlashcards(s.deckFlashcards[id.Key()])
}

func (s *Store) SetDeckFlashcards(id models.ID, cards []models.Flashcard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deckFlashcards[id.Key()] = models.CloneFlashcards(cards)
	s.commit(Change{Kind: FlashcardsChanged, DeckID: id})
}

func (s *Store) AddCardToDeck(id models.ID, card models.Flashcard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		s.decks[i].Flashcards = append(s.decks[i].Flashcards, card)
	}
	key := id.Key()
	s.deckFlashcards[key] = append(models.CloneFlashcards(s.deckFlashcards[key]), card)
	s.commit(Change{Kind: FlashcardsChanged, DeckID: id})
}

// CardPatch holds the card fields UpdateCardInDeck may change.
type CardPatch struct {
	Question *string
	Answer   *string
}

func (p CardPatch) apply(f *models.Flashcard) {
	if p.Question != nil {
		f.Question = *p.Question
	}
	if p.Answer != nil {
		f.Answer = *p.Answer
	}
}

func (s *Store) UpdateCardInDeck(id, cardID models.ID, patch CardPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		for j := range s.decks[i].Flashcards {
			if s.decks[i].Flashcards[j].ID == cardID {
				patch.apply(&s.decks[i].Flashcards[j])
			}
		}
	}
	cards := models.CloneFlashcards(s.deckFlashcards[id.Key()])
	for j := range cards {
		if cards[j].ID == cardID {
			patch.apply(&cards[j])
		}
	}
	s.deckFlashcards[id.Key()] = cards
	s.commit(Change{Kind: FlashcardsChanged, DeckID: id})
}

func (s *Store) RemoveCardFromDeck(id, cardID models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := func(in []models.Flashcard) []models.Flashcard {
		out := make([]models.Flashcard, 0, len(in))
		for _, f := range in {
			if f.ID != cardID {
				out = append(out, f)
			}
		}
		return out
	}
	if i := s.indexLocked(id); i >= 0 {
		s.decks[i].Flashcards = keep(s.decks[i].Flashcards)
	}
	s.deckFlashcards[id.Key()] = keep(s.deckFlashcards[id.Key()])
	s.commit(Change{Kind: FlashcardsChanged, DeckID: id})
}

// Messages.

// DeckMessages returns the deck's transcript; never nil.
func (s *Store) DeckMessages(id models.ID) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneMessages(s.deckMessages[id.Key()])
}

func (s *Store) SetDeckMessages(id models.ID, msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deckMessages[id.Key()] = models.CloneMessages(msgs)
	s.commit(Change{Kind: MessagesChanged, DeckID: id})
}

func (s *Store) AddMessageToDeck(id models.ID, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Key()
	s.deckMessages[key] = append(models.CloneMessages(s.deckMessages[key]), msg)
	s.commit(Change{Kind: MessagesChanged, DeckID: id})
}

// Active deck.

// SetActiveDeckID selects a deck; the zero ID clears the selection.
func (s *Store) SetActiveDeckID(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeDeckID = id
	s.commit(Change{Kind: ActiveDeckChanged, DeckID: id})
}

// ActiveDeckID reports the selected deck; ok is false when none is.
func (s *Store) ActiveDeckID() (models.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeDeckID, !s.activeDeckID.IsZero()
}

func (s *Store) ActiveDeck() (models.Deck, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeDeckID.IsZero() {
		return models.Deck{}, false
	}
	if i := s.indexLocked(s.activeDeckID); i >= 0 {
		return s.decks[i].Clone(), true
	}
	return models.Deck{}, false
}

// preferredCardsLocked returns the cached cards when there are any, the
// deck's own copy otherwise.
func (s *Store) preferredCardsLocked(d models.Deck) []models.Flashcard {
	if cached := s.deckFlashcards[d.ID.Key()]; len(cached) > 0 {
		return models.CloneFlashcards(cached)
	}
	return models.CloneFlashcards(d.Flashcards)
}

// FlashcardsFromActiveDeck prefers the cached cards of the active deck.
func (s *Store) FlashcardsFromActiveDeck() []models.Flashcard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeDeckID.IsZero() {
		return []models.Flashcard{}
	}
	if i := s.indexLocked(s.activeDeckID); i >= 0 {
		return s.preferredCardsLocked(s.decks[i])
	}
	return models.CloneFlashcards(s.deckFlashcards[s.activeDeckID.Key()])
}

// Teaching deck.

// SetActiveTeachingDeck switches the teaching deck; nil clears it.
// Subscribers receive a TeachingDeckChanged change and reset their
// per-session state (such as the card index) on it.
func (s *Store) SetActiveTeachingDeck(deck *models.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id models.ID
	if deck == nil {
		s.activeTeaching = nil
	} else {
		d := deck.Clone()
		s.activeTeaching = &d
		id = d.ID
	}
	s.commit(Change{Kind: TeachingDeckChanged, DeckID: id})
}

func (s *Store) ClearActiveTeachingDeck() {
	s.SetActiveTeachingDeck(nil)
}

func (s *Store) ActiveTeachingDeck() (models.Deck, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeTeaching == nil {
		return models.Deck{}, false
	}
	return s.activeTeaching.Clone(), true
}

// ActiveTeachingFlashcards prefers the flashcard cache of the teaching deck
// and falls back to the cards it was selected with.
func (s *Store) ActiveTeachingFlashcards() []models.Flashcard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeTeaching == nil {
		return []models.Flashcard{}
	}
	return s.preferredCardsLocked(*s.activeTeaching)
}

// syncTeachingLocked keeps the teaching copy in step with edits to the same
// deck.
func (s *Store) syncTeachingLocked(d models.Deck) {
	if s.activeTeaching != nil && s.activeTeaching.ID == d.ID {
		c := d.Clone()
		s.activeTeaching = &c
	}
}
