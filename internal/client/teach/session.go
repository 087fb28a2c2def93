// Package teach runs a teaching session: the user explains a deck's cards
// out loud, a tutor answers each recording, and the conversation can be
// scored at the end.
package teach

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/generation"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/store"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

const (
	welcome         = "Welcome to the teaching interface! Explain concepts as if you're teaching someone, and I'll provide feedback on your explanations."
	loadingTeaching = "Processing your teaching..."
	errTeaching     = "Sorry, there was an error processing your teaching. Please try again."
)

var ErrBusy = errors.New("teaching session busy")

// Transcripts receives every transcript change; a session.Debouncer in
// production.
type Transcripts interface {
	Schedule(transcript []models.Message)
	Flush(ctx context.Context) error
}

type Deps struct {
	Store        *store.Store
	Generator    generation.Client
	Credentials  auth.CredentialProvider
	Evaluations  *EvaluationStore
	Log          logging.Logger
	Now          func() time.Time
	LanguageCode string
}

type Session struct {
	deps        Deps
	log         logging.Logger
	deck        models.Deck
	transcripts Transcripts

	mu       sync.Mutex
	messages []models.Message
	busy     bool
	index    int

	unsubscribe func()
	done        chan struct{}
}

// Start makes deck the store's teaching deck and opens a session on it with
// the welcome message and the first card selected.
func Start(deps Deps, deck models.Deck, transcripts Transcripts) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.LanguageCode == "" {
		deps.LanguageCode = generation.DefaultLanguageCode
	}

	s := &Session{
		deps:        deps,
		log:         deps.Log.With("module", "teach", "deck", deck.Title),
		deck:        deck.Clone(),
		transcripts: transcripts,
		messages:    []models.Message{models.NewMessage(models.SenderAI, welcome, deps.Now())},
		done:        make(chan struct{}),
	}

	deps.Store.SetActiveTeachingDeck(&deck)

	changes, cancel := deps.Store.Subscribe()
	s.unsubscribe = cancel
	go s.watch(changes)

	s.transcripts.Schedule(s.Messages())
	return s
}

// watch resets the card index whenever another deck becomes the teaching
// deck and keeps it in range when the deck's cards change.
func (s *Session) watch(changes <-chan store.Change) {
	defer close(s.done)
	for c := range changes {
		switch c.Kind {
		case store.TeachingDeckChanged:
			s.mu.Lock()
			s.index = 0
			s.mu.Unlock()
		case store.FlashcardsChanged, store.DeckUpdated:
			n := len(s.deps.Store.ActiveTeachingFlashcards())
			s.mu.Lock()
			if s.index >= n {
				s.index = max(n-1, 0)
			}
			s.mu.Unlock()
		}
	}
}

func (s *Session) Deck() models.Deck {
	return s.deck.Clone()
}

func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneMessages(s.messages)
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// setMessagesLocked replaces the transcript and hands it to the debouncer.
func (s *Session) setMessagesLocked(msgs []models.Message) {
	s.messages = msgs
	s.transcripts.Schedule(models.CloneMessages(msgs))
}

func history(msgs []models.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.IsLoading {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", m.Sender, m.Content))
	}
	return out
}

// HandleAudio transcribes a recorded explanation and appends it together
// with the tutor's reply. A failed call leaves an error message instead.
func (s *Session) HandleAudio(ctx context.Context, audio generation.File) error {
	if _, err := s.deps.Credentials.Credentials(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	hist := history(s.messages)
	s.setMessagesLocked(append(models.CloneMessages(s.messages), models.NewLoadingMessage(loadingTeaching, s.deps.Now())))
	s.mu.Unlock()

	reply, err := s.deps.Generator.TranscribeAndRespond(ctx, audio, hist, s.deps.LanguageCode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	msgs := models.WithoutLoading(s.messages)
	if err != nil {
		s.log.Warn(ctx, "teaching reply failed", "error", err)
		s.setMessagesLocked(append(msgs, models.NewMessage(models.SenderAI, errTeaching, s.deps.Now())))
		return nil
	}

	now := s.deps.Now()
	s.setMessagesLocked(append(msgs,
		models.NewMessage(models.SenderUser, reply.TranscribedText, now),
		models.NewMessage(models.SenderAI, reply.Response, now.Add(time.Millisecond)),
	))
	return nil
}

// Current returns the selected card of the teaching deck.
func (s *Session) Current() (models.Flashcard, int, bool) {
	cards := s.deps.Store.ActiveTeachingFlashcards()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(cards) {
		return models.Flashcard{}, s.index, false
	}
	return cards[s.index], s.index, true
}

// Next selects the following card; it stops at the last one.
func (s *Session) Next() (models.Flashcard, bool) {
	n := len(s.deps.Store.ActiveTeachingFlashcards())
	s.mu.Lock()
	if s.index < n-1 {
		s.index++
	}
	s.mu.Unlock()
	c, _, ok := s.Current()
	return c, ok
}

// Previous selects the preceding card; it stops at the first one.
func (s *Session) Previous() (models.Flashcard, bool) {
	s.mu.Lock()
	if s.index > 0 {
		s.index--
	}
	s.mu.Unlock()
	c, _, ok := s.Current()
	return c, ok
}

// Evaluate scores the conversation so far and stores the result.
func (s *Session) Evaluate(ctx context.Context) (models.EvaluationScore, error) {
	msgs := models.WithoutLoading(s.Messages())
	conversation := make([]models.ConversationTurn, 0, len(msgs))
	explained := false
	for _, m := range msgs {
		if m.Sender == models.SenderUser {
			explained = true
		}
		conversation = append(conversation, models.ConversationTurn{
			Role:    models.EvaluationRole(m.Sender),
			Content: m.Content,
		})
	}
	if !explained {
		return models.EvaluationScore{}, fmt.Errorf("%w: nothing to evaluate yet", common.ErrInvalidUserInput)
	}

	score, err := s.deps.Generator.Evaluate(ctx, conversation)
	if err != nil {
		return models.EvaluationScore{}, err
	}
	if s.deps.Evaluations != nil {
		if err := s.deps.Evaluations.Set(ctx, score); err != nil {
			s.log.Error(ctx, "failed to save evaluation", "error", err)
		}
	}
	return score, nil
}

// End flushes the transcript and clears the teaching deck.
func (s *Session) End(ctx context.Context) error {
	err := s.transcripts.Flush(ctx)
	s.unsubscribe()
	<-s.done
	s.deps.Store.ClearActiveTeachingDeck()
	return err
}
