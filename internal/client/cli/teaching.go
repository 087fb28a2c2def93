package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/teach"
)

var errNotTeaching = errors.New("no teaching session; use 'teach <deck#>'")

// Teach starts a teaching session on the deck at position arg.
func (a *App) Teach(ctx context.Context, arg string) error {
	deck, err := a.deckAt(arg)
	if err != nil {
		return err
	}
	deck.Flashcards = a.store.DeckFlashcards(deck.ID)
	a.closeTeaching(ctx)

	sink := a.newDebouncer(models.TeachingThreadName(deck.Title))
	s := teach.Start(teach.Deps{
		Store:        a.store,
		Generator:    a.generator,
		Credentials:  a.authService,
		Evaluations:  a.evaluations,
		Log:          a.log,
		LanguageCode: a.config.LanguageCode,
	}, deck, sink)

	a.mu.Lock()
	a.teaching, a.teachSink = s, sink
	a.surface = SurfaceTeaching
	a.mu.Unlock()

	a.printMessages(s.Messages())
	a.printCard(s.Current())
	return nil
}

func (a *App) teachingSession() (*teach.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.teaching == nil {
		return nil, errNotTeaching
	}
	return a.teaching, nil
}

func (a *App) printCard(c models.Flashcard, idx int, ok bool) {
	if !ok {
		a.printf("This deck has no cards\n")
		return
	}
	a.printf("Card %d: %s\n  Answer: %s\n", idx+1, c.Question, c.Answer)
}

// Audio sends a recorded explanation to the tutor.
func (a *App) Audio(ctx context.Context, path string) error {
	s, err := a.teachingSession()
	if err != nil {
		return err
	}
	file, err := LoadFile(path)
	if err != nil {
		return err
	}

	before := len(s.Messages())
	if err := s.HandleAudio(ctx, file); err != nil {
		return err
	}
	msgs := s.Messages()
	if before < len(msgs) {
		a.printMessages(msgs[before:])
	}
	return nil
}

func (a *App) Next(ctx context.Context) error {
	s, err := a.teachingSession()
	if err != nil {
		return err
	}
	s.Next()
	a.printCard(s.Current())
	return nil
}

func (a *App) Prev(ctx context.Context) error {
	s, err := a.teachingSession()
	if err != nil {
		return err
	}
	s.Previous()
	a.printCard(s.Current())
	return nil
}

// Evaluate scores the teaching conversation so far.
func (a *App) Evaluate(ctx context.Context) error {
	s, err := a.teachingSession()
	if err != nil {
		return err
	}
	score, err := s.Evaluate(ctx)
	if err != nil {
		return err
	}
	a.printScore(score)
	return nil
}

func (a *App) printScore(s models.EvaluationScore) {
	a.printf("Knowledge accuracy:  %.1f/10\n", s.KnowledgeAccuracy)
	a.printf("Explanation quality: %.1f/10\n", s.ExplanationQuality)
	a.printf("Intuitiveness:       %.1f/10\n", s.Intuitiveness)
	a.printf("Overall:             %.1f/10\n", s.OverallScore)
}

// End finishes the teaching session and saves its transcript.
func (a *App) End(ctx context.Context) error {
	if _, err := a.teachingSession(); err != nil {
		return err
	}
	a.closeTeaching(ctx)
	a.printf("Teaching session ended\n")
	return nil
}

func (a *App) closeTeaching(ctx context.Context) {
	a.mu.Lock()
	s, sink := a.teaching, a.teachSink
	a.teaching, a.teachSink = nil, nil
	if a.surface == SurfaceTeaching {
		a.surface = SurfaceCreator
	}
	a.mu.Unlock()

	if s != nil {
		if err := s.End(ctx); err != nil {
			a.log.Warn(ctx, "failed to flush teaching transcript", "error", err)
		}
	}
	if sink != nil {
		if err := sink.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to save teaching transcript", "error", err)
		}
	}
}
