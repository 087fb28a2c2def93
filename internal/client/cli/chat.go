package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/session"
	"github.com/dmitrijs2005/studydeck/internal/client/workflow"
)

var errNoEditor = errors.New("no deck is being edited; use 'edit <deck#>'")

func (a *App) workflowDeps() workflow.Deps {
	return workflow.Deps{
		Store:       a.store,
		Remote:      a.remote,
		Generator:   a.generator,
		Credentials: a.authService,
		Uploader:    a.uploader,
		Log:         a.log,
	}
}

// startCreator opens a fresh creator chat and makes it the active surface.
func (a *App) startCreator() {
	w := workflow.NewCreator(a.workflowDeps(), workflow.WithCommitListener(func(d models.Deck) {
		a.store.SetActiveDeckID(d.ID)
	}))
	a.mu.Lock()
	a.creator = w
	a.surface = SurfaceCreator
	a.mu.Unlock()
	a.printMessages(w.Messages())
}

func (a *App) printMessages(msgs []models.Message) {
	for _, m := range msgs {
		if m.IsLoading {
			continue
		}
		who := "ai"
		if m.Sender == models.SenderUser {
			who = "you"
		}
		a.printf("[%s] %s\n", who, m.Content)
	}
}

// run calls fn on w and prints the replies it produced.
func (a *App) run(w *workflow.Workflow, fn func() error) error {
	before := len(w.Messages())
	err := fn()
	msgs := w.Messages()
	if before < len(msgs) {
		var replies []models.Message
		for _, m := range msgs[before:] {
			if m.Sender == models.SenderAI {
				replies = append(replies, m)
			}
		}
		a.printMessages(replies)
	}
	return err
}

func (a *App) newDebouncer(threadName string) *session.Debouncer {
	d := session.New(a.remote, a.authService, threadName, a.log,
		session.WithInterval(a.config.FlushInterval),
		session.WithFailureThreshold(a.config.FailureThreshold),
	)
	go a.watchEvents(d)
	return d
}

func (a *App) watchEvents(d *session.Debouncer) {
	for e := range d.Events() {
		switch e.Kind {
		case session.Degraded:
			a.printf("Warning: chat history for %q is not being saved: %v\n", e.Thread, e.Err)
		case session.Recovered:
			a.printf("Chat history for %q is being saved again\n", e.Thread)
		default:
			a.log.Debug(context.Background(), "session event", "kind", e.Kind.String(), "thread", e.Thread, "written", e.Written)
		}
	}
}

// New discards the current creator chat and starts over.
func (a *App) New(ctx context.Context) error {
	a.closeEditor(ctx)
	a.startCreator()
	return nil
}

// Upload generates candidate cards from a PDF in the creator chat.
func (a *App) Upload(ctx context.Context, path string) error {
	a.mu.Lock()
	w, surface := a.creator, a.surface
	a.mu.Unlock()
	if w == nil || surface != SurfaceCreator {
		return errors.New("files can only be uploaded in the creator; use 'new'")
	}

	file, err := LoadFile(path)
	if err != nil {
		return err
	}
	return a.run(w, func() error { return w.HandleFile(ctx, "", file) })
}

// Edit opens the edit chat of the deck at position arg.
func (a *App) Edit(ctx context.Context, arg string) error {
	deck, err := a.deckAt(arg)
	if err != nil {
		return err
	}
	a.closeEditor(ctx)

	sink := a.newDebouncer(models.EditingThreadName(deck.Title))
	w, err := workflow.NewEditor(a.workflowDeps(), deck.ID, workflow.WithTranscriptListener(func(_ models.Deck, msgs []models.Message) {
		sink.Schedule(msgs)
	}))
	if err != nil {
		_ = sink.Close(ctx)
		return err
	}

	a.mu.Lock()
	a.editor = w
	a.editSink = sink
	a.surface = SurfaceEditor
	a.mu.Unlock()

	a.printMessages(w.Messages())
	return nil
}

func (a *App) closeEditor(ctx context.Context) {
	a.mu.Lock()
	sink := a.editSink
	a.editor, a.editSink = nil, nil
	if a.surface == SurfaceEditor {
		a.surface = SurfaceCreator
	}
	a.mu.Unlock()

	if sink != nil {
		if err := sink.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to save edit chat", "error", err)
		}
	}
}

// Say sends free text to the active chat.
func (a *App) Say(ctx context.Context, text string) error {
	a.mu.Lock()
	surface, creator, editor := a.surface, a.creator, a.editor
	a.mu.Unlock()

	switch surface {
	case SurfaceEditor:
		if editor == nil {
			return errNoEditor
		}
		return a.run(editor, func() error { return editor.HandleSendMessage(ctx, text) })
	case SurfaceTeaching:
		a.printf("Record your explanation and send it with 'audio <path>'\n")
		return nil
	default:
		if creator == nil {
			a.startCreator()
			a.mu.Lock()
			creator = a.creator
			a.mu.Unlock()
		}
		return a.run(creator, func() error { return creator.HandleSendMessage(ctx, text) })
	}
}
