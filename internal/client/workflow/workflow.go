// Package workflow turns chat input into decks. A creator workflow walks
// from a subject or a PDF to generated candidate cards, asks for a deck
// name, and commits the deck and its cards to the remote store before the
// local store sees them. An editor workflow rewrites an existing deck's
// cards from a free-text instruction.
//
// A workflow is single-flight: while a remote call is in flight every new
// input is rejected with ErrBusy and changes nothing. Generation and
// persistence failures never escape; they return the workflow to its entry
// state and leave an error message in the transcript.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/generation"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/remote"
	"github.com/dmitrijs2005/studydeck/internal/client/store"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

var (
	ErrBusy = errors.New("workflow busy")
	// ErrStateChanged rejects input routed for a state the workflow has
	// already left.
	ErrStateChanged = errors.New("workflow state changed")
)

// Remote is the part of the remote store the workflows write to.
type Remote interface {
	CreateDeck(ctx context.Context, in models.DeckInput) (models.RemoteDeck, error)
	DeleteDeck(ctx context.Context, id string) error
	CreateFlashcards(ctx context.Context, in []models.FlashcardInput) ([]models.Flashcard, error)
	ReplaceFlashcards(ctx context.Context, deckID string, cards []models.Flashcard) ([]models.Flashcard, error)
	CreateSourceUpload(ctx context.Context, deckID, fileName, contentType string) (remote.SourceUpload, error)
}

// Uploader PUTs body to a presigned URL.
type Uploader func(ctx context.Context, url, contentType string, body []byte) error

// Deps are the collaborators shared by creator and editor workflows.
type Deps struct {
	Store       *store.Store
	Remote      Remote
	Generator   generation.Client
	Credentials auth.CredentialProvider
	Uploader    Uploader
	Log         logging.Logger
	Now         func() time.Time
}

// Workflow is one chat surface: either a creator or an editor.
type Workflow struct {
	deps Deps
	log  logging.Logger

	onCommit     func(models.Deck)
	onTranscript func(models.Deck, []models.Message)

	mu       sync.Mutex
	state    State
	messages []models.Message
	deckID   models.ID

	pendingCards   []models.Flashcard
	pendingSubject string
	pendingFile    *generation.File
}

type Option func(*Workflow)

// WithCommitListener is called with every deck the creator commits.
func WithCommitListener(fn func(models.Deck)) Option {
	return func(w *Workflow) { w.onCommit = fn }
}

// WithTranscriptListener is called with the editor transcript after every
// change.
func WithTranscriptListener(fn func(models.Deck, []models.Message)) Option {
	return func(w *Workflow) { w.onTranscript = fn }
}

func newWorkflow(deps Deps, opts []Option) *Workflow {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	w := &Workflow{deps: deps, log: deps.Log.With("module", "workflow")}
	for _, o := range opts {
		o(w)
	}
	return w
}

// NewCreator starts a creator workflow in Idle with the welcome message.
func NewCreator(deps Deps, opts ...Option) *Workflow {
	w := newWorkflow(deps, opts)
	w.state = Idle
	w.messages = []models.Message{models.NewMessage(models.SenderAI, creatorWelcome, w.deps.Now())}
	return w
}

// NewEditor starts an editor workflow for deckID in EditIdle. It resumes the
// deck's stored transcript, or seeds the welcome message when there is none.
func NewEditor(deps Deps, deckID models.ID, opts ...Option) (*Workflow, error) {
	w := newWorkflow(deps, opts)
	deck, ok := deps.Store.GetDeck(deckID)
	if !ok {
		return nil, fmt.Errorf("deck %s: %w", deckID, common.ErrorNotFound)
	}

	w.state = EditIdle
	w.deckID = deckID
	w.messages = models.WithoutLoading(deps.Store.DeckMessages(deckID))
	if len(w.messages) == 0 {
		w.messages = []models.Message{models.NewMessage(models.SenderAI, store.EditorWelcome(deck.Title), w.deps.Now())}
		w.deps.Store.SetDeckMessages(deckID, w.messages)
	}
	return w, nil
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Messages returns a copy of the transcript.
func (w *Workflow) Messages() []models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.CloneMessages(w.messages)
}

// PendingCards returns the candidate cards awaiting a deck name.
func (w *Workflow) PendingCards() []models.Flashcard {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.CloneFlashcards(w.pendingCards)
}

// DeckID is the edited deck; zero for a creator.
func (w *Workflow) DeckID() models.ID {
	return w.deckID
}

func (w *Workflow) isEditor() bool {
	return !w.deckID.IsZero()
}

// setMessagesLocked replaces the transcript. An editor transcript is
// mirrored into the store and reported to the transcript listener.
func (w *Workflow) setMessagesLocked(msgs []models.Message) {
	w.messages = msgs
	if !w.isEditor() {
		return
	}
	w.deps.Store.SetDeckMessages(w.deckID, msgs)
	if w.onTranscript != nil {
		if deck, ok := w.deps.Store.GetDeck(w.deckID); ok {
			w.onTranscript(deck, models.CloneMessages(msgs))
		}
	}
}

func (w *Workflow) appendLocked(msgs ...models.Message) {
	next := append(models.CloneMessages(w.messages), msgs...)
	w.setMessagesLocked(next)
}

func (w *Workflow) aiMessage(text string) models.Message {
	return models.NewMessage(models.SenderAI, text, w.deps.Now())
}

// begin checks the session and that the workflow is still in from, then
// appends the user message and a loading placeholder and moves to next.
func (w *Workflow) begin(ctx context.Context, from, next State, user models.Message, loading string) error {
	if _, err := w.deps.Credentials.Credentials(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Busy() {
		return ErrBusy
	}
	if w.state != from {
		return ErrStateChanged
	}
	w.state = next
	w.appendLocked(user, models.NewLoadingMessage(loading, w.deps.Now()))
	return nil
}

// finish drops loading placeholders, appends reply and moves to next.
func (w *Workflow) finish(next State, reply string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = next
	msgs := models.WithoutLoading(w.messages)
	w.setMessagesLocked(append(msgs, w.aiMessage(reply)))
}

// HandleSendMessage routes free text according to the current state: a
// subject in Idle, a deck name in AwaitingDeckName, an instruction in
// EditIdle.
func (w *Workflow) HandleSendMessage(ctx context.Context, text string) error {
	switch w.State() {
	case AwaitingDeckName:
		return w.commit(ctx, text)
	case EditIdle:
		return w.edit(ctx, text)
	case Idle:
		return w.generate(ctx, text)
	default:
		return ErrBusy
	}
}

// reprompt answers invalid input without changing state.
func (w *Workflow) reprompt(ctx context.Context, text string) error {
	if _, err := w.deps.Credentials.Credentials(ctx); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Busy() {
		return ErrBusy
	}
	w.appendLocked(w.aiMessage(text))
	return nil
}

func (w *Workflow) generate(ctx context.Context, text string) error {
	subject := strings.TrimSpace(text)
	if subject == "" {
		return w.reprompt(ctx, promptSubject)
	}

	user := models.NewMessage(models.SenderUser, text, w.deps.Now())
	if err := w.begin(ctx, Idle, PendingGeneration, user, loadingGenerate); err != nil {
		return err
	}

	res, err := w.deps.Generator.Generate(ctx, subject)
	if err != nil {
		w.log.Warn(ctx, "generation failed", "subject", subject, "error", err)
		w.finish(Idle, errRequest)
		return nil
	}

	w.mu.Lock()
	w.pendingCards = res.Cards
	w.pendingSubject = subject
	w.pendingFile = nil
	w.mu.Unlock()

	w.finish(AwaitingDeckName, subjectResponse(len(res.Cards), subject))
	return nil
}

// HandleFile generates candidate cards from a document. Only a creator in
// Idle accepts files.
func (w *Workflow) HandleFile(ctx context.Context, text string, file generation.File) error {
	if _, err := w.deps.Credentials.Credentials(ctx); err != nil {
		return err
	}

	state := w.State()
	if state.Busy() {
		return ErrBusy
	}
	if w.isEditor() || state != Idle {
		return fmt.Errorf("%w: files are accepted only when starting a new deck", common.ErrInvalidUserInput)
	}

	user := models.NewMessage(models.SenderUser, fileDisplay(strings.TrimSpace(text), file.Name), w.deps.Now())
	user.HasFile = true
	user.FileName = file.Name

	if _, err := generation.InspectDocument(file); err != nil {
		w.log.Warn(ctx, "rejected document", "file", file.Name, "error", err)
		w.mu.Lock()
		w.appendLocked(user, w.aiMessage(errFile))
		w.mu.Unlock()
		return nil
	}

	if err := w.begin(ctx, Idle, PendingFileGeneration, user, loadingFile); err != nil {
		return err
	}

	res, err := w.deps.Generator.GenerateFromFile(ctx, file)
	if err != nil {
		w.log.Warn(ctx, "file generation failed", "file", file.Name, "error", err)
		w.finish(Idle, errFile)
		return nil
	}

	w.mu.Lock()
	w.pendingCards = res.Cards
	w.pendingSubject = ""
	w.pendingFile = &file
	w.mu.Unlock()

	w.finish(AwaitingDeckName, fileResponse(len(res.Cards)))
	return nil
}

func (w *Workflow) clearPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingCards = nil
	w.pendingSubject = ""
	w.pendingFile = nil
}

func (w *Workflow) commit(ctx context.Context, text string) error {
	name := strings.TrimSpace(text)
	if name == "" {
		return w.reprompt(ctx, promptName)
	}

	user := models.NewMessage(models.SenderUser, text, w.deps.Now())
	if err := w.begin(ctx, AwaitingDeckName, Committing, user, loadingCommit); err != nil {
		return err
	}

	w.mu.Lock()
	cards := models.CloneFlashcards(w.pendingCards)
	subject := w.pendingSubject
	file := w.pendingFile
	w.mu.Unlock()

	if subject == "" {
		subject = name
	}

	deck, err := persistDeck(ctx, w.deps.Remote, w.log, models.DeckInput{
		Name:        name,
		Subject:     subject,
		Description: models.DefaultDescription(subject),
	}, cards)
	w.clearPending()
	if err != nil {
		w.log.Error(ctx, "deck commit failed", "deck", name, "error", err)
		w.finish(Idle, errCommit)
		return nil
	}

	w.deps.Store.AddDeck(deck)
	if w.onCommit != nil {
		w.onCommit(deck.Clone())
	}
	w.finish(Idle, commitResponse(name, len(deck.Flashcards)))

	if file != nil {
		w.uploadSource(ctx, deck, *file)
	}
	return nil
}

// persistDeck creates the deck and then its cards remotely and builds the
// committed local deck. When the cards cannot be stored the deck is deleted
// again; the card batch itself is all-or-nothing on the server.
func persistDeck(ctx context.Context, r Remote, log logging.Logger, in models.DeckInput, cards []models.Flashcard) (models.Deck, error) {
	rd, err := r.CreateDeck(ctx, in)
	if err != nil {
		return models.Deck{}, fmt.Errorf("%w: create deck: %v", common.ErrPersistenceFailure, err)
	}

	stored := []models.Flashcard{}
	if len(cards) > 0 {
		inputs := make([]models.FlashcardInput, 0, len(cards))
		for _, c := range cards {
			inputs = append(inputs, models.FlashcardInput{Question: c.Question, Answer: c.Answer, DeckID: rd.ID})
		}
		stored, err = r.CreateFlashcards(ctx, inputs)
		if err != nil {
			if derr := r.DeleteDeck(ctx, rd.ID); derr != nil {
				log.Warn(ctx, "failed to delete orphaned deck", "deck_id", rd.ID, "error", derr)
			}
			return models.Deck{}, fmt.Errorf("%w: create flashcards: %v", common.ErrPersistenceFailure, err)
		}
	}

	return models.Deck{
		ID:          models.CommittedID(rd.ID),
		Title:       in.Name,
		Subject:     in.Subject,
		Description: in.Description,
		CreatedAt:   rd.CreatedAt,
		Flashcards:  stored,
	}, nil
}

// uploadSource stores the document a deck was generated from. Failures are
// logged only; the deck stays committed.
func (w *Workflow) uploadSource(ctx context.Context, deck models.Deck, file generation.File) {
	if w.deps.Uploader == nil {
		return
	}
	serverID, _ := deck.ID.ServerID()
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	up, err := w.deps.Remote.CreateSourceUpload(ctx, serverID, file.Name, contentType)
	if err != nil {
		w.log.Warn(ctx, "source upload not available", "deck_id", serverID, "error", err)
		return
	}
	if err := w.deps.Uploader(ctx, up.URL, contentType, file.Data); err != nil {
		w.log.Warn(ctx, "source upload failed", "deck_id", serverID, "key", up.Key, "error", err)
		return
	}
	w.log.Info(ctx, "source document stored", "deck_id", serverID, "key", up.Key)
}

func (w *Workflow) edit(ctx context.Context, text string) error {
	instruction := strings.TrimSpace(text)
	if instruction == "" {
		return w.reprompt(ctx, promptInstruction)
	}

	user := models.NewMessage(models.SenderUser, text, w.deps.Now())
	if err := w.begin(ctx, EditIdle, PendingEdit, user, loadingEdit); err != nil {
		return err
	}

	deck, ok := w.deps.Store.GetDeck(w.deckID)
	if !ok {
		w.log.Warn(ctx, "edited deck disappeared", "deck_id", w.deckID.Key())
		w.finish(EditIdle, errEdit)
		return nil
	}

	current := w.deps.Store.DeckFlashcards(w.deckID)
	if len(current) == 0 {
		current = deck.Flashcards
	}

	updated, err := w.deps.Generator.Edit(ctx, instruction, current)
	if err != nil {
		w.log.Warn(ctx, "edit generation failed", "deck_id", w.deckID.Key(), "error", err)
		w.finish(EditIdle, errEdit)
		return nil
	}

	if serverID, committed := w.deckID.ServerID(); committed {
		updated, err = w.deps.Remote.ReplaceFlashcards(ctx, serverID, updated)
		if err != nil {
			w.log.Error(ctx, "persisting edited cards failed", "deck_id", serverID, "error", err)
			w.finish(EditIdle, errEdit)
			return nil
		}
	}

	w.deps.Store.UpdateDeck(w.deckID, models.DeckPatch{Flashcards: updated})

	w.finish(EditIdle, editResponse(deck.Title, len(updated)))
	return nil
}
