// Package session persists chat transcripts to the remote message store.
//
// A Debouncer owns one thread. Callers hand it the full transcript after
// every change; it waits for a quiet interval and then appends the messages
// the thread does not have yet. The thread is looked up by name and creator
// on every flush, so a thread created elsewhere in the meantime is reused.
// Only messages newer than the latest persisted one are written and every
// message carries its client token, which keeps retried writes idempotent.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

const (
	DefaultInterval         = time.Second
	DefaultFailureThreshold = 3

	defaultEventBuffer  = 32
	defaultFlushTimeout = 30 * time.Second
)

// Remote is the part of the remote store a Debouncer writes to.
type Remote interface {
	CreateThread(ctx context.Context, name string) (models.MessageThread, bool, error)
	ListThreads(ctx context.Context) ([]models.MessageThread, error)
	CreateMessage(ctx context.Context, in models.MessageInput) (models.RemoteMessage, error)
	ListMessages(ctx context.Context, threadID int64) ([]models.RemoteMessage, error)
}

type Debouncer struct {
	remote     Remote
	creds      auth.CredentialProvider
	threadName string
	log        logging.Logger

	interval     time.Duration
	threshold    int
	flushTimeout time.Duration
	now          func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	pending []models.Message
	closed  bool

	// flushMu serializes flushes and guards the fields below.
	flushMu      sync.Mutex
	failures     int
	events       chan Event
	eventsClosed bool
}

type Option func(*Debouncer)

func WithInterval(d time.Duration) Option {
	return func(db *Debouncer) {
		if d > 0 {
			db.interval = d
		}
	}
}

// WithFailureThreshold sets how many consecutive failed flushes produce a
// Degraded event.
func WithFailureThreshold(n int) Option {
	return func(db *Debouncer) {
		if n > 0 {
			db.threshold = n
		}
	}
}

func WithEventBuffer(n int) Option {
	return func(db *Debouncer) {
		if n >= 0 {
			db.events = make(chan Event, n)
		}
	}
}

func WithFlushTimeout(d time.Duration) Option {
	return func(db *Debouncer) {
		if d > 0 {
			db.flushTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(db *Debouncer) { db.now = now }
}

// New creates a Debouncer for the thread called threadName.
func New(remote Remote, creds auth.CredentialProvider, threadName string, log logging.Logger, opts ...Option) *Debouncer {
	if log == nil {
		log = logging.Discard()
	}
	d := &Debouncer{
		remote:       remote,
		creds:        creds,
		threadName:   threadName,
		log:          log.With("module", "session", "thread", threadName),
		interval:     DefaultInterval,
		threshold:    DefaultFailureThreshold,
		flushTimeout: defaultFlushTimeout,
		now:          time.Now,
		events:       make(chan Event, defaultEventBuffer),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Debouncer) ThreadName() string {
	return d.threadName
}

// Events is closed by Close.
func (d *Debouncer) Events() <-chan Event {
	return d.events
}

// Schedule records transcript as the latest state and restarts the quiet
// interval. Calls after Close are ignored.
func (d *Debouncer) Schedule(transcript []models.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = models.CloneMessages(transcript)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), d.flushTimeout)
	defer cancel()
	_ = d.Flush(ctx)
}

// take removes the pending transcript and disarms the timer.
func (d *Debouncer) take() ([]models.Message, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	msgs := d.pending
	d.pending = nil
	return msgs, msgs != nil
}

// restore puts back a transcript whose flush failed, unless a newer one was
// scheduled meanwhile, and arms the timer so it is retried after another
// interval.
func (d *Debouncer) restore(msgs []models.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return
	}
	d.pending = msgs
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// Flush writes the pending transcript now. It is a no-op when nothing is
// pending. Failures are logged and reported on Events as well as returned.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	msgs, ok := d.take()
	if !ok {
		return nil
	}

	written, err := d.flush(ctx, msgs)
	if err != nil {
		d.restore(msgs)
		d.failed(ctx, written, err)
		return err
	}
	d.succeeded(ctx, written)
	return nil
}

// Close flushes what is pending, stops the timer and closes Events.
func (d *Debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	err := d.Flush(ctx)

	d.flushMu.Lock()
	defer d.flushMu.Unlock()
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()
	d.eventsClosed = true
	close(d.events)
	return err
}

func (d *Debouncer) flush(ctx context.Context, transcript []models.Message) (int, error) {
	msgs := models.SortedByTimestamp(models.WithoutLoading(transcript))
	if len(msgs) == 0 {
		return 0, nil
	}

	creds, err := d.creds.Credentials(ctx)
	if err != nil {
		return 0, err
	}
	creatorID := creds.CreatorID()

	thread, found, err := d.findThread(ctx, creatorID)
	if err != nil {
		return 0, fmt.Errorf("list threads: %w", err)
	}
	if !found {
		var created bool
		thread, created, err = d.remote.CreateThread(ctx, d.threadName)
		if err != nil {
			return 0, fmt.Errorf("create thread: %w", err)
		}
		// Someone else created the thread between our lookup and create.
		// Its messages have to be taken into account like a found thread.
		found = !created
		if found {
			d.log.Warn(ctx, "thread appeared during flush", "thread_id", thread.ID)
			d.emit(ctx, Event{Kind: DuplicateThread, Err: common.ErrDuplicateThread})
		}
	}

	var (
		latest    time.Time
		persisted = map[string]bool{}
	)
	if found {
		existing, err := d.remote.ListMessages(ctx, thread.ID)
		if err != nil {
			return 0, fmt.Errorf("list messages: %w", err)
		}
		for _, m := range existing {
			if at := m.CreatedAt.Truncate(time.Microsecond); at.After(latest) {
				latest = at
			}
			if m.ClientToken != "" {
				persisted[m.ClientToken] = true
			}
		}
	}

	written, stale := 0, 0
	for _, m := range msgs {
		if persisted[m.Token] {
			continue
		}
		// The store keeps microseconds, local timestamps carry nanoseconds.
		if found && !m.Timestamp.Truncate(time.Microsecond).After(latest) {
			stale++
			continue
		}
		_, err := d.remote.CreateMessage(ctx, models.MessageInput{
			ThreadID:    thread.ID,
			Content:     m.Content,
			Role:        string(m.Sender),
			CreatedAt:   m.Timestamp,
			ClientToken: m.Token,
		})
		if err != nil {
			return written, fmt.Errorf("create message: %w", err)
		}
		written++
	}

	if stale > 0 {
		d.log.Warn(ctx, "messages not newer than the thread were not written", "count", stale, "latest", latest)
		d.emit(ctx, Event{Kind: StaleSuppressed, Err: common.ErrStaleWriteSuppressed, Written: stale})
	}
	return written, nil
}

func (d *Debouncer) findThread(ctx context.Context, creatorID string) (models.MessageThread, bool, error) {
	threads, err := d.remote.ListThreads(ctx)
	if err != nil {
		return models.MessageThread{}, false, err
	}
	var (
		match models.MessageThread
		found bool
	)
	for _, t := range threads {
		if t.Name != d.threadName || t.CreatorID != creatorID {
			continue
		}
		if !found || t.ID < match.ID {
			match, found = t, true
		}
	}
	return match, found, nil
}

func (d *Debouncer) failed(ctx context.Context, written int, err error) {
	d.failures++
	d.log.Error(ctx, "failed to persist transcript", "written", written, "failures", d.failures, "error", err)
	d.emit(ctx, Event{Kind: FlushFailed, Err: err, Written: written})
	if d.failures == d.threshold {
		d.emit(ctx, Event{Kind: Degraded, Err: err})
	}
}

func (d *Debouncer) succeeded(ctx context.Context, written int) {
	if d.failures >= d.threshold {
		d.log.Info(ctx, "transcript persistence recovered", "failures", d.failures)
		d.emit(ctx, Event{Kind: Recovered})
	}
	d.failures = 0
	d.log.Debug(ctx, "transcript flushed", "written", written)
	d.emit(ctx, Event{Kind: Flushed, Written: written})
}

// emit must be called with flushMu held. It never blocks.
func (d *Debouncer) emit(ctx context.Context, e Event) {
	if d.eventsClosed {
		return
	}
	e.Thread = d.threadName
	e.At = d.now()
	select {
	case d.events <- e:
	default:
		d.log.Warn(ctx, "session event dropped", "kind", e.Kind.String())
	}
}
