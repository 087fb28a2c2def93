package session

import "time"

type EventKind int

const (
	Flushed EventKind = iota
	FlushFailed
	Degraded
	Recovered
	DuplicateThread
	StaleSuppressed
)

func (k EventKind) String() string {
	switch k {
	case Flushed:
		return "flushed"
	case FlushFailed:
		return "flush_failed"
	case Degraded:
		return "degraded"
	case Recovered:
		return "recovered"
	case DuplicateThread:
		return "duplicate_thread"
	case StaleSuppressed:
		return "stale_suppressed"
	default:
		return "unknown"
	}
}

// Event reports the outcome of a flush. Written is the number of messages
// sent by the flush; for StaleSuppressed it is the number of messages held
// back.
type Event struct {
	Kind    EventKind
	Thread  string
	Err     error
	Written int
	At      time.Time
}
