package workflow

type State int

const (
	Idle State = iota
	PendingGeneration
	PendingFileGeneration
	AwaitingDeckName
	Committing
	EditIdle
	PendingEdit
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingGeneration:
		return "pending_generation"
	case PendingFileGeneration:
		return "pending_file_generation"
	case AwaitingDeckName:
		return "awaiting_deck_name"
	case Committing:
		return "committing"
	case EditIdle:
		return "edit_idle"
	case PendingEdit:
		return "pending_edit"
	default:
		return "unknown"
	}
}

// Busy reports whether a remote call is in flight; input is rejected then.
func (s State) Busy() bool {
	switch s {
	case PendingGeneration, PendingFileGeneration, Committing, PendingEdit:
		return true
	default:
		return false
	}
}
