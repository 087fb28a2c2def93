package store

import "github.com/dmitrijs2005/studydeck/internal/client/models"

type ChangeKind int

const (
	DeckAdded ChangeKind = iota + 1
	DeckUpdated
	DeckRemoved
	DecksReplaced
	DeckIDCommitted
	FlashcardsChanged
	MessagesChanged
	ActiveDeckChanged
	TeachingDeckChanged
)

func (k ChangeKind) String() string {
	switch k {
	case DeckAdded:
		return "deck_added"
	case DeckUpdated:
		return "deck_updated"
	case DeckRemoved:
		return "deck_removed"
	case DecksReplaced:
		return "decks_replaced"
	case DeckIDCommitted:
		return "deck_id_committed"
	case FlashcardsChanged:
		return "flashcards_changed"
	case MessagesChanged:
		return "messages_changed"
	case ActiveDeckChanged:
		return "active_deck_changed"
	case TeachingDeckChanged:
		return "teaching_deck_changed"
	default:
		return "unknown"
	}
}

// Change describes one applied action. PreviousID is set for
// DeckIDCommitted.
type Change struct {
	Kind       ChangeKind
	DeckID     models.ID
	PreviousID models.ID
}

const subscriberBuffer = 16

// Subscribe returns a channel of changes and a function that ends the
// subscription. A subscriber that falls behind misses changes rather than
// stalling the store. The channel is closed by the cancel function or by
// Close.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.subID
	s.subID++
	ch := make(chan Change, subscriberBuffer)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
