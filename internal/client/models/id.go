package models

import (
	"encoding/json"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const pendingPrefix = "local:"

// ID identifies a deck or flashcard. It is either Pending (a client-side
// token, not yet known to the remote store) or Committed (the id assigned by
// the remote store). The zero ID is neither.
//
// On the wire and as a map key a committed id is the bare server id and a
// pending id is "local:<token>", so the two can never collide.
type ID struct {
	value   string
	pending bool
}

// PendingID wraps a client-side token.
func PendingID(token string) ID {
	return ID{value: token, pending: true}
}

// CommittedID wraps a server-assigned id.
func CommittedID(serverID string) ID {
	return ID{value: serverID}
}

// NewPendingID returns a pending id with a fresh random token.
func NewPendingID() ID {
	return PendingID(gonanoid.Must())
}

// ParseID is the inverse of Key.
func ParseID(s string) ID {
	if token, ok := strings.CutPrefix(s, pendingPrefix); ok {
		return PendingID(token)
	}
	return CommittedID(s)
}

func (id ID) IsZero() bool {
	return id.value == ""
}

func (id ID) IsPending() bool {
	return id.pending && id.value != ""
}

func (id ID) IsCommitted() bool {
	return !id.pending && id.value != ""
}

// ServerID returns the server-assigned id; ok is false for pending and zero
// ids.
func (id ID) ServerID() (string, bool) {
	if !id.IsCommitted() {
		return "", false
	}
	return id.value, true
}

// Key is the string form used as a map key and in JSON.
func (id ID) Key() string {
	if id.pending {
		return pendingPrefix + id.value
	}
	return id.value
}

func (id ID) String() string {
	return id.Key()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Key())
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*id = ParseID(s)
	return nil
}
