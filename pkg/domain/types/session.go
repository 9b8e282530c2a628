package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SessionID identifies one open editor. A new ID is issued every time an
// editor is opened, so no state can leak from a previous session.
type SessionID string

// NewSessionID issues a random session ID
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Validate checks if the SessionID is a UUID
func (id SessionID) Validate() error {
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "invalid session ID", goerr.V("id", id))
	}
	return nil
}

// String returns the string representation of SessionID
func (id SessionID) String() string {
	return string(id)
}
