package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// OccurrenceID is a UUID-based identifier for an occurrence record
type OccurrenceID string

// NewOccurrenceID generates a new UUID v4 OccurrenceID
func NewOccurrenceID() OccurrenceID {
	return OccurrenceID(uuid.New().String())
}

// Validate checks if the OccurrenceID is valid
func (id OccurrenceID) Validate() error {
	if id == "" {
		return goerr.New("occurrence ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "occurrence ID must be a UUID", goerr.V("id", id))
	}
	return nil
}

// String returns the string representation of OccurrenceID
func (id OccurrenceID) String() string {
	return string(id)
}

// Protocol is the human-readable unique identifier assigned exactly once at
// creation. Callers treat it as opaque and immutable.
type Protocol string

// Validate checks if the Protocol is valid
func (p Protocol) Validate() error {
	if p == "" {
		return goerr.New("protocol cannot be empty")
	}
	return nil
}

// String returns the string representation of Protocol
func (p Protocol) String() string {
	return string(p)
}

// UserID identifies an authenticated user
type UserID string

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
