package notify

import (
	"context"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
)

// Kind identifies the state change that triggered a notification.
type Kind string

const (
	KindOccurrenceCreated     Kind = "occurrence.created"
	KindOccurrenceForwarded   Kind = "occurrence.forwarded"
	KindOccurrenceConcluded   Kind = "occurrence.concluded"
	KindConfirmationCompleted Kind = "confirmation.completed"
	KindOpinionSubmitted      Kind = "opinion.submitted"
)

// Event carries everything a sender needs to describe a state change.
type Event struct {
	Kind           Kind
	Protocol       types.Protocol
	Type           types.OccurrenceType
	Actor          string
	OccurredAt     time.Time
	Description    string
	PendingRequest bool
	Approver       string
}

// Audience distinguishes the two addressing modes of a formatted message.
type Audience string

const (
	AudienceApprover  Audience = "approver"
	AudienceBroadcast Audience = "broadcast"
)

// Message is one formatted, addressed body derived from an Event.
type Message struct {
	Audience  Audience
	Recipient string
	Text      string
}

// Sender delivers one formatted message for an event. Implementations must
// treat delivery as best-effort; the dispatcher logs failures and moves on.
type Sender interface {
	Send(ctx context.Context, ev Event, msg Message) error
}
