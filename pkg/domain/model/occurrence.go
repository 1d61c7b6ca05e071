package model

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
)

// Occurrence is the central entity: one reported incident routed through the
// triage/status workflow.
type Occurrence struct {
	ID       types.OccurrenceID
	Protocol types.Protocol

	Type        types.OccurrenceType
	Subtype     string
	Title       string
	Description string

	Status types.Status
	Triage types.TriageSeverity // empty until an authorized reviewer sets it

	// Outcome fields, set once at finalization
	OutcomeTags          []types.OutcomeTag
	OutcomePrimary       types.OutcomeTag
	OutcomeJustification string

	// Sub-records required by outcome tags
	ExternalNotification *ExternalNotification
	CorrectiveActions    []CorrectiveAction

	Attachments []Attachment

	// Signature gate (administrative subtype)
	CoordinatorSignatureURL string
	EmployeeSignatureURL    string
	SignedAt                *time.Time

	// Pending request routed for approval (e.g. supplies), if any. Cleared
	// semantics: the request stays on the record; confirmation consumes it.
	RequestedItem string
	ApproverEmail string

	// Public access
	PublicToken string

	// Single-use, time-boxed confirmation gate (facility and exam-review
	// subtypes). Consuming the token stamps ConfirmedAt.
	ConfirmationToken     string `masq:"secret"`
	ConfirmationExpiresAt *time.Time
	ConfirmedAt           *time.Time
	ConfirmedBy           string

	// External reviewer's opinion, submitted through the public link
	DoctorOpinion string
	OpinionBy     string
	OpinionAt     *time.Time

	CreatedBy     types.UserID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	StatusHistory []StatusChange
}

// StatusChange is one append-only audit entry of a status transition.
type StatusChange struct {
	From      types.Status
	To        types.Status
	ChangedBy types.UserID
	ChangedAt time.Time
	Reason    string
}

// ExternalNotification is the sub-record required when any selected outcome
// tag is flagged RequiresExternalNotification. All three fields must be set.
type ExternalNotification struct {
	NotifiedParty     string
	NotifiedAt        time.Time
	ResponsiblePerson string
}

// Complete reports whether every required field of the sub-record is present.
func (n *ExternalNotification) Complete() bool {
	return n != nil &&
		n.NotifiedParty != "" &&
		!n.NotifiedAt.IsZero() &&
		n.ResponsiblePerson != ""
}

// CorrectiveAction is one CAPA entry.
type CorrectiveAction struct {
	Description string
	Responsible string
	DueAt       time.Time
}

// Attachment is one uploaded file reference, ordered by upload time.
type Attachment struct {
	Name        string
	StoragePath string
	ContentType string
	UploadedBy  types.UserID
	UploadedAt  time.Time
}

// HasPendingRequest reports whether the record carries a request still
// awaiting its approval/confirmation.
func (o *Occurrence) HasPendingRequest() bool {
	return o.RequestedItem != "" && o.ConfirmedAt == nil
}

// IsConfirmed reports whether the confirmation token has been consumed.
func (o *Occurrence) IsConfirmed() bool {
	return o.ConfirmedAt != nil
}

// IsSigned reports whether both signature artifacts are present.
func (o *Occurrence) IsSigned() bool {
	return o.CoordinatorSignatureURL != "" && o.EmployeeSignatureURL != ""
}

// HasOutcome reports whether the outcome has already been finalized.
func (o *Occurrence) HasOutcome() bool {
	return len(o.OutcomeTags) > 0
}

// Clone returns a deep copy of the occurrence.
func (o *Occurrence) Clone() *Occurrence {
	cloned := *o

	cloned.OutcomeTags = make([]types.OutcomeTag, len(o.OutcomeTags))
	copy(cloned.OutcomeTags, o.OutcomeTags)

	cloned.CorrectiveActions = make([]CorrectiveAction, len(o.CorrectiveActions))
	copy(cloned.CorrectiveActions, o.CorrectiveActions)

	cloned.Attachments = make([]Attachment, len(o.Attachments))
	copy(cloned.Attachments, o.Attachments)

	cloned.StatusHistory = make([]StatusChange, len(o.StatusHistory))
	copy(cloned.StatusHistory, o.StatusHistory)

	if o.ExternalNotification != nil {
		n := *o.ExternalNotification
		cloned.ExternalNotification = &n
	}
	if o.ConfirmationExpiresAt != nil {
		t := *o.ConfirmationExpiresAt
		cloned.ConfirmationExpiresAt = &t
	}
	if o.ConfirmedAt != nil {
		t := *o.ConfirmedAt
		cloned.ConfirmedAt = &t
	}
	if o.SignedAt != nil {
		t := *o.SignedAt
		cloned.SignedAt = &t
	}
	if o.OpinionAt != nil {
		t := *o.OpinionAt
		cloned.OpinionAt = &t
	}

	return &cloned
}
