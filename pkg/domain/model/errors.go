package model

import "github.com/m-mizutani/goerr/v2"

// Workflow validation errors
var (
	ErrInvalidTransition = goerr.New("status transition not allowed")
	ErrAlreadyConcluded  = goerr.New("occurrence is already concluded")
	ErrUnauthorizedRole  = goerr.New("actor role is not authorized for this action")
	ErrTriageAlreadySet  = goerr.New("triage classification is already set")
	ErrTriageRequired    = goerr.New("triage classification must be set before forwarding")

	ErrOutcomeAlreadySet        = goerr.New("outcome is already finalized")
	ErrOutcomeEmpty             = goerr.New("at least one outcome tag is required")
	ErrOutcomePrimaryNotInSet   = goerr.New("primary outcome must be one of the selected tags")
	ErrNotificationIncomplete   = goerr.New("external notification section is required: notified party, date and responsible person must all be set")
	ErrCorrectiveActionRequired = goerr.New("at least one corrective action entry is required")

	ErrBothSignaturesRequired = goerr.New("both signatures required")

	ErrConfirmationNotFound = goerr.New("not found or invalid link")
	ErrAlreadyCompleted     = goerr.New("already completed")
	ErrLinkExpired          = goerr.New("link expired")
)

// Context keys for error values
const (
	FromStatusKey = "from_status"
	ToStatusKey   = "to_status"
	TypeKey       = "occurrence_type"
	RoleKey       = "role"
	TagKey        = "outcome_tag"
)
