package model

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Outcome is the candidate finalization payload validated before a record is
// saved as concluded.
type Outcome struct {
	Tags                 []types.OutcomeTag
	Primary              types.OutcomeTag
	Justification        string
	ExternalNotification *ExternalNotification
	CorrectiveActions    []CorrectiveAction
}

// ValidateOutcome checks the candidate outcome against the static requirement
// table: the union of per-tag flags decides which auxiliary sections are
// mandatory. Validation failures are local and block the write; the record is
// not touched.
func ValidateOutcome(o *Occurrence, outcome Outcome, actor ActorContext) error {
	if !actor.IsAdmin() {
		return goerr.Wrap(ErrUnauthorizedRole, "outcome finalization requires admin role",
			goerr.V(RoleKey, actor.Role))
	}
	if o.HasOutcome() {
		return goerr.Wrap(ErrOutcomeAlreadySet, "outcome is set once")
	}
	if len(outcome.Tags) == 0 {
		return goerr.Wrap(ErrOutcomeEmpty, "select at least one outcome tag")
	}

	primaryFound := false
	for _, tag := range outcome.Tags {
		if !tag.IsValid() {
			return goerr.New("invalid outcome tag", goerr.V(TagKey, tag))
		}
		if tag == outcome.Primary {
			primaryFound = true
		}
	}
	if !primaryFound {
		return goerr.Wrap(ErrOutcomePrimaryNotInSet, "primary outcome missing from selection",
			goerr.V(TagKey, outcome.Primary))
	}

	req := types.ResolveOutcomeRequirements(outcome.Tags)
	if req.RequiresExternalNotification && !outcome.ExternalNotification.Complete() {
		return goerr.Wrap(ErrNotificationIncomplete, "selected outcome requires external notification")
	}
	if req.RequiresCAPA && len(outcome.CorrectiveActions) == 0 {
		return goerr.Wrap(ErrCorrectiveActionRequired, "selected outcome requires corrective action")
	}

	return nil
}

// ApplyOutcome writes a validated outcome onto the occurrence. Callers must
// run ValidateOutcome first; ApplyOutcome revalidates to keep the invariant
// local.
func ApplyOutcome(o *Occurrence, outcome Outcome, actor ActorContext, now time.Time) error {
	if err := ValidateOutcome(o, outcome, actor); err != nil {
		return err
	}

	o.OutcomeTags = make([]types.OutcomeTag, len(outcome.Tags))
	copy(o.OutcomeTags, outcome.Tags)
	o.OutcomePrimary = outcome.Primary
	o.OutcomeJustification = outcome.Justification
	if outcome.ExternalNotification != nil {
		n := *outcome.ExternalNotification
		o.ExternalNotification = &n
	}
	o.CorrectiveActions = make([]CorrectiveAction, len(outcome.CorrectiveActions))
	copy(o.CorrectiveActions, outcome.CorrectiveActions)
	o.UpdatedAt = now
	return nil
}
