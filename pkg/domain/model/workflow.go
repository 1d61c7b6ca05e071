package model

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// edge is one allowed status transition for a given occurrence type.
type edge struct {
	from types.Status
	to   types.Status
}

// transitionTable holds the allowed edges per occurrence type. Administrative
// records reach CONCLUDED only through the signature gate; facility records
// only through public confirmation. Neither type allows a direct jump that
// bypasses its required intermediate step.
var transitionTable = map[types.OccurrenceType][]edge{
	types.TypeExamReview: {
		{types.StatusRegistered, types.StatusInAnalysis},
		{types.StatusInAnalysis, types.StatusForwarded},
		{types.StatusForwarded, types.StatusConcluded},
	},
	types.TypeNursing: {
		{types.StatusRegistered, types.StatusInAnalysis},
		{types.StatusInAnalysis, types.StatusConcluded},
	},
	types.TypeAdministrative: {
		{types.StatusPending, types.StatusConcluded},
	},
	types.TypeFacility: {
		{types.StatusRegistered, types.StatusConcluded},
	},
}

// NextStatuses returns the statuses the given actor may move the occurrence
// to from its current status.
func NextStatuses(o *Occurrence, actor ActorContext) []types.Status {
	var next []types.Status
	for _, e := range transitionTable[o.Type] {
		if e.from != o.Status {
			continue
		}
		if err := CanTransition(o, e.to, actor); err == nil {
			next = append(next, e.to)
		}
	}
	return next
}

// CanTransition checks whether moving the occurrence to the given status is
// legal for the acting user. It returns a labeled error describing the first
// violated rule, or nil.
func CanTransition(o *Occurrence, to types.Status, actor ActorContext) error {
	if o.Status.IsTerminal() {
		return goerr.Wrap(ErrAlreadyConcluded, "no further status change accepted",
			goerr.V(FromStatusKey, o.Status), goerr.V(ToStatusKey, to))
	}

	if !hasEdge(o.Type, o.Status, to) {
		return goerr.Wrap(ErrInvalidTransition, "transition is not in the allowed-edges table",
			goerr.V(TypeKey, o.Type), goerr.V(FromStatusKey, o.Status), goerr.V(ToStatusKey, to))
	}

	// Only an admin may change status, except the nursing finalize action
	// which an assigned nursing-role actor may invoke.
	if !actor.IsAdmin() {
		nursingFinalize := o.Type == types.TypeNursing &&
			o.Status == types.StatusInAnalysis &&
			to == types.StatusConcluded &&
			actor.Role == types.RoleNursing
		if !nursingFinalize {
			return goerr.Wrap(ErrUnauthorizedRole, "status change requires admin role",
				goerr.V(RoleKey, actor.Role), goerr.V(ToStatusKey, to))
		}
	}

	// Forwarding an exam review opens only after triage classification.
	if o.Type == types.TypeExamReview && to == types.StatusForwarded && o.Triage == "" {
		return goerr.Wrap(ErrTriageRequired, "forward action is not open yet")
	}

	return nil
}

func hasEdge(t types.OccurrenceType, from, to types.Status) bool {
	for _, e := range transitionTable[t] {
		if e.from == from && e.to == to {
			return true
		}
	}
	return false
}

// Transition applies a status change in place: it validates the move, sets
// the new status and appends one entry to the status history.
func Transition(o *Occurrence, to types.Status, actor ActorContext, reason string, now time.Time) error {
	if err := CanTransition(o, to, actor); err != nil {
		return err
	}

	o.StatusHistory = append(o.StatusHistory, StatusChange{
		From:      o.Status,
		To:        to,
		ChangedBy: actor.UserID,
		ChangedAt: now,
		Reason:    reason,
	})
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// SetTriage records the triage classification. It is settable exactly once,
// by an admin-role actor, on a record that is not concluded.
func SetTriage(o *Occurrence, severity types.TriageSeverity, actor ActorContext, now time.Time) error {
	if o.Status.IsTerminal() {
		return goerr.Wrap(ErrAlreadyConcluded, "triage cannot change after conclusion")
	}
	if !actor.IsAdmin() {
		return goerr.Wrap(ErrUnauthorizedRole, "triage requires admin role",
			goerr.V(RoleKey, actor.Role))
	}
	if o.Triage != "" {
		return goerr.Wrap(ErrTriageAlreadySet, "triage already classified",
			goerr.V("triage", o.Triage))
	}
	if !severity.IsValid() {
		return goerr.New("invalid triage severity", goerr.V("severity", severity))
	}

	o.Triage = severity
	o.UpdatedAt = now
	return nil
}
