package model

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ValidateConfirmation runs the token-gate checks executed on every public
// access: consumed tokens are rejected idempotently forever, and expired
// tokens are permanently invalid even if unconsumed. A token expiring exactly
// at now is still accepted; rejection starts strictly after the expiry.
func ValidateConfirmation(o *Occurrence, now time.Time) error {
	if o == nil {
		return goerr.Wrap(ErrConfirmationNotFound, "no record for confirmation key")
	}
	// Types without a public flow never minted a token. A protocol lookup can
	// still reach them, so they must look like a missing record from outside.
	if !o.Type.HasPublicFlow() || o.ConfirmationToken == "" {
		return goerr.Wrap(ErrConfirmationNotFound, "occurrence has no public confirmation flow",
			goerr.V("type", o.Type))
	}
	if o.IsConfirmed() {
		return goerr.Wrap(ErrAlreadyCompleted, "confirmation token already consumed")
	}
	if o.ConfirmationExpiresAt != nil && now.After(*o.ConfirmationExpiresAt) {
		return goerr.Wrap(ErrLinkExpired, "confirmation token expired",
			goerr.V("expires_at", *o.ConfirmationExpiresAt))
	}
	return nil
}

// ApplyConfirmation consumes the confirmation token: it stamps the completion
// marker and, for types concluded by public confirmation, moves the record to
// its terminal status with a history entry. Token possession is the authority
// here; no session role is involved.
func ApplyConfirmation(o *Occurrence, confirmedBy string, now time.Time) error {
	if err := ValidateConfirmation(o, now); err != nil {
		return err
	}

	confirmedAt := now
	o.ConfirmedAt = &confirmedAt
	o.ConfirmedBy = confirmedBy

	if o.Type.SupportsPublicConfirmation() && !o.Status.IsTerminal() {
		o.StatusHistory = append(o.StatusHistory, StatusChange{
			From:      o.Status,
			To:        types.StatusConcluded,
			ChangedAt: now,
			Reason:    "public confirmation",
		})
		o.Status = types.StatusConcluded
	}

	o.UpdatedAt = now
	return nil
}

// ApplyOpinion consumes the confirmation token of an exam review by recording
// the external reviewer's opinion. The record is not concluded; the admin
// closes it after reading the opinion.
func ApplyOpinion(o *Occurrence, opinion, reviewer string, now time.Time) error {
	if err := ValidateConfirmation(o, now); err != nil {
		return err
	}
	if o.Type != types.TypeExamReview {
		return goerr.New("opinion applies to exam reviews only", goerr.V(TypeKey, o.Type))
	}
	if opinion == "" {
		return goerr.New("opinion text is required")
	}

	o.DoctorOpinion = opinion
	o.OpinionBy = reviewer
	opinionAt := now
	o.OpinionAt = &opinionAt

	confirmedAt := now
	o.ConfirmedAt = &confirmedAt
	o.ConfirmedBy = reviewer
	o.UpdatedAt = now
	return nil
}
