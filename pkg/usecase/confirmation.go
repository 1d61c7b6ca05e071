package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
)

// lookupByKey runs the dual lookup of the public flow: confirmation token
// first, then protocol. Returns nil, nil when nothing matches.
func (uc *OccurrenceUseCase) lookupByKey(ctx context.Context, key string) (*model.Occurrence, error) {
	if key == "" {
		return nil, nil
	}

	o, err := uc.repo.Occurrence().GetByConfirmationToken(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up confirmation token")
	}
	if o != nil {
		return o, nil
	}

	o, err = uc.repo.Occurrence().GetByProtocol(ctx, types.Protocol(key))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to look up protocol")
	}
	return o, nil
}

// ResolveConfirmation validates a public confirmation key for rendering. The
// checks run on every access: unknown key, consumed token and expired token
// each map to their own labeled error.
func (uc *OccurrenceUseCase) ResolveConfirmation(ctx context.Context, key string) (*model.Occurrence, error) {
	o, err := uc.lookupByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := model.ValidateConfirmation(o, uc.now().UTC()); err != nil {
		return nil, err
	}
	return o, nil
}

// Confirm consumes the confirmation key: the completion marker is persisted
// first, then a best-effort notification fires. A delivery failure never rolls
// the confirmation back. Token possession is the only authority; no session
// is involved.
func (uc *OccurrenceUseCase) Confirm(ctx context.Context, key string, confirmedBy string) (*model.Occurrence, error) {
	o, err := uc.lookupByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := model.ApplyConfirmation(o, confirmedBy, now); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save confirmation",
			goerr.V("cause", err))
	}

	if uc.dispatcher != nil {
		uc.dispatcher.Notify(ctx, notify.Event{
			Kind:           notify.KindConfirmationCompleted,
			Protocol:       updated.Protocol,
			Type:           updated.Type,
			Actor:          confirmedBy,
			OccurredAt:     now,
			Description:    updated.Title,
			PendingRequest: updated.HasPendingRequest(),
			Approver:       updated.ApproverEmail,
		})
	}

	return updated, nil
}

// SubmitOpinion consumes an exam review's confirmation key by recording the
// external reviewer's opinion.
func (uc *OccurrenceUseCase) SubmitOpinion(ctx context.Context, key string, opinion, reviewer string) (*model.Occurrence, error) {
	o, err := uc.lookupByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := model.ApplyOpinion(o, opinion, reviewer, now); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save opinion",
			goerr.V("cause", err))
	}

	if uc.dispatcher != nil {
		uc.dispatcher.Notify(ctx, notify.Event{
			Kind:        notify.KindOpinionSubmitted,
			Protocol:    updated.Protocol,
			Type:        updated.Type,
			Actor:       reviewer,
			OccurredAt:  now,
			Description: updated.Title,
		})
	}

	return updated, nil
}
