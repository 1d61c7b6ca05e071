package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
)

// SetTriage classifies the occurrence severity. Settable exactly once by an
// admin; for exam reviews this opens the forward action.
func (uc *OccurrenceUseCase) SetTriage(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, severity types.TriageSeverity) (*model.Occurrence, error) {
	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := model.SetTriage(o, severity, actor, uc.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save triage",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}
	return updated, nil
}

// ChangeStatus applies a single workflow transition, e.g. moving a registered
// record into analysis.
func (uc *OccurrenceUseCase) ChangeStatus(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, to types.Status, reason string) (*model.Occurrence, error) {
	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := model.Transition(o, to, actor, reason, uc.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save status change",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}

	if to == types.StatusConcluded {
		uc.notifyChange(ctx, updated, notify.KindOccurrenceConcluded, actor)
	}
	return updated, nil
}

// Forward hands an exam review to the external reviewer.
func (uc *OccurrenceUseCase) Forward(ctx context.Context, actor model.ActorContext, id types.OccurrenceID) (*model.Occurrence, error) {
	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := model.Transition(o, types.StatusForwarded, actor, "forwarded to external reviewer", uc.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save forward",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}

	uc.notifyChange(ctx, updated, notify.KindOccurrenceForwarded, actor)
	return updated, nil
}

// Finalize validates and applies the outcome, then concludes the record. A
// validation failure leaves the stored record untouched so the caller can fix
// the payload and retry.
func (uc *OccurrenceUseCase) Finalize(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, outcome model.Outcome) (*model.Occurrence, error) {
	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := model.ApplyOutcome(o, outcome, actor, now); err != nil {
		return nil, err
	}
	if err := model.Transition(o, types.StatusConcluded, actor, "outcome finalized", now); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save finalization",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}

	uc.notifyChange(ctx, updated, notify.KindOccurrenceConcluded, actor)
	return updated, nil
}

// FinalizeNursing is the single-action conclusion of a nursing record,
// available to nursing-role actors without an outcome payload.
func (uc *OccurrenceUseCase) FinalizeNursing(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, note string) (*model.Occurrence, error) {
	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if o.Type != types.TypeNursing {
		return nil, goerr.Wrap(ErrInvalidInput, "nursing finalize applies to nursing occurrences only",
			goerr.V(model.TypeKey, o.Type))
	}

	if err := model.Transition(o, types.StatusConcluded, actor, note, uc.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save nursing finalize",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}

	uc.notifyChange(ctx, updated, notify.KindOccurrenceConcluded, actor)
	return updated, nil
}
