package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
)

type SignatureInput struct {
	CoordinatorImage []byte
	EmployeeImage    []byte
	ContentType      string
}

// CollectSignatures runs the administrative signature gate: both images are
// validated, uploaded to blob storage, and the record is concluded with the
// resulting URLs and a SignedAt stamp. A rejected gate leaves the record
// untouched.
func (uc *OccurrenceUseCase) CollectSignatures(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, input SignatureInput) (*model.Occurrence, error) {
	if uc.storage == nil {
		return nil, goerr.New("blob storage is not configured")
	}

	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := model.ValidateSignatures(o, input.CoordinatorImage, input.EmployeeImage); err != nil {
		return nil, err
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "image/png"
	}

	coordinatorURL, err := uc.storage.Put(ctx,
		fmt.Sprintf("occurrences/%s/signatures/coordinator", id), contentType, input.CoordinatorImage)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to upload coordinator signature",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}
	employeeURL, err := uc.storage.Put(ctx,
		fmt.Sprintf("occurrences/%s/signatures/employee", id), contentType, input.EmployeeImage)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to upload employee signature",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}

	if err := model.ApplySignatures(o, coordinatorURL, employeeURL, actor, uc.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save signatures",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}

	uc.notifyChange(ctx, updated, notify.KindOccurrenceConcluded, actor)
	return updated, nil
}
