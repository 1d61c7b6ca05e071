package model

import (
	"time"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ValidateSignatures checks the signature-collection input for an
// administrative occurrence: both the coordinator and the employee images
// must be present, the record must still be pending, and the gate fires at
// most once.
func ValidateSignatures(o *Occurrence, coordinatorImage, employeeImage []byte) error {
	if o.Type != types.TypeAdministrative {
		return goerr.New("signature collection applies to administrative occurrences only",
			goerr.V(TypeKey, o.Type))
	}
	if o.IsSigned() {
		return goerr.Wrap(ErrAlreadyConcluded, "signatures already collected")
	}
	if o.Status != types.StatusPending {
		return goerr.Wrap(ErrInvalidTransition, "signature collection requires pending status",
			goerr.V(FromStatusKey, o.Status))
	}
	if len(coordinatorImage) == 0 || len(employeeImage) == 0 {
		return goerr.Wrap(ErrBothSignaturesRequired, "coordinator and employee signatures must both be provided")
	}
	return nil
}

// ApplySignatures records the uploaded signature URLs, stamps SignedAt and
// concludes the record. Callers upload the images first and pass the
// resulting URLs.
func ApplySignatures(o *Occurrence, coordinatorURL, employeeURL string, actor ActorContext, now time.Time) error {
	if err := Transition(o, types.StatusConcluded, actor, "signatures collected", now); err != nil {
		return err
	}

	o.CoordinatorSignatureURL = coordinatorURL
	o.EmployeeSignatureURL = employeeURL
	signedAt := now
	o.SignedAt = &signedAt
	return nil
}
