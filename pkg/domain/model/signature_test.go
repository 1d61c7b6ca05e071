package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestValidateSignatures(t *testing.T) {
	coordinator := []byte("coordinator-png")
	employee := []byte("employee-png")

	t.Run("both images accepted", func(t *testing.T) {
		o := newOccurrence(types.TypeAdministrative)
		gt.NoError(t, model.ValidateSignatures(o, coordinator, employee))
	})

	t.Run("missing employee image rejected", func(t *testing.T) {
		o := newOccurrence(types.TypeAdministrative)
		err := model.ValidateSignatures(o, coordinator, nil)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrBothSignaturesRequired)).True()
		gt.V(t, o.Status).Equal(types.StatusPending)
	})

	t.Run("missing coordinator image rejected", func(t *testing.T) {
		o := newOccurrence(types.TypeAdministrative)
		err := model.ValidateSignatures(o, nil, employee)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrBothSignaturesRequired)).True()
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		o := newOccurrence(types.TypeNursing)
		gt.Error(t, model.ValidateSignatures(o, coordinator, employee))
	})
}

func TestApplySignatures(t *testing.T) {
	now := time.Now().UTC()
	o := newOccurrence(types.TypeAdministrative)

	gt.NoError(t, model.ApplySignatures(o, "gs://sig/coord.png", "gs://sig/emp.png", adminActor, now))
	gt.V(t, o.Status).Equal(types.StatusConcluded)
	gt.B(t, o.IsSigned()).True()
	gt.V(t, *o.SignedAt).Equal(now)
	gt.A(t, o.StatusHistory).Length(1)

	t.Run("gate fires at most once", func(t *testing.T) {
		err := model.ApplySignatures(o, "gs://sig/coord2.png", "gs://sig/emp2.png", adminActor, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrAlreadyConcluded)).True()
	})
}
