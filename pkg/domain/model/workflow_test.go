package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func newOccurrence(typ types.OccurrenceType) *model.Occurrence {
	return &model.Occurrence{
		ID:        types.NewOccurrenceID(),
		Protocol:  "OC-2026-000001",
		Type:      typ,
		Title:     "test occurrence",
		Status:    typ.InitialStatus(),
		CreatedBy: "U-reporter",
		CreatedAt: time.Now().UTC(),
	}
}

var (
	adminActor   = model.ActorContext{UserID: "U-admin", Role: types.RoleAdmin, TenantID: "t1"}
	nursingActor = model.ActorContext{UserID: "U-nurse", Role: types.RoleNursing, TenantID: "t1"}
	staffActor   = model.ActorContext{UserID: "U-staff", Role: types.RoleStaff, TenantID: "t1"}
)

func TestTransition_ExamReviewPath(t *testing.T) {
	o := newOccurrence(types.TypeExamReview)
	now := time.Now().UTC()

	gt.NoError(t, model.Transition(o, types.StatusInAnalysis, adminActor, "", now))
	gt.V(t, o.Status).Equal(types.StatusInAnalysis)

	t.Run("forward is closed before triage", func(t *testing.T) {
		err := model.Transition(o, types.StatusForwarded, adminActor, "", now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrTriageRequired)).True()
	})

	gt.NoError(t, model.SetTriage(o, types.TriageHigh, adminActor, now))

	t.Run("forward opens after triage", func(t *testing.T) {
		gt.NoError(t, model.Transition(o, types.StatusForwarded, adminActor, "sent to reviewer", now))
		gt.V(t, o.Status).Equal(types.StatusForwarded)
	})

	gt.NoError(t, model.Transition(o, types.StatusConcluded, adminActor, "", now))
	gt.V(t, o.Status).Equal(types.StatusConcluded)
	gt.A(t, o.StatusHistory).Length(3)
}

func TestTransition_ConcludedIsTerminal(t *testing.T) {
	o := newOccurrence(types.TypeNursing)
	now := time.Now().UTC()

	gt.NoError(t, model.Transition(o, types.StatusInAnalysis, adminActor, "", now))
	gt.NoError(t, model.Transition(o, types.StatusConcluded, adminActor, "", now))

	err := model.Transition(o, types.StatusInAnalysis, adminActor, "", now)
	gt.Error(t, err)
	gt.B(t, errors.Is(err, model.ErrAlreadyConcluded)).True()
	gt.V(t, o.Status).Equal(types.StatusConcluded)
}

func TestTransition_NoDirectJumpToConcluded(t *testing.T) {
	o := newOccurrence(types.TypeExamReview)
	err := model.Transition(o, types.StatusConcluded, adminActor, "", time.Now().UTC())
	gt.Error(t, err)
	gt.B(t, errors.Is(err, model.ErrInvalidTransition)).True()
}

func TestTransition_NursingFinalize(t *testing.T) {
	now := time.Now().UTC()

	t.Run("nursing role may finalize", func(t *testing.T) {
		o := newOccurrence(types.TypeNursing)
		gt.NoError(t, model.Transition(o, types.StatusInAnalysis, adminActor, "", now))

		before := len(o.StatusHistory)
		gt.NoError(t, model.Transition(o, types.StatusConcluded, nursingActor, "finalized", now))
		gt.V(t, o.Status).Equal(types.StatusConcluded)
		gt.A(t, o.StatusHistory).Length(before + 1)
		last := o.StatusHistory[len(o.StatusHistory)-1]
		gt.V(t, last.To).Equal(types.StatusConcluded)
		gt.V(t, last.ChangedBy).Equal(nursingActor.UserID)
	})

	t.Run("nursing role may not move other types", func(t *testing.T) {
		o := newOccurrence(types.TypeExamReview)
		err := model.Transition(o, types.StatusInAnalysis, nursingActor, "", now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrUnauthorizedRole)).True()
	})

	t.Run("staff role may not change status at all", func(t *testing.T) {
		o := newOccurrence(types.TypeNursing)
		err := model.Transition(o, types.StatusInAnalysis, staffActor, "", now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrUnauthorizedRole)).True()
	})
}

func TestSetTriage(t *testing.T) {
	now := time.Now().UTC()

	t.Run("set once by admin", func(t *testing.T) {
		o := newOccurrence(types.TypeExamReview)
		gt.NoError(t, model.SetTriage(o, types.TriageMedium, adminActor, now))
		gt.V(t, o.Triage).Equal(types.TriageMedium)

		err := model.SetTriage(o, types.TriageLow, adminActor, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrTriageAlreadySet)).True()
		gt.V(t, o.Triage).Equal(types.TriageMedium)
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		o := newOccurrence(types.TypeExamReview)
		err := model.SetTriage(o, types.TriageLow, staffActor, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrUnauthorizedRole)).True()
	})
}

func TestNextStatuses(t *testing.T) {
	now := time.Now().UTC()

	o := newOccurrence(types.TypeExamReview)
	gt.A(t, model.NextStatuses(o, adminActor)).Length(1).Has(types.StatusInAnalysis)
	gt.A(t, model.NextStatuses(o, staffActor)).Length(0)

	gt.NoError(t, model.Transition(o, types.StatusInAnalysis, adminActor, "", now))
	// forward closed until triage
	gt.A(t, model.NextStatuses(o, adminActor)).Length(0)
	gt.NoError(t, model.SetTriage(o, types.TriageLow, adminActor, now))
	gt.A(t, model.NextStatuses(o, adminActor)).Length(1).Has(types.StatusForwarded)
}
