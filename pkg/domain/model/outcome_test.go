package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func completeNotification() *model.ExternalNotification {
	return &model.ExternalNotification{
		NotifiedParty:     "State Health Board",
		NotifiedAt:        time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		ResponsiblePerson: "Dr. Ferreira",
	}
}

func TestValidateOutcome_CAPARequirement(t *testing.T) {
	o := newOccurrence(types.TypeNursing)

	t.Run("CAPA-flagged tag with zero entries fails", func(t *testing.T) {
		err := model.ValidateOutcome(o, model.Outcome{
			Tags:    []types.OutcomeTag{types.OutcomeProcessFailure},
			Primary: types.OutcomeProcessFailure,
		}, adminActor)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrCorrectiveActionRequired)).True()
	})

	t.Run("CAPA-flagged tag with one entry succeeds", func(t *testing.T) {
		err := model.ValidateOutcome(o, model.Outcome{
			Tags:    []types.OutcomeTag{types.OutcomeProcessFailure},
			Primary: types.OutcomeProcessFailure,
			CorrectiveActions: []model.CorrectiveAction{
				{Description: "retrain triage staff", Responsible: "Nursing lead"},
			},
		}, adminActor)
		gt.NoError(t, err)
	})
}

func TestValidateOutcome_NotificationRequirement(t *testing.T) {
	o := newOccurrence(types.TypeNursing)
	tags := []types.OutcomeTag{types.OutcomeRegulatoryNotify}

	t.Run("missing sub-record fails", func(t *testing.T) {
		err := model.ValidateOutcome(o, model.Outcome{Tags: tags, Primary: tags[0]}, adminActor)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrNotificationIncomplete)).True()
	})

	t.Run("any blank field fails", func(t *testing.T) {
		n := completeNotification()
		n.ResponsiblePerson = ""
		err := model.ValidateOutcome(o, model.Outcome{
			Tags: tags, Primary: tags[0], ExternalNotification: n,
		}, adminActor)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrNotificationIncomplete)).True()
	})

	t.Run("all three fields populated succeeds", func(t *testing.T) {
		err := model.ValidateOutcome(o, model.Outcome{
			Tags: tags, Primary: tags[0], ExternalNotification: completeNotification(),
		}, adminActor)
		gt.NoError(t, err)
	})
}

func TestValidateOutcome_PrimaryMustBeSelected(t *testing.T) {
	o := newOccurrence(types.TypeNursing)
	err := model.ValidateOutcome(o, model.Outcome{
		Tags:    []types.OutcomeTag{types.OutcomeNoAction},
		Primary: types.OutcomeGuidance,
	}, adminActor)
	gt.Error(t, err)
	gt.B(t, errors.Is(err, model.ErrOutcomePrimaryNotInSet)).True()
}

func TestValidateOutcome_Authorization(t *testing.T) {
	o := newOccurrence(types.TypeNursing)
	err := model.ValidateOutcome(o, model.Outcome{
		Tags:    []types.OutcomeTag{types.OutcomeNoAction},
		Primary: types.OutcomeNoAction,
	}, staffActor)
	gt.Error(t, err)
	gt.B(t, errors.Is(err, model.ErrUnauthorizedRole)).True()
}

func TestApplyOutcome(t *testing.T) {
	now := time.Now().UTC()
	o := newOccurrence(types.TypeNursing)

	outcome := model.Outcome{
		Tags:          []types.OutcomeTag{types.OutcomeSentinelEvent},
		Primary:       types.OutcomeSentinelEvent,
		Justification: "patient fall with injury",
		ExternalNotification: completeNotification(),
		CorrectiveActions: []model.CorrectiveAction{
			{Description: "install bed rails", Responsible: "Facilities"},
		},
	}
	gt.NoError(t, model.ApplyOutcome(o, outcome, adminActor, now))

	gt.A(t, o.OutcomeTags).Length(1).Has(types.OutcomeSentinelEvent)
	gt.V(t, o.OutcomePrimary).Equal(types.OutcomeSentinelEvent)
	gt.V(t, o.ExternalNotification.NotifiedParty).Equal("State Health Board")

	t.Run("outcome is set once", func(t *testing.T) {
		err := model.ApplyOutcome(o, outcome, adminActor, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrOutcomeAlreadySet)).True()
	})
}
