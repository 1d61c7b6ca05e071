package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
	"github.com/careops-lab/panacea/pkg/usecase"
)

func createFacility(t *testing.T, e *env) *model.Occurrence {
	t.Helper()
	return gt.R1(e.uc.Occurrence.Create(context.Background(), staffActor, usecase.CreateOccurrenceInput{
		Type:          types.TypeFacility,
		Title:         "supply request: gloves",
		RequestedItem: "nitrile gloves, 10 boxes",
		ApproverEmail: "approver@hospital.example",
	})).NoError(t)
}

func TestResolveConfirmation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createFacility(t, e)

	t.Run("by token", func(t *testing.T) {
		got := gt.R1(e.uc.Occurrence.ResolveConfirmation(ctx, o.ConfirmationToken)).NoError(t)
		gt.V(t, got.ID).Equal(o.ID)
	})

	t.Run("by protocol", func(t *testing.T) {
		got := gt.R1(e.uc.Occurrence.ResolveConfirmation(ctx, string(o.Protocol))).NoError(t)
		gt.V(t, got.ID).Equal(o.ID)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := e.uc.Occurrence.ResolveConfirmation(ctx, "no-such-key")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrConfirmationNotFound))
	})
}

func TestConfirmRejectsNonPublicType(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	o := gt.R1(e.uc.Occurrence.Create(ctx, staffActor, usecase.CreateOccurrenceInput{
		Type:  types.TypeNursing,
		Title: "medication near miss",
	})).NoError(t)
	gt.V(t, o.ConfirmationToken).Equal("")

	// The protocol alone must not open the public flow on a record that
	// never minted a token
	_, err := e.uc.Occurrence.Confirm(ctx, string(o.Protocol), "anonymous stranger")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrConfirmationNotFound))

	_, err = e.uc.Occurrence.ResolveConfirmation(ctx, string(o.Protocol))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrConfirmationNotFound))

	stored := gt.R1(e.uc.Occurrence.Get(ctx, adminActor, o.ID)).NoError(t)
	gt.False(t, stored.IsConfirmed())
	gt.V(t, stored.ConfirmedBy).Equal("")
}

func TestConfirmIdempotence(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createFacility(t, e)

	confirmed := gt.R1(e.uc.Occurrence.Confirm(ctx, o.ConfirmationToken, "gate guard")).NoError(t)
	gt.True(t, confirmed.IsConfirmed())
	gt.V(t, confirmed.Status).Equal(types.StatusConcluded)
	gt.V(t, confirmed.ConfirmedBy).Equal("gate guard")
	gt.False(t, confirmed.HasPendingRequest())

	e.recorder.waitKind(t, notify.KindConfirmationCompleted, 1)

	// Second invocation reports already completed and fires no second event
	_, err := e.uc.Occurrence.Confirm(ctx, o.ConfirmationToken, "someone else")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrAlreadyCompleted))

	time.Sleep(100 * time.Millisecond)
	gt.N(t, e.recorder.countKind(notify.KindConfirmationCompleted)).Equal(1)

	// State is unchanged by the replay
	stored := gt.R1(e.uc.Occurrence.Get(ctx, adminActor, o.ID)).NoError(t)
	gt.V(t, stored.ConfirmedBy).Equal("gate guard")
}

func TestConfirmExpiry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createFacility(t, e)

	// Advance past the TTL; strictly-after rejection
	e.now = e.now.Add(7*24*time.Hour + time.Second)
	_, err := e.uc.Occurrence.Confirm(ctx, o.ConfirmationToken, "late visitor")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrLinkExpired))

	// Expiry moment itself is still accepted
	e.now = e.now.Add(-time.Second)
	gt.R1(e.uc.Occurrence.Confirm(ctx, o.ConfirmationToken, "on-time visitor")).NoError(t)
}

func TestSubmitOpinion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	exam := createExamReview(t, e)

	got := gt.R1(e.uc.Occurrence.SubmitOpinion(ctx, exam.ConfirmationToken, "no abnormality found", "dr. silva")).NoError(t)
	gt.V(t, got.DoctorOpinion).Equal("no abnormality found")
	gt.V(t, got.OpinionBy).Equal("dr. silva")
	gt.True(t, got.IsConfirmed())
	// Opinion does not conclude the record
	gt.V(t, got.Status).Equal(types.StatusRegistered)

	e.recorder.waitKind(t, notify.KindOpinionSubmitted, 1)

	// Token is consumed
	_, err := e.uc.Occurrence.SubmitOpinion(ctx, exam.ConfirmationToken, "second thoughts", "dr. silva")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrAlreadyCompleted))
}

func TestSubmitOpinionWrongType(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createFacility(t, e)

	_, err := e.uc.Occurrence.SubmitOpinion(ctx, o.ConfirmationToken, "opinion", "dr. silva")
	gt.Error(t, err)
}
