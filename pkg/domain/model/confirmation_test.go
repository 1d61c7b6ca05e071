package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func newConfirmable(expiresIn time.Duration, now time.Time) *model.Occurrence {
	o := newOccurrence(types.TypeFacility)
	o.ConfirmationToken = "tok-12345"
	expiresAt := now.Add(expiresIn)
	o.ConfirmationExpiresAt = &expiresAt
	return o
}

func TestValidateConfirmation_ExpiryBoundary(t *testing.T) {
	now := time.Now().UTC()

	t.Run("expiry one second in the past is rejected", func(t *testing.T) {
		o := newConfirmable(-time.Second, now)
		err := model.ValidateConfirmation(o, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrLinkExpired)).True()
	})

	t.Run("expiry one second in the future is accepted", func(t *testing.T) {
		o := newConfirmable(time.Second, now)
		gt.NoError(t, model.ValidateConfirmation(o, now))
	})

	t.Run("expiry exactly now is still accepted", func(t *testing.T) {
		o := newConfirmable(0, now)
		gt.NoError(t, model.ValidateConfirmation(o, now))
	})
}

func TestValidateConfirmation_MissingRecord(t *testing.T) {
	err := model.ValidateConfirmation(nil, time.Now().UTC())
	gt.Error(t, err)
	gt.B(t, errors.Is(err, model.ErrConfirmationNotFound)).True()
}

func TestValidateConfirmation_NonPublicType(t *testing.T) {
	now := time.Now().UTC()

	t.Run("type without public flow looks like a missing record", func(t *testing.T) {
		o := newOccurrence(types.TypeNursing)
		err := model.ValidateConfirmation(o, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrConfirmationNotFound)).True()
	})

	t.Run("public type with an empty token is rejected too", func(t *testing.T) {
		o := newOccurrence(types.TypeFacility)
		o.ConfirmationToken = ""
		err := model.ValidateConfirmation(o, now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrConfirmationNotFound)).True()
	})
}

func TestApplyConfirmation(t *testing.T) {
	now := time.Now().UTC()

	t.Run("consumes once and concludes facility record", func(t *testing.T) {
		o := newConfirmable(time.Hour, now)
		gt.NoError(t, model.ApplyConfirmation(o, "visitor@example.com", now))

		gt.B(t, o.IsConfirmed()).True()
		gt.V(t, o.ConfirmedBy).Equal("visitor@example.com")
		gt.V(t, o.Status).Equal(types.StatusConcluded)
		gt.A(t, o.StatusHistory).Length(1)
		gt.V(t, o.StatusHistory[0].To).Equal(types.StatusConcluded)
	})

	t.Run("replay is rejected idempotently", func(t *testing.T) {
		o := newConfirmable(time.Hour, now)
		gt.NoError(t, model.ApplyConfirmation(o, "first", now))

		err := model.ApplyConfirmation(o, "second", now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrAlreadyCompleted)).True()
		gt.V(t, o.ConfirmedBy).Equal("first")
		gt.A(t, o.StatusHistory).Length(1)
	})

	t.Run("expired token stays invalid even unconsumed", func(t *testing.T) {
		o := newConfirmable(-time.Minute, now)
		err := model.ApplyConfirmation(o, "late", now)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, model.ErrLinkExpired)).True()
		gt.B(t, o.IsConfirmed()).False()
	})
}
