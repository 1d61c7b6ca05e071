package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/usecase"
)

func createAdministrative(t *testing.T, e *env) *model.Occurrence {
	t.Helper()
	return gt.R1(e.uc.Occurrence.Create(context.Background(), staffActor, usecase.CreateOccurrenceInput{
		Type:  types.TypeAdministrative,
		Title: "vacation form dispute",
	})).NoError(t)
}

func TestCollectSignatures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createAdministrative(t, e)

	signed := gt.R1(e.uc.Occurrence.CollectSignatures(ctx, adminActor, o.ID, usecase.SignatureInput{
		CoordinatorImage: []byte("coordinator-png"),
		EmployeeImage:    []byte("employee-png"),
	})).NoError(t)

	gt.V(t, signed.Status).Equal(types.StatusConcluded)
	gt.True(t, signed.IsSigned())
	gt.True(t, signed.SignedAt != nil)
	gt.N(t, e.storage.Len()).Equal(2)

	// At-most-once gate
	_, err := e.uc.Occurrence.CollectSignatures(ctx, adminActor, o.ID, usecase.SignatureInput{
		CoordinatorImage: []byte("x"),
		EmployeeImage:    []byte("y"),
	})
	gt.Error(t, err)
}

func TestCollectSignaturesRequiresBoth(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createAdministrative(t, e)

	_, err := e.uc.Occurrence.CollectSignatures(ctx, adminActor, o.ID, usecase.SignatureInput{
		CoordinatorImage: []byte("only one"),
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrBothSignaturesRequired))

	// Rejection leaves the record pending and uploads nothing
	stored := gt.R1(e.uc.Occurrence.Get(ctx, adminActor, o.ID)).NoError(t)
	gt.V(t, stored.Status).Equal(types.StatusPending)
	gt.N(t, e.storage.Len()).Equal(0)
}

func TestAddAttachments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createAdministrative(t, e)

	updated := gt.R1(e.uc.Occurrence.AddAttachments(ctx, staffActor, o.ID, []usecase.AttachmentInput{
		{Name: "form.pdf", ContentType: "application/pdf", Data: []byte("%PDF-")},
		{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}},
	})).NoError(t)

	gt.A(t, updated.Attachments).Length(2)
	gt.V(t, updated.Attachments[0].Name).Equal("form.pdf")
	gt.N(t, e.storage.Len()).Equal(2)
}

func TestAddAttachmentsSameName(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createAdministrative(t, e)

	// Two uploads of the same filename must not share a blob
	updated := gt.R1(e.uc.Occurrence.AddAttachments(ctx, staffActor, o.ID, []usecase.AttachmentInput{
		{Name: "form.pdf", ContentType: "application/pdf", Data: []byte("v1")},
		{Name: "form.pdf", ContentType: "application/pdf", Data: []byte("v2")},
	})).NoError(t)

	gt.A(t, updated.Attachments).Length(2)
	gt.V(t, updated.Attachments[0].StoragePath).NotEqual(updated.Attachments[1].StoragePath)
	gt.N(t, e.storage.Len()).Equal(2)
}

func TestAddAttachmentsPartialFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	o := createAdministrative(t, e)

	// Second file has no name; the first stays attached
	updated, err := e.uc.Occurrence.AddAttachments(ctx, staffActor, o.ID, []usecase.AttachmentInput{
		{Name: "kept.pdf", ContentType: "application/pdf", Data: []byte("%PDF-")},
		{ContentType: "image/jpeg", Data: []byte{0xFF}},
	})
	gt.Error(t, err)
	gt.A(t, updated.Attachments).Length(1)
	gt.V(t, updated.Attachments[0].Name).Equal("kept.pdf")
}

func TestCollectSignaturesWithoutStorage(t *testing.T) {
	repo := newEnv(t).repo
	uc := usecase.New(repo)

	_, err := uc.Occurrence.CollectSignatures(context.Background(), adminActor, types.NewOccurrenceID(), usecase.SignatureInput{
		CoordinatorImage: []byte("a"),
		EmployeeImage:    []byte("b"),
	})
	gt.Error(t, err)
}
