package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/types"
)

type AttachmentInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// AddAttachments uploads files one by one and appends them to the record.
// Uploads are sequential; if one fails, the files uploaded so far are kept on
// the record and the error identifies the failed file. There is no cleanup of
// already-stored blobs.
func (uc *OccurrenceUseCase) AddAttachments(ctx context.Context, actor model.ActorContext, id types.OccurrenceID, files []AttachmentInput) (*model.Occurrence, error) {
	if uc.storage == nil {
		return nil, goerr.New("blob storage is not configured")
	}
	if len(files) == 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "no files to attach")
	}

	o, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if o.Status.IsTerminal() {
		return nil, goerr.Wrap(model.ErrAlreadyConcluded, "concluded occurrences are read-only",
			goerr.V(OccurrenceIDKey, id))
	}

	var uploadErr error
	now := uc.now().UTC()
	for i, f := range files {
		if f.Name == "" {
			uploadErr = goerr.Wrap(ErrInvalidInput, "attachment name is required", goerr.V("index", i))
			break
		}

		// A random segment keeps same-named uploads from overwriting each
		// other's blob
		path := fmt.Sprintf("occurrences/%s/attachments/%s/%s", id, uuid.New().String(), f.Name)
		url, err := uc.storage.Put(ctx, path, f.ContentType, f.Data)
		if err != nil {
			uploadErr = goerr.Wrap(ErrSaveFailed, "failed to upload attachment",
				goerr.V(OccurrenceIDKey, id), goerr.V("name", f.Name), goerr.V("cause", err))
			break
		}

		o.Attachments = append(o.Attachments, model.Attachment{
			Name:        f.Name,
			StoragePath: url,
			ContentType: f.ContentType,
			UploadedBy:  actor.UserID,
			UploadedAt:  now,
		})
	}

	updated, err := uc.repo.Occurrence().Update(ctx, o)
	if err != nil {
		return nil, goerr.Wrap(ErrSaveFailed, "failed to save attachments",
			goerr.V(OccurrenceIDKey, id), goerr.V("cause", err))
	}
	if uploadErr != nil {
		return updated, uploadErr
	}
	return updated, nil
}
