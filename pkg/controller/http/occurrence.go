package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/domain/model/auth"
	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/usecase"
	"github.com/careops-lab/panacea/pkg/utils/errutil"
	"github.com/careops-lab/panacea/pkg/utils/safe"
)

const maxUploadSize = 32 << 20 // 32 MiB per multipart request

// actorFromRequest resolves the acting user injected by authMiddleware.
func actorFromRequest(r *http.Request) (model.ActorContext, error) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		return model.ActorContext{}, err
	}
	return usecase.ActorFromToken(token), nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrInvalidInput, "invalid request body", goerr.V("cause", err))
	}
	return nil
}

type createOccurrenceRequest struct {
	Type          string `json:"type"`
	Subtype       string `json:"subtype"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	RequestedItem string `json:"requested_item"`
	ApproverEmail string `json:"approver_email"`
}

func createOccurrenceHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req createOccurrenceRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		created, err := uc.Create(r.Context(), actor, usecase.CreateOccurrenceInput{
			Type:          types.OccurrenceType(req.Type),
			Subtype:       req.Subtype,
			Title:         req.Title,
			Description:   req.Description,
			RequestedItem: req.RequestedItem,
			ApproverEmail: req.ApproverEmail,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, toOccurrenceResponse(created))
	}
}

func listOccurrencesHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var opts []interfaces.ListOccurrenceOption
		q := r.URL.Query()
		if v := q.Get("type"); v != "" {
			t, err := types.ParseOccurrenceType(v)
			if err != nil {
				handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid type filter", goerr.V("type", v)))
				return
			}
			opts = append(opts, interfaces.WithType(t))
		}
		if v := q.Get("status"); v != "" {
			s, err := types.ParseStatus(v)
			if err != nil {
				handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid status filter", goerr.V("status", v)))
				return
			}
			opts = append(opts, interfaces.WithStatus(s))
		}
		if v := q.Get("created_by"); v != "" {
			opts = append(opts, interfaces.WithCreatedBy(types.UserID(v)))
		}

		results, err := uc.List(r.Context(), actor, opts...)
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := struct {
			Occurrences []occurrenceResponse `json:"occurrences"`
		}{Occurrences: make([]occurrenceResponse, 0, len(results))}
		for _, o := range results {
			resp.Occurrences = append(resp.Occurrences, toOccurrenceResponse(o))
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func getOccurrenceHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		// The path segment is either a UUID record ID or a human-readable
		// protocol number.
		key := chi.URLParam(r, "id")
		var o *model.Occurrence
		id := types.OccurrenceID(key)
		if id.Validate() == nil {
			o, err = uc.Get(r.Context(), actor, id)
		} else {
			o, err = uc.GetByProtocol(r.Context(), actor, types.Protocol(key))
		}
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(o))
	}
}

type updateOccurrenceRequest struct {
	Subtype     *string `json:"subtype"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func updateOccurrenceHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req updateOccurrenceRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.UpdateDetails(r.Context(), actor, id, usecase.UpdateDetailsInput{
			Subtype:     req.Subtype,
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

type triageRequest struct {
	Severity string `json:"severity"`
}

func triageHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req triageRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		severity, err := types.ParseTriageSeverity(req.Severity)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid triage severity", goerr.V("severity", req.Severity)))
			return
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.SetTriage(r.Context(), actor, id, severity)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func changeStatusHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req changeStatusRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		to, err := types.ParseStatus(req.Status)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid status", goerr.V("status", req.Status)))
			return
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.ChangeStatus(r.Context(), actor, id, to, req.Reason)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

func forwardHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.Forward(r.Context(), actor, id)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

type finalizeRequest struct {
	Tags          []string `json:"tags"`
	Primary       string   `json:"primary"`
	Justification string   `json:"justification"`

	ExternalNotification *struct {
		NotifiedParty     string    `json:"notified_party"`
		NotifiedAt        time.Time `json:"notified_at"`
		ResponsiblePerson string    `json:"responsible_person"`
	} `json:"external_notification"`

	CorrectiveActions []struct {
		Description string    `json:"description"`
		Responsible string    `json:"responsible"`
		DueAt       time.Time `json:"due_at"`
	} `json:"corrective_actions"`
}

func finalizeHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req finalizeRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		outcome := model.Outcome{
			Primary:       types.OutcomeTag(req.Primary),
			Justification: req.Justification,
		}
		for _, tag := range req.Tags {
			outcome.Tags = append(outcome.Tags, types.OutcomeTag(tag))
		}
		if req.ExternalNotification != nil {
			outcome.ExternalNotification = &model.ExternalNotification{
				NotifiedParty:     req.ExternalNotification.NotifiedParty,
				NotifiedAt:        req.ExternalNotification.NotifiedAt,
				ResponsiblePerson: req.ExternalNotification.ResponsiblePerson,
			}
		}
		for _, a := range req.CorrectiveActions {
			outcome.CorrectiveActions = append(outcome.CorrectiveActions, model.CorrectiveAction{
				Description: a.Description,
				Responsible: a.Responsible,
				DueAt:       a.DueAt,
			})
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.Finalize(r.Context(), actor, id, outcome)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

type finalizeNursingRequest struct {
	Note string `json:"note"`
}

func finalizeNursingHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req finalizeNursingRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.FinalizeNursing(r.Context(), actor, id, req.Note)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

// readFormFile pulls one uploaded file into memory.
func readFormFile(r *http.Request, fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open uploaded file", goerr.V("name", fh.Filename))
	}
	defer safe.Close(r.Context(), f)

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read uploaded file", goerr.V("name", fh.Filename))
	}
	return data, nil
}

func signaturesHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid multipart form", goerr.V("cause", err)))
			return
		}

		input := usecase.SignatureInput{}
		if files := r.MultipartForm.File["coordinator"]; len(files) > 0 {
			data, err := readFormFile(r, files[0])
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}
			input.CoordinatorImage = data
			input.ContentType = files[0].Header.Get("Content-Type")
		}
		if files := r.MultipartForm.File["employee"]; len(files) > 0 {
			data, err := readFormFile(r, files[0])
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}
			input.EmployeeImage = data
			if input.ContentType == "" {
				input.ContentType = files[0].Header.Get("Content-Type")
			}
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.CollectSignatures(r.Context(), actor, id, input)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}

func attachmentsHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid multipart form", goerr.V("cause", err)))
			return
		}

		var files []usecase.AttachmentInput
		for _, fh := range r.MultipartForm.File["files"] {
			data, err := readFormFile(r, fh)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}
			files = append(files, usecase.AttachmentInput{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		id := types.OccurrenceID(chi.URLParam(r, "id"))
		updated, err := uc.AddAttachments(r.Context(), actor, id, files)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponse(updated))
	}
}
