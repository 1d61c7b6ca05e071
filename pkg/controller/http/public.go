package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/usecase"
)

// publicStateResponse is the reduced view served to token holders. The public
// flow never exposes internal workflow detail beyond what the confirmation
// page needs.
type publicStateResponse struct {
	Protocol      string `json:"protocol"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	RequestedItem string `json:"requested_item,omitempty"`
	Confirmed     bool   `json:"confirmed"`
}

func toPublicStateResponse(o *model.Occurrence) publicStateResponse {
	return publicStateResponse{
		Protocol:      o.Protocol.String(),
		Type:          o.Type.String(),
		Title:         o.Title,
		Status:        o.Status.String(),
		RequestedItem: o.RequestedItem,
		Confirmed:     o.ConfirmedAt != nil,
	}
}

// resolveConfirmationHandler renders the state behind a confirmation key. The
// key is either the confirmation token or the protocol number.
func resolveConfirmationHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		o, err := uc.ResolveConfirmation(r.Context(), key)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toPublicStateResponse(o))
	}
}

type confirmRequest struct {
	ConfirmedBy string `json:"confirmed_by"`
}

// confirmHandler consumes the confirmation key. Repeat attempts after a
// completed confirmation are rejected with a conflict.
func confirmHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		var req confirmRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.ConfirmedBy == "" {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "confirmed_by is required"))
			return
		}

		updated, err := uc.Confirm(r.Context(), key, req.ConfirmedBy)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toPublicStateResponse(updated))
	}
}

type opinionRequest struct {
	Opinion  string `json:"opinion"`
	Reviewer string `json:"reviewer"`
}

// submitOpinionHandler records the external reviewer's opinion on an exam
// review. The record is not concluded by this call.
func submitOpinionHandler(uc *usecase.OccurrenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		var req opinionRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.Reviewer == "" {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "reviewer is required"))
			return
		}

		updated, err := uc.SubmitOpinion(r.Context(), key, req.Opinion, req.Reviewer)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toPublicStateResponse(updated))
	}
}
