package http

import (
	"errors"
	"net/http"

	"github.com/careops-lab/panacea/pkg/domain/model"
	"github.com/careops-lab/panacea/pkg/usecase"
	"github.com/careops-lab/panacea/pkg/utils/errutil"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// statusForError maps domain and use case errors to HTTP status codes.
// Validation failures are 400, authorization 403, unknown records 404,
// workflow conflicts 409, expired public links 410. Backend write failures
// stay 500 and the response body never leaks storage details.
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, model.ErrTriageRequired),
		errors.Is(err, model.ErrOutcomeEmpty),
		errors.Is(err, model.ErrOutcomePrimaryNotInSet),
		errors.Is(err, model.ErrNotificationIncomplete),
		errors.Is(err, model.ErrCorrectiveActionRequired),
		errors.Is(err, model.ErrBothSignaturesRequired):
		return http.StatusBadRequest

	case errors.Is(err, model.ErrUnauthorizedRole):
		return http.StatusForbidden

	case errors.Is(err, usecase.ErrOccurrenceNotFound),
		errors.Is(err, model.ErrConfirmationNotFound):
		return http.StatusNotFound

	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrAlreadyConcluded),
		errors.Is(err, model.ErrTriageAlreadySet),
		errors.Is(err, model.ErrOutcomeAlreadySet),
		errors.Is(err, model.ErrAlreadyCompleted):
		return http.StatusConflict

	case errors.Is(err, model.ErrLinkExpired):
		return http.StatusGone

	default:
		return http.StatusInternalServerError
	}
}

// handleError writes a JSON error response for a failed use case call.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		// Server-side failures are reported but not exposed
		errutil.Handle(r.Context(), err, "request failed") //nolint:errcheck // logged and captured
		if errors.Is(err, usecase.ErrSaveFailed) {
			msg = "save failed"
		} else {
			msg = "internal server error"
		}
	} else {
		logging.From(r.Context()).Warn("request rejected",
			"status", status,
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}

	writeJSON(r.Context(), w, status, errorResponse{Error: msg})
}
