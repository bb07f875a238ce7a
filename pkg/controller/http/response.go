package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

// statusForError maps use case sentinels to HTTP status codes. Anything
// outside the taxonomy is an internal error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrCaseNotFound),
		errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrPlaybookNotFound),
		errors.Is(err, usecase.ErrCasePlaybookNotFound),
		errors.Is(err, usecase.ErrExecutionNotFound),
		errors.Is(err, usecase.ErrNotificationNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrCaseResolved),
		errors.Is(err, usecase.ErrPlaybookAlreadyAttached):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and renders the JSON error envelope.
func respondError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	errutil.LogHTTP(ctx, err, status)
	respondJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	respondError(ctx, w, statusForError(err), err)
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
