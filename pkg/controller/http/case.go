package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func parseID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrValidation, "invalid ID", goerr.V(key, raw))
	}
	return id, nil
}

type createCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	AssignedTo  string `json:"assignedTo"`
}

func createCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCaseRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		created, err := uc.CreateCase(r.Context(), req.Title, req.Description,
			types.Severity(req.Severity), req.AssignedTo)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func listCasesHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := uc.ListCases(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, cases)
	}
}

func getCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		caseModel, err := uc.GetCase(r.Context(), id)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, caseModel)
	}
}

type updateCaseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	AssignedTo  *string `json:"assignedTo"`
}

func updateCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req updateCaseRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		input := usecase.UpdateCaseInput{
			Title:       req.Title,
			Description: req.Description,
			AssignedTo:  req.AssignedTo,
		}
		if req.Severity != nil {
			sev := types.Severity(*req.Severity)
			input.Severity = &sev
		}

		updated, err := uc.UpdateCase(r.Context(), id, input)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func deleteCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		if err := uc.DeleteCase(r.Context(), id); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

type resolveCaseRequest struct {
	ResolutionSummary string `json:"resolutionSummary"`
}

func resolveCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req resolveCaseRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		resolved, err := uc.ResolveCase(r.Context(), id, req.ResolutionSummary)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, resolved)
	}
}

func reopenCaseHandler(uc *usecase.CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		reopened, err := uc.ReopenCase(r.Context(), id)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, reopened)
	}
}
