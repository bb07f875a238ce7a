package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func parseIndex(r *http.Request, key string) (int, error) {
	raw := chi.URLParam(r, key)
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrValidation, "invalid index", goerr.V(key, raw))
	}
	return idx, nil
}

type attachPlaybookRequest struct {
	PlaybookID int64 `json:"playbookId"`
}

func attachPlaybookHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req attachPlaybookRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		detail, err := uc.AttachPlaybook(r.Context(), caseID, req.PlaybookID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusCreated, detail)
	}
}

func listCasePlaybooksHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		details, err := uc.ListCasePlaybooks(r.Context(), caseID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, details)
	}
}

func detachPlaybookHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		casePlaybookID := model.CasePlaybookID(chi.URLParam(r, "casePlaybookID"))
		if err := uc.DetachPlaybook(r.Context(), caseID, casePlaybookID); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

type executionResponse struct {
	Execution *model.PlaybookExecution `json:"execution"`
	Playbook  *model.Playbook          `json:"playbook"`
}

func getExecutionHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		executionID := model.ExecutionID(chi.URLParam(r, "executionID"))
		execution, playbook, err := uc.GetExecution(r.Context(), caseID, executionID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, executionResponse{
			Execution: execution,
			Playbook:  playbook,
		})
	}
}

func advanceStepHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		executionID := model.ExecutionID(chi.URLParam(r, "executionID"))
		execution, err := uc.AdvanceStep(r.Context(), caseID, executionID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, execution)
	}
}

func retreatStepHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		executionID := model.ExecutionID(chi.URLParam(r, "executionID"))
		execution, err := uc.RetreatStep(r.Context(), caseID, executionID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, execution)
	}
}

func completeExecutionHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		executionID := model.ExecutionID(chi.URLParam(r, "executionID"))
		execution, err := uc.CompleteExecution(r.Context(), caseID, executionID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, execution)
	}
}

type stepCommentRequest struct {
	Comment string `json:"comment"`
}

func setStepCommentHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		stepIndex, err := parseIndex(r, "stepIndex")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req stepCommentRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		executionID := model.ExecutionID(chi.URLParam(r, "executionID"))
		execution, err := uc.SetStepComment(r.Context(), caseID, executionID, stepIndex, req.Comment)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, execution)
	}
}

func toggleChecklistItemHandler(uc *usecase.ExecutionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		stepIndex, err := parseIndex(r, "stepIndex")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		itemIndex, err := parseIndex(r, "itemIndex")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		executionID := model.ExecutionID(chi.URLParam(r, "executionID"))
		execution, err := uc.ToggleChecklistItem(r.Context(), caseID, executionID, stepIndex, itemIndex)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, execution)
	}
}
