package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

type playbookRequest struct {
	Name  string               `json:"name"`
	Steps []model.PlaybookStep `json:"steps"`
}

func createPlaybookHandler(uc *usecase.PlaybookUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playbookRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		created, err := uc.CreatePlaybook(r.Context(), req.Name, req.Steps)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func listPlaybooksHandler(uc *usecase.PlaybookUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playbooks, err := uc.ListPlaybooks(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, playbooks)
	}
}

func getPlaybookHandler(uc *usecase.PlaybookUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "playbookID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		playbook, err := uc.GetPlaybook(r.Context(), id)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, playbook)
	}
}

func updatePlaybookHandler(uc *usecase.PlaybookUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "playbookID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req playbookRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		updated, err := uc.UpdatePlaybook(r.Context(), id, req.Name, req.Steps)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, updated)
	}
}
