package http

import (
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

type createTaskRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assignedTo"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func createTaskHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req createTaskRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		created, err := uc.CreateTask(r.Context(), caseID, req.Name, req.Description,
			req.AssignedTo, types.TaskPriority(req.Priority), req.DueDate)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func listTasksHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := parseID(r, "caseID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		tasks, err := uc.ListTasksByCase(r.Context(), caseID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, tasks)
	}
}

func getTaskHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "taskID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		task, err := uc.GetTask(r.Context(), id)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, task)
	}
}

type updateTaskRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	AssignedTo   *string    `json:"assignedTo"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	Status       *string    `json:"status"`
	Result       *string    `json:"result"`
	Comment      *string    `json:"comment"`
}

func updateTaskHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "taskID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req updateTaskRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		input := usecase.UpdateTaskInput{
			Name:         req.Name,
			Description:  req.Description,
			AssignedTo:   req.AssignedTo,
			DueDate:      req.DueDate,
			ClearDueDate: req.ClearDueDate,
			Comment:      req.Comment,
		}
		if req.Priority != nil {
			priority := types.TaskPriority(*req.Priority)
			input.Priority = &priority
		}
		if req.Status != nil {
			status := types.TaskStatus(*req.Status)
			input.Status = &status
		}
		if req.Result != nil {
			result := types.TaskResult(*req.Result)
			input.Result = &result
		}

		updated, err := uc.UpdateTask(r.Context(), id, input)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, updated)
	}
}

type closeTaskRequest struct {
	Result  string `json:"result"`
	Comment string `json:"comment"`
}

func closeTaskHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "taskID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		var req closeTaskRequest
		if err := decodeBody(r, &req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid request body"))
			return
		}

		closed, err := uc.CloseTask(r.Context(), id, types.TaskResult(req.Result), req.Comment)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, closed)
	}
}

func deleteTaskHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "taskID")
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		if err := uc.DeleteTask(r.Context(), id); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
