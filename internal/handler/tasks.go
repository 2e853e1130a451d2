package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID      int64  `json:"teamId" validate:"required"`
		AssigneeID  *int64 `json:"assigneeId"`
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	task := &domain.Task{
		TeamID:      req.TeamID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatusTodo,
	}

	if err := h.repository.CreateTask(task); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "tasks_team_id_fkey":
				h.errorResponse(w, r, "team does not exist")
			case "tasks_assignee_id_fkey":
				h.errorResponse(w, r, "assignee does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "task created", task)
}

// UpdateTaskStatus moves a task on the board. Scoped callers can only touch
// tasks on teams within their descriptor.
func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)
	task := r.Context().Value(TaskCtx).(*domain.Task)

	var req struct {
		Status string `json:"status" validate:"required,oneof=todo in_progress review done"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	descriptor, err := h.descriptorFor(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !descriptor.CanAccessTeam(task.TeamID) {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	if err := h.repository.UpdateTaskStatus(task, domain.TaskStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "task was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "task status updated", task)
}
