package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (h *Handler) GetAllTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repository.GetAllTeams()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched teams", teams)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team := &domain.Team{
		Name: req.Name,
	}

	if err := h.repository.CreateTeam(team); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "teams_name_key" {
			h.errorResponse(w, r, "a team with this name already exists")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "team created", team)
}

// GetTeamTasks lists the board of one team. Scoped callers only see teams in
// their descriptor.
func (h *Handler) GetTeamTasks(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	teamIDParam := chi.URLParam(r, "teamID")
	teamID, err := strconv.ParseInt(teamIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid team id")
		return
	}

	descriptor, err := h.descriptorFor(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !descriptor.CanAccessTeam(teamID) {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	tasks, err := h.repository.GetTasksByTeams([]int64{teamID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched team tasks", tasks)
}
