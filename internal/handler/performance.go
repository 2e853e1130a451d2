package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/performance"
)

type weeklyPerformanceResponse struct {
	*performance.WeeklyReport
	TasksDone         int `json:"tasksDone"`
	TasksTotal        int `json:"tasksTotal"`
	CompletionPercent int `json:"completionPercent"`
}

// GetWeeklyPerformance reports the Monday-to-Sunday breakdown for the caller
// or, with ?workerId, for another worker the caller is allowed to view.
func (h *Handler) GetWeeklyPerformance(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	subjectID := myInfo.ID
	if raw := r.URL.Query().Get("workerId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid worker id")
			return
		}
		subjectID = parsed
	}

	descriptor, err := h.descriptorFor(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if subjectID != myInfo.ID {
		subject, err := h.repository.GetWorkerByID(subjectID)
		if err != nil {
			h.errorResponse(w, r, "worker not found")
			return
		}
		if !descriptor.CanViewWorker(myInfo.ID, subject) {
			h.errorResponse(w, r, domain.ErrForbidden.Error())
			return
		}
	}

	report, err := h.aggregator.WeeklyBreakdown(subjectID, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	done, total, err := h.aggregator.TaskCompletion(descriptor, &subjectID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched weekly performance", weeklyPerformanceResponse{
		WeeklyReport:      report,
		TasksDone:         done,
		TasksTotal:        total,
		CompletionPercent: performance.CompletionRatio(done, total),
	})
}

// GetAdminPerformance is the full roll-up over every active worker.
func (h *Handler) GetAdminPerformance(w http.ResponseWriter, r *http.Request) {
	teamIDs, err := h.repository.GetAllTeamIDs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report, err := h.aggregator.AdminReport(teamIDs, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched performance report", report)
}
