package handler

import (
	"net/http"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/presence"
)

// UpsertHeartbeat records the caller's liveness pointer. Workers can only
// ever report for themselves; the worker id comes from the session, not the
// request body.
func (h *Handler) UpsertHeartbeat(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		AppName     string `json:"appName"`
		WindowTitle string `json:"windowTitle"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.presenceStore.Upsert(r.Context(), myInfo.ID, req.AppName, req.WindowTitle, time.Now()); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "heartbeat recorded", nil)
}

type workerPresence struct {
	Worker *domain.Worker        `json:"worker"`
	Status domain.PresenceStatus `json:"status"`
	// Heartbeat is null for workers that never reported.
	Heartbeat *domain.Heartbeat `json:"heartbeat"`
}

// ListHeartbeats returns every worker with a classified presence status.
// Workers without any stored heartbeat appear as unknown rather than being
// dropped from the listing.
func (h *Handler) ListHeartbeats(w http.ResponseWriter, r *http.Request) {
	workers, err := h.repository.GetAllWorkers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	heartbeats, err := h.presenceStore.List(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	byWorker := make(map[int64]*domain.Heartbeat, len(heartbeats))
	for _, hb := range heartbeats {
		byWorker[hb.WorkerID] = hb
	}

	threshold := time.Duration(h.config.Presence.ActiveThreshold) * time.Second
	now := time.Now()

	result := make([]workerPresence, 0, len(workers))
	for _, worker := range workers {
		hb := byWorker[worker.ID]
		result = append(result, workerPresence{
			Worker:    worker,
			Status:    presence.Classify(hb, now, threshold),
			Heartbeat: hb,
		})
	}

	h.successResponse(w, r, "fetched presence", result)
}
