package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

const defaultScreenshotLimit = 50

// CreateScreenshot accepts an uploaded frame from the caller's capture
// agent. Uploads are attributed to the session, never to a body field, and
// late uploads from an already-ended capture run are accepted as long as the
// session cookie is still valid.
func (h *Handler) CreateScreenshot(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		Image      string    `json:"image" validate:"required"` // base64 encoded PNG
		CapturedAt time.Time `json:"capturedAt" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		h.errorResponse(w, r, "image is not valid base64")
		return
	}

	path, err := h.screenshots.Save(r.Context(), myInfo.ID, image)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	screenshot := &domain.Screenshot{
		WorkerID:   myInfo.ID,
		ImagePath:  path,
		CapturedAt: req.CapturedAt,
	}

	if err := h.repository.CreateScreenshot(screenshot); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "screenshot stored", screenshot)
}

func (h *Handler) ListScreenshots(w http.ResponseWriter, r *http.Request) {
	var workerID *int64
	if raw := r.URL.Query().Get("workerId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid worker id")
			return
		}
		workerID = &parsed
	}

	limit := defaultScreenshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.errorResponse(w, r, "invalid limit")
			return
		}
		limit = parsed
	}

	screenshots, err := h.repository.GetScreenshots(workerID, limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched screenshots", screenshots)
}

// PurgeScreenshots deletes captures older than the retention window, rows
// first and blobs after. A blob that fails to delete is logged by the caller
// reading the response count mismatch, not rolled back.
func (h *Handler) PurgeScreenshots(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().AddDate(0, 0, -h.config.Capture.RetentionDays)

	paths, err := h.repository.PurgeScreenshotsBefore(cutoff)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	removed := 0
	for _, path := range paths {
		if err := h.screenshots.Remove(path); err == nil {
			removed++
		}
	}

	h.successResponse(w, r, "purged screenshots", map[string]int{
		"deletedRows":  len(paths),
		"removedBlobs": removed,
	})
}
