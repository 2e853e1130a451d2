package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/timeutil"
)

// longSessionThreshold flags sessions that were most likely left open by a
// forgotten clock-out.
const longSessionThreshold = 16 * time.Hour

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	entry := &domain.ClockEntry{
		WorkerID:  myInfo.ID,
		ClockInAt: time.Now(),
	}

	if err := h.repository.CreateClockEntry(entry); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyClockedIn):
			h.errorResponse(w, r, "already clocked in")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "clocked in", entry)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	entry, err := h.repository.GetActiveClockEntry(myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotClockedIn):
			h.errorResponse(w, r, "not clocked in")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	clockOutAt := time.Now()
	totalMinutes := timeutil.MinutesBetween(entry.ClockInAt, clockOutAt)

	if err := h.repository.CloseClockEntry(entry, clockOutAt, totalMinutes); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotClockedIn):
			h.errorResponse(w, r, "not clocked in")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if clockOutAt.Sub(entry.ClockInAt) >= longSessionThreshold {
		h.notifier.Notify(domain.Notification{
			Type:       domain.NotificationClockAnomaly,
			WorkerID:   myInfo.ID,
			Message:    fmt.Sprintf("session of %d minutes closed for %s, probable missed clock-out", totalMinutes, myInfo.Username),
			OccurredAt: clockOutAt,
		})
	}

	h.successResponse(w, r, "clocked out", entry)
}

// GetActiveClockEntry reports the caller's open session, data is null when
// the caller is not clocked in. This is the ledger signal, distinct from the
// heartbeat-derived presence status.
func (h *Handler) GetActiveClockEntry(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	entry, err := h.repository.GetActiveClockEntry(myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotClockedIn):
			h.successResponse(w, r, "not clocked in", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "clocked in", entry)
}

func (h *Handler) GetClockEntries(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	from, to, err := parseDateRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	entries, err := h.repository.GetClockEntries(myInfo.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched clock entries", entries)
}

func (h *Handler) GetAllClockEntries(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	entries, err := h.repository.GetAllClockEntries(from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched clock entries", entries)
}

// parseDateRange reads optional from/to query parameters as calendar dates.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		from = &parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		to = &parsed
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errors.New("to date is before from date")
	}

	return from, to, nil
}
