package handler

import (
	"net/http"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		Title string `json:"title" validate:"required"`
		Body  string `json:"body"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note := &domain.Note{
		WorkerID: myInfo.ID,
		Title:    req.Title,
		Body:     req.Body,
	}

	if err := h.repository.CreateNote(note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "note created", note)
}

func (h *Handler) GetMyNotes(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	notes, err := h.repository.GetNotesByWorker(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched notes", notes)
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note := r.Context().Value(NoteCtx).(*domain.Note)
	h.successResponse(w, r, "fetched note", note)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	note := r.Context().Value(NoteCtx).(*domain.Note)

	var req struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Body != nil {
		note.Body = *req.Body
	}

	if err := h.repository.UpdateNote(note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "note updated", note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	note := r.Context().Value(NoteCtx).(*domain.Note)

	if err := h.repository.DeleteNote(note.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "note deleted", nil)
}
