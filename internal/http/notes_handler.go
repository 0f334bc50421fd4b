package httpapi

import (
	"net/http"
	"strings"

	"roster-data/internal/domain"
	"roster-data/internal/repository"

	"go.uber.org/zap"
)

// NotesHandler is plain CRUD over user annotations.
type NotesHandler struct {
	notes  repository.NotesRepo
	logger *zap.Logger
}

func NewNotesHandler(notes repository.NotesRepo, logger *zap.Logger) *NotesHandler {
	return &NotesHandler{notes: notes, logger: logger}
}

// Collection handles /api/notes (POST create, GET list by userId).
func (h *NotesHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ByID handles /api/notes/{id} (PUT update, DELETE).
func (h *NotesHandler) ByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *NotesHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID  string `json:"userId"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if strings.TrimSpace(payload.UserID) == "" || strings.TrimSpace(payload.Title) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("userId and title are required"))
		return
	}

	n, err := h.notes.Create(r.Context(), &domain.Note{
		UserID:  payload.UserID,
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		h.logger.Error("note create failed", zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(n))
}

func (h *NotesHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("userId is required"))
		return
	}

	notes, err := h.notes.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("note list failed", zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(notes))
}

func (h *NotesHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var payload struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if strings.TrimSpace(payload.Title) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("title is required"))
		return
	}

	n, err := h.notes.Update(r.Context(), id, payload.Title, payload.Content)
	if err != nil {
		h.logger.Error("note update failed", zap.String("id", id), zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(n))
}

func (h *NotesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.notes.Delete(r.Context(), id); err != nil {
		h.logger.Error("note delete failed", zap.String("id", id), zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
}
