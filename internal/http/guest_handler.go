package httpapi

import (
	"net/http"
	"strings"

	"roster-data/internal/service"

	"go.uber.org/zap"
)

// GuestHandler serves the guest session and page-window endpoints. The
// misspelled route names are the frontend's historical contract.
type GuestHandler struct {
	guests *service.GuestService
	logger *zap.Logger
}

func NewGuestHandler(guests *service.GuestService, logger *zap.Logger) *GuestHandler {
	return &GuestHandler{guests: guests, logger: logger}
}

// authed resolves the bearer token to a live guest session or writes 401.
func (h *GuestHandler) authed(w http.ResponseWriter, r *http.Request) (email, sessionID string, ok bool) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, Fail("missing token"))
		return "", "", false
	}
	email, sessionID, err := h.guests.ValidateToken(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail("invalid or expired token"))
		return "", "", false
	}
	return email, sessionID, true
}

// Login handles POST /api/guiestlogin.
func (h *GuestHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		writeJSON(w, http.StatusBadRequest, Fail("email and password are required"))
		return
	}

	token, guest, err := h.guests.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.logger.Warn("guest login rejected", zap.String("email", payload.Email), zap.Error(err))
		failError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"token": token,
		"guest": guest,
	}))
}

// Logout handles POST /api/guiestlogout.
func (h *GuestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	email, sessionID, ok := h.authed(w, r)
	if !ok {
		return
	}
	if err := h.guests.Logout(r.Context(), email, sessionID); err != nil {
		h.logger.Error("guest logout failed", zap.String("email", email), zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"loggedOut": true}))
}

// Data handles POST /api/guiestdata: one page of the roster inside the guest
// page window.
func (h *GuestHandler) Data(w http.ResponseWriter, r *http.Request) {
	email, _, ok := h.authed(w, r)
	if !ok {
		return
	}

	var payload struct {
		Page int `json:"page"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if payload.Page < 1 {
		writeJSON(w, http.StatusBadRequest, Fail("page must be >= 1"))
		return
	}

	pageData, err := h.guests.GetPage(r.Context(), email, payload.Page)
	if err != nil {
		h.logger.Warn("guest page rejected",
			zap.String("email", email),
			zap.Int("page", payload.Page),
			zap.Error(err),
		)
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(pageData))
}

// TrackPageVisit handles POST /api/track/page-visit.
func (h *GuestHandler) TrackPageVisit(w http.ResponseWriter, r *http.Request) {
	email, _, ok := h.authed(w, r)
	if !ok {
		return
	}
	var payload struct {
		Page string `json:"page"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload.Page == "" {
		writeJSON(w, http.StatusBadRequest, Fail("page is required"))
		return
	}
	if err := h.guests.TrackPageVisit(r.Context(), email, payload.Page); err != nil {
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tracked": true}))
}

// TrackSearch handles POST /api/track/search.
func (h *GuestHandler) TrackSearch(w http.ResponseWriter, r *http.Request) {
	email, _, ok := h.authed(w, r)
	if !ok {
		return
	}
	var payload struct {
		Query string `json:"query"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload.Query == "" {
		writeJSON(w, http.StatusBadRequest, Fail("query is required"))
		return
	}
	if err := h.guests.TrackSearch(r.Context(), email, payload.Query); err != nil {
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tracked": true}))
}

// TrackCopy handles POST /api/track/copy.
func (h *GuestHandler) TrackCopy(w http.ResponseWriter, r *http.Request) {
	email, _, ok := h.authed(w, r)
	if !ok {
		return
	}
	var payload struct {
		Content string `json:"content"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload.Content == "" {
		writeJSON(w, http.StatusBadRequest, Fail("content is required"))
		return
	}
	if err := h.guests.TrackCopy(r.Context(), email, payload.Content); err != nil {
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tracked": true}))
}
