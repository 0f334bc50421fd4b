package httpapi

import (
	"net/http"
	"strings"

	"roster-data/internal/service"

	"go.uber.org/zap"
)

// AdminHandler serves the admin guest-management actions, gated by the
// configured admin token.
type AdminHandler struct {
	guests     *service.GuestService
	adminToken string
	logger     *zap.Logger
}

func NewAdminHandler(guests *service.GuestService, adminToken string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{guests: guests, adminToken: adminToken, logger: logger}
}

func (h *AdminHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if !checkAdminToken(r, h.adminToken) {
		writeJSON(w, http.StatusUnauthorized, Fail("admin token required"))
		return false
	}
	return true
}

func (h *AdminHandler) readEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || strings.TrimSpace(payload.Email) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("email is required"))
		return "", false
	}
	return payload.Email, true
}

// CreateGuest handles POST /api/admin/guests.
func (h *AdminHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
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

	g, err := h.guests.CreateGuest(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.logger.Error("CreateGuest failed", zap.String("email", payload.Email), zap.Error(err))
		failError(w, err)
		return
	}
	h.logger.Info("guest created", zap.String("email", g.Email))
	writeJSON(w, http.StatusOK, Ok(g))
}

// Revoke handles POST /api/revoke.
func (h *AdminHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	email, ok := h.readEmail(w, r)
	if !ok {
		return
	}
	if err := h.guests.Revoke(r.Context(), email); err != nil {
		h.logger.Error("Revoke failed", zap.String("email", email), zap.Error(err))
		failError(w, err)
		return
	}
	h.logger.Info("guest access revoked", zap.String("email", email))
	writeJSON(w, http.StatusOK, Ok(map[string]any{"revoked": true}))
}

// ResetRevocation handles POST /api/admin/reset-revocation.
func (h *AdminHandler) ResetRevocation(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	email, ok := h.readEmail(w, r)
	if !ok {
		return
	}
	if err := h.guests.ResetRevocation(r.Context(), email); err != nil {
		h.logger.Error("ResetRevocation failed", zap.String("email", email), zap.Error(err))
		failError(w, err)
		return
	}
	h.logger.Info("guest revocation reset", zap.String("email", email))
	writeJSON(w, http.StatusOK, Ok(map[string]any{"reset": true}))
}

// ResetPages handles POST /api/admin/reset-pages.
func (h *AdminHandler) ResetPages(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	email, ok := h.readEmail(w, r)
	if !ok {
		return
	}
	if err := h.guests.ResetPages(r.Context(), email); err != nil {
		h.logger.Error("ResetPages failed", zap.String("email", email), zap.Error(err))
		failError(w, err)
		return
	}
	h.logger.Info("guest pages reset", zap.String("email", email))
	writeJSON(w, http.StatusOK, Ok(map[string]any{"reset": true}))
}
