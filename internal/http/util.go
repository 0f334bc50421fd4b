package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"roster-data/internal/repository"
	"roster-data/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// statusForError maps service/repository sentinels onto the error taxonomy:
// 400 validation, 401 bad token/credentials, 403 revoked or page-window
// violation, 404 missing entity, 500 everything else.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidSheet),
		errors.Is(err, service.ErrGuestExists):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccessRevoked),
		errors.Is(err, service.ErrPageRegression),
		errors.Is(err, service.ErrPageLimit):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// failError hides internals behind a generic message for 500s but passes the
// sentinel text through for client-caused failures.
func failError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, Fail(msg))
}
