package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// bearerToken pulls the token out of an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// checkAdminToken compares the x-admin-token header against the configured
// admin token in constant time. An empty configured token disables the
// admin surface entirely.
func checkAdminToken(r *http.Request, adminToken string) bool {
	if adminToken == "" {
		return false
	}
	got := r.Header.Get("x-admin-token")
	return subtle.ConstantTimeCompare([]byte(got), []byte(adminToken)) == 1
}
