package httpapi

import (
	"context"
	"net/http"
	"testing"

	"roster-data/internal/domain"
)

func seedGuest(t *testing.T, env *testEnv, email string) {
	t.Helper()
	err := env.guests.Create(context.Background(), &domain.GuestUser{
		Email:          email,
		Password:       "hunter2",
		CurrentPage:    1,
		MaxPageReached: 1,
	})
	if err != nil {
		t.Fatalf("seed guest: %v", err)
	}
}

func loginGuest(t *testing.T, env *testEnv, email string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/guiestlogin", map[string]string{
		"email":    email,
		"password": "hunter2",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var result struct {
		Token string `json:"token"`
	}
	decodeResult(t, rec, &result)
	if result.Token == "" {
		t.Fatal("login returned empty token")
	}
	return result.Token
}

func TestGuestLoginHandler_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/guiestlogin", map[string]string{"email": "x@y.z"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGuestLoginHandler_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	seedGuest(t, env, "guest@example.com")

	rec := env.do(t, http.MethodPost, "/api/guiestlogin", map[string]string{
		"email":    "guest@example.com",
		"password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuestDataHandler_PageWindow(t *testing.T) {
	env := newTestEnv(t)
	seedGuest(t, env, "guest@example.com")
	env.seedProfiles(t, []*domain.Profile{
		{RegCode: "11111", Name: "Alice Adams"},
		{RegCode: "22222", Name: "Bob Brown"},
	})
	token := loginGuest(t, env, "guest@example.com")
	auth := map[string]string{"Authorization": "Bearer " + token}

	// page 2 ok
	rec := env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 2}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("page 2: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var page struct {
		Page           int `json:"page"`
		MaxPageReached int `json:"maxPageReached"`
		Total          int `json:"total"`
	}
	decodeResult(t, rec, &page)
	if page.Page != 2 || page.MaxPageReached != 2 || page.Total != 2 {
		t.Fatalf("unexpected page payload: %+v", page)
	}

	// back to page 1 is forbidden
	rec = env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 1}, auth)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("regression: expected 403, got %d", rec.Code)
	}

	// beyond the limit once the ceiling is reached
	rec = env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 3}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("page 3: expected 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 4}, auth)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("limit: expected 403, got %d", rec.Code)
	}
}

func TestGuestDataHandler_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 1}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuestLogoutHandler_TokenDeadAfterwards(t *testing.T) {
	env := newTestEnv(t)
	seedGuest(t, env, "guest@example.com")
	token := loginGuest(t, env, "guest@example.com")
	auth := map[string]string{"Authorization": "Bearer " + token}

	rec := env.do(t, http.MethodPost, "/api/guiestlogout", nil, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 1}, auth)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestAdminRevokeHandler(t *testing.T) {
	env := newTestEnv(t)
	seedGuest(t, env, "guest@example.com")
	token := loginGuest(t, env, "guest@example.com")

	// no admin token
	rec := env.do(t, http.MethodPost, "/api/revoke", map[string]string{"email": "guest@example.com"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin token, got %d", rec.Code)
	}

	admin := map[string]string{"x-admin-token": testAdminToken}
	rec = env.do(t, http.MethodPost, "/api/revoke", map[string]string{"email": "guest@example.com"}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// the live session is gone
	auth := map[string]string{"Authorization": "Bearer " + token}
	rec = env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 1}, auth)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after revoke, got %d", rec.Code)
	}

	// and logging in again is refused
	rec = env.do(t, http.MethodPost, "/api/guiestlogin", map[string]string{
		"email":    "guest@example.com",
		"password": "hunter2",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for revoked login, got %d", rec.Code)
	}

	// reset brings access back
	rec = env.do(t, http.MethodPost, "/api/admin/reset-revocation", map[string]string{"email": "guest@example.com"}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset-revocation: expected 200, got %d", rec.Code)
	}
	loginGuest(t, env, "guest@example.com")
}

func TestAdminResetPagesHandler(t *testing.T) {
	env := newTestEnv(t)
	seedGuest(t, env, "guest@example.com")
	env.seedProfiles(t, []*domain.Profile{{RegCode: "11111", Name: "Alice Adams"}})
	token := loginGuest(t, env, "guest@example.com")
	auth := map[string]string{"Authorization": "Bearer " + token}

	rec := env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 3}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("page 3: expected 200, got %d", rec.Code)
	}

	admin := map[string]string{"x-admin-token": testAdminToken}
	rec = env.do(t, http.MethodPost, "/api/admin/reset-pages", map[string]string{"email": "guest@example.com"}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset-pages: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/guiestdata", map[string]int{"page": 1}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("page 1 after reset: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestAdminCreateGuestHandler(t *testing.T) {
	env := newTestEnv(t)
	admin := map[string]string{"x-admin-token": testAdminToken}

	rec := env.do(t, http.MethodPost, "/api/admin/guests", map[string]string{
		"email":    "new@example.com",
		"password": "hunter2",
	}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var guest struct {
		Email       string `json:"email"`
		CurrentPage int    `json:"currentPage"`
	}
	decodeResult(t, rec, &guest)
	if guest.Email != "new@example.com" || guest.CurrentPage != 1 {
		t.Fatalf("unexpected guest: %+v", guest)
	}

	// duplicate rejected
	rec = env.do(t, http.MethodPost, "/api/admin/guests", map[string]string{
		"email":    "new@example.com",
		"password": "other",
	}, admin)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", rec.Code)
	}

	// and the new guest can log in
	rec = env.do(t, http.MethodPost, "/api/guiestlogin", map[string]string{
		"email":    "new@example.com",
		"password": "hunter2",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestTrackHandlers(t *testing.T) {
	env := newTestEnv(t)
	seedGuest(t, env, "guest@example.com")
	token := loginGuest(t, env, "guest@example.com")
	auth := map[string]string{"Authorization": "Bearer " + token}

	rec := env.do(t, http.MethodPost, "/api/track/page-visit", map[string]string{"page": "/roster"}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("page-visit: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/api/track/search", map[string]string{"query": "smith"}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/track/copy", map[string]string{"content": "555-0100"}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("copy: expected 200, got %d", rec.Code)
	}

	g, err := env.guests.GetByEmail(context.Background(), "guest@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if len(g.PageVisits) != 1 || len(g.Searches) != 1 || len(g.CopyActions) != 1 {
		t.Fatalf("tracking not recorded: visits=%d searches=%d copies=%d",
			len(g.PageVisits), len(g.Searches), len(g.CopyActions))
	}
}
