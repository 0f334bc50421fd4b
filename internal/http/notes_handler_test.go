package httpapi

import (
	"net/http"
	"testing"
)

type noteDTO struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func TestNotes_CRUDRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	// create
	rec := env.do(t, http.MethodPost, "/api/notes", map[string]string{
		"userId":  "user-1",
		"title":   "Follow up",
		"content": "Call about reg 12345",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created noteDTO
	decodeResult(t, rec, &created)
	if created.ID == "" || created.Title != "Follow up" {
		t.Fatalf("unexpected created note: %+v", created)
	}

	// list by user
	rec = env.do(t, http.MethodGet, "/api/notes?userId=user-1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var notes []noteDTO
	decodeResult(t, rec, &notes)
	if len(notes) != 1 || notes[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", notes)
	}

	// update
	rec = env.do(t, http.MethodPut, "/api/notes/"+created.ID, map[string]string{
		"title":   "Follow up (done)",
		"content": "Called",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var updated noteDTO
	decodeResult(t, rec, &updated)
	if updated.Title != "Follow up (done)" || updated.Content != "Called" {
		t.Fatalf("unexpected updated note: %+v", updated)
	}

	// delete
	rec = env.do(t, http.MethodDelete, "/api/notes/"+created.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/notes?userId=user-1", nil, nil)
	decodeResult(t, rec, &notes)
	if len(notes) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", notes)
	}
}

func TestNotes_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/notes", map[string]string{
		"userId": "user-1",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title: expected 400, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/notes", map[string]string{
		"title": "No owner",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing userId: expected 400, got %d", rec.Code)
	}
}

func TestNotes_ListRequiresUserID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/notes", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestNotes_UnknownID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/notes/64f000000000000000000000", map[string]string{
		"title": "x",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update: expected 404, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/notes/64f000000000000000000000", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete: expected 404, got %d", rec.Code)
	}
}
