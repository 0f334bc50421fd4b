package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterRosterRoutes covers the roster read surface and the live-sheet edit.
func (r *Router) RegisterRosterRoutes(h *RosterHandler) {
	r.Handle("/api/all-users-data", requireMethod(http.MethodGet, h.AllUsersData))
	r.Handle("/api/IndivisualDataFetching", requireMethod(http.MethodGet, h.IndividualData))
	r.Handle("/api/suggestions", requireMethod(http.MethodGet, h.Suggestions))
	r.Handle("/api/roster/export", requireMethod(http.MethodGet, h.Export))
	r.Handle("/api/roster/import-template", requireMethod(http.MethodGet, h.ImportTemplate))

	// live-sheet/{regCode}
	r.Handle("/api/live-sheet/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		regCode := strings.TrimPrefix(req.URL.Path, "/api/live-sheet/")
		if regCode == "" || strings.Contains(regCode, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.LiveSheetUpdate(w, req, regCode)
	})
}

func (r *Router) RegisterUploadRoutes(h *UploadHandler) {
	r.Handle("/api/upload-excel-dynamic", requireMethod(http.MethodPost, h.UploadExcel))
}

func (r *Router) RegisterLedgerRoutes(h *LedgerHandler) {
	// both spellings are in frontend use
	r.Handle("/api/newlyAddedProfiles", requireMethod(http.MethodGet, h.NewlyAdded))
	r.Handle("/api/newlyAddedProfiles2", requireMethod(http.MethodGet, h.NewlyAdded))
	r.Handle("/api/removedProfiles", requireMethod(http.MethodGet, h.Removed))
	r.Handle("/api/updated-profiles", requireMethod(http.MethodGet, h.Updated))

	// updated-profiles/{regCode}
	r.Handle("/api/updated-profiles/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		regCode := strings.TrimPrefix(req.URL.Path, "/api/updated-profiles/")
		if regCode == "" || strings.Contains(regCode, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.UpdatedByRegCode(w, req, regCode)
	})
}

func (r *Router) RegisterInsightsRoutes(h *InsightsHandler) {
	r.Handle("/api/insights", requireMethod(http.MethodGet, h.Insights))
}

func (r *Router) RegisterGuestRoutes(h *GuestHandler) {
	r.Handle("/api/guiestlogin", requireMethod(http.MethodPost, h.Login))
	r.Handle("/api/guiestlogout", requireMethod(http.MethodPost, h.Logout))
	r.Handle("/api/guiestdata", requireMethod(http.MethodPost, h.Data))

	r.Handle("/api/track/page-visit", requireMethod(http.MethodPost, h.TrackPageVisit))
	r.Handle("/api/track/search", requireMethod(http.MethodPost, h.TrackSearch))
	r.Handle("/api/track/copy", requireMethod(http.MethodPost, h.TrackCopy))
}

func (r *Router) RegisterAdminRoutes(h *AdminHandler) {
	r.Handle("/api/revoke", requireMethod(http.MethodPost, h.Revoke))
	r.Handle("/api/admin/reset-revocation", requireMethod(http.MethodPost, h.ResetRevocation))
	r.Handle("/api/admin/reset-pages", requireMethod(http.MethodPost, h.ResetPages))
	r.Handle("/api/admin/guests", requireMethod(http.MethodPost, h.CreateGuest))
}

func (r *Router) RegisterNotesRoutes(h *NotesHandler) {
	r.Handle("/api/notes", h.Collection)

	// notes/{id}
	r.Handle("/api/notes/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/api/notes/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.ByID(w, req, id)
	})
}

// RegisterHealthRoute exposes a liveness probe; ping reports backing-store
// reachability and may be nil when running on in-memory stores.
func (r *Router) RegisterHealthRoute(ping func() error) {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if ping != nil {
			if err := ping(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, Fail("store unreachable"))
				return
			}
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}
