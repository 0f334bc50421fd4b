package httpapi

import (
	"net/http"
	"strings"

	"roster-data/internal/domain"
	"roster-data/internal/repository"
	"roster-data/internal/service"

	"go.uber.org/zap"
)

// RosterHandler serves the roster listing, search, live-sheet edits, and the
// Excel export surface.
type RosterHandler struct {
	profiles repository.ProfilesRepo
	ledger   repository.LedgerRepo
	search   *service.SearchService
	logger   *zap.Logger
}

func NewRosterHandler(profiles repository.ProfilesRepo, ledger repository.LedgerRepo, search *service.SearchService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{
		profiles: profiles,
		ledger:   ledger,
		search:   search,
		logger:   logger,
	}
}

// profileRow is one roster listing row: the profile plus the isUpdated
// annotation from the change ledger.
type profileRow struct {
	*domain.Profile
	IsUpdated bool `json:"isUpdated"`
}

// AllUsersData handles GET /api/all-users-data?page&limit&letter.
func (h *RosterHandler) AllUsersData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parseInt(r.URL.Query().Get("page"), 1)
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	filters := repository.ProfileFilters{Letter: r.URL.Query().Get("letter")}

	profiles, total, err := h.profiles.ListCurrent(ctx, filters, page, limit)
	if err != nil {
		h.logger.Error("ListCurrent failed", zap.Error(err))
		failError(w, err)
		return
	}

	updatedSet, err := h.ledger.UpdatedRegCodes(ctx)
	if err != nil {
		h.logger.Error("UpdatedRegCodes failed", zap.Error(err))
		failError(w, err)
		return
	}

	rows := make([]profileRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, profileRow{Profile: p, IsUpdated: updatedSet[p.RegCode]})
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": rows,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// IndividualData handles GET /api/IndivisualDataFetching?query&field.
// The endpoint name keeps the frontend's historical spelling.
func (h *RosterHandler) IndividualData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("query is required"))
		return
	}

	profiles, err := h.search.Search(r.Context(), query, r.URL.Query().Get("field"))
	if err != nil {
		h.logger.Error("Search failed", zap.String("query", query), zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(profiles))
}

// Suggestions handles GET /api/suggestions?query.
func (h *RosterHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("query is required"))
		return
	}

	profiles, err := h.search.Suggestions(r.Context(), query)
	if err != nil {
		h.logger.Error("Suggestions failed", zap.String("query", query), zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(profiles))
}

// LiveSheetUpdate handles PUT /api/live-sheet/{regCode}: an individual edit
// of the current snapshot between ingestions. The body maps column names (or
// internal field names) to new values; the reg code itself is immutable.
func (h *RosterHandler) LiveSheetUpdate(w http.ResponseWriter, r *http.Request, regCode string) {
	var payload map[string]string
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if len(payload) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("no fields to update"))
		return
	}

	fields := map[domain.FieldName]string{}
	for key, value := range payload {
		if f, ok := domain.FieldForColumn(key); ok {
			fields[f] = value
			continue
		}
		if f := domain.FieldName(key); f.Column() != "" {
			fields[f] = value
		}
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("no recognized fields in body"))
		return
	}

	p, err := h.profiles.UpdateCurrent(r.Context(), regCode, fields)
	if err != nil {
		h.logger.Error("LiveSheetUpdate failed", zap.String("reg_code", regCode), zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

// Export handles GET /api/roster/export.
func (h *RosterHandler) Export(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.AllCurrent(r.Context())
	if err != nil {
		h.logger.Error("AllCurrent failed for export", zap.Error(err))
		failError(w, err)
		return
	}

	data, err := GenerateRosterExport(profiles)
	if err != nil {
		h.logger.Error("GenerateRosterExport failed", zap.Error(err))
		failError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=roster-export.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportTemplate handles GET /api/roster/import-template.
func (h *RosterHandler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := GenerateImportTemplate()
	if err != nil {
		h.logger.Error("GenerateImportTemplate failed", zap.Error(err))
		failError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=roster-import-template.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
