package httpapi

import (
	"net/http"
	"sort"

	"roster-data/internal/domain"
	"roster-data/internal/repository"

	"go.uber.org/zap"
)

// LedgerHandler serves the change-ledger read projections.
type LedgerHandler struct {
	ledger repository.LedgerRepo
	logger *zap.Logger
}

func NewLedgerHandler(ledger repository.LedgerRepo, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, logger: logger}
}

// flattenChange merges the column-keyed details into one flat record for the
// added/removed table views.
func flattenChange(c *domain.ChangeRecord) map[string]any {
	m := make(map[string]any, len(c.Details)+3)
	for col, v := range c.Details {
		m[col] = v
	}
	m["regCode"] = c.RegCode
	m["name"] = c.Name
	m["loggedAt"] = c.LoggedAt
	return m
}

// NewlyAdded handles GET /api/newlyAddedProfiles2.
func (h *LedgerHandler) NewlyAdded(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListAdded(r.Context())
	if err != nil {
		h.logger.Error("ListAdded failed", zap.Error(err))
		failError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(records))
	for _, c := range records {
		out = append(out, flattenChange(c))
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// Removed handles GET /api/removedProfiles.
func (h *LedgerHandler) Removed(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListRemoved(r.Context())
	if err != nil {
		h.logger.Error("ListRemoved failed", zap.Error(err))
		failError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(records))
	for _, c := range records {
		out = append(out, flattenChange(c))
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// updatedRow is one changed field of one profile; the dashboard groups rows
// by regCode visually.
type updatedRow struct {
	RegCode  string `json:"regCode"`
	Name     string `json:"name"`
	Field    string `json:"field"` // spreadsheet column name
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// Updated handles GET /api/updated-profiles.
func (h *LedgerHandler) Updated(w http.ResponseWriter, r *http.Request) {
	updated, err := h.ledger.ListUpdated(r.Context())
	if err != nil {
		h.logger.Error("ListUpdated failed", zap.Error(err))
		failError(w, err)
		return
	}

	rows := make([]updatedRow, 0, len(updated))
	for _, u := range updated {
		for col, change := range u.ColumnChanges() {
			rows = append(rows, updatedRow{
				RegCode:  u.RegCode,
				Name:     u.Name,
				Field:    col,
				OldValue: change.OldValue,
				NewValue: change.NewValue,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RegCode != rows[j].RegCode {
			return rows[i].RegCode < rows[j].RegCode
		}
		return rows[i].Field < rows[j].Field
	})
	writeJSON(w, http.StatusOK, Ok(rows))
}

// UpdatedByRegCode handles GET /api/updated-profiles/{regCode}: the change
// detail for one profile from the latest snapshot pair.
func (h *LedgerHandler) UpdatedByRegCode(w http.ResponseWriter, r *http.Request, regCode string) {
	u, err := h.ledger.GetUpdated(r.Context(), regCode)
	if err != nil {
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"regCode":  u.RegCode,
		"name":     u.Name,
		"changes":  u.ColumnChanges(),
		"loggedAt": u.LoggedAt,
	}))
}
