package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"roster-data/internal/domain"
)

func TestUpdatedProfiles_OneRowPerChangedField(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	err := env.ledger.ReplaceDelta(context.Background(), nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "22222", Name: "Bob Brown", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldCity: {OldValue: "Dallas", NewValue: "Austin"},
			},
		},
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldOrganization: {OldValue: "Firm A", NewValue: "Firm B"},
				domain.FieldPhoneNumber:  {OldValue: "555-0001", NewValue: "555-0009"},
			},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceDelta: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/updated-profiles", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rows []struct {
		RegCode  string `json:"regCode"`
		Name     string `json:"name"`
		Field    string `json:"field"`
		OldValue string `json:"oldValue"`
		NewValue string `json:"newValue"`
	}
	decodeResult(t, rec, &rows)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// sorted by regCode, then column name
	if rows[0].RegCode != "11111" || rows[0].Field != "Organization/Law Firm Name" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].RegCode != "11111" || rows[1].Field != "Phone Number" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[2].RegCode != "22222" || rows[2].Field != "City" {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
	if rows[0].OldValue != "Firm A" || rows[0].NewValue != "Firm B" {
		t.Fatalf("unexpected change values: %+v", rows[0])
	}
}

func TestNewlyAddedProfiles_BothRouteSpellings(t *testing.T) {
	env := newTestEnv(t)

	err := env.ledger.ReplaceDelta(context.Background(), []*domain.ChangeRecord{
		{RegCode: "33333", Name: "Carol Clark", LoggedAt: time.Now()},
	}, nil, nil)
	if err != nil {
		t.Fatalf("ReplaceDelta: %v", err)
	}

	for _, path := range []string{"/api/newlyAddedProfiles", "/api/newlyAddedProfiles2"} {
		rec := env.do(t, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var records []map[string]any
		decodeResult(t, rec, &records)
		if len(records) != 1 || records[0]["regCode"] != "33333" {
			t.Fatalf("%s: unexpected records %v", path, records)
		}
	}
}

func TestUpdatedProfileByRegCode(t *testing.T) {
	env := newTestEnv(t)

	err := env.ledger.ReplaceDelta(context.Background(), nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: time.Now(),
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldOrganization: {OldValue: "Firm A", NewValue: "Firm B"},
			},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceDelta: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/updated-profiles/11111", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var detail struct {
		RegCode string `json:"regCode"`
		Changes map[string]struct {
			OldValue string `json:"oldValue"`
			NewValue string `json:"newValue"`
		} `json:"changes"`
	}
	decodeResult(t, rec, &detail)
	if detail.RegCode != "11111" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	change, ok := detail.Changes["Organization/Law Firm Name"]
	if !ok || change.OldValue != "Firm A" || change.NewValue != "Firm B" {
		t.Fatalf("unexpected changes: %+v", detail.Changes)
	}

	rec = env.do(t, http.MethodGet, "/api/updated-profiles/99999", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown regCode: expected 404, got %d", rec.Code)
	}
}

func TestRemovedProfiles_FlattensDetails(t *testing.T) {
	env := newTestEnv(t)

	p := &domain.Profile{RegCode: "44444", Name: "Dan Drake", City: "Boston"}
	err := env.ledger.ReplaceDelta(context.Background(), nil, []*domain.ChangeRecord{
		{RegCode: "44444", Name: "Dan Drake", Details: p.Details(), LoggedAt: time.Now()},
	}, nil)
	if err != nil {
		t.Fatalf("ReplaceDelta: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/removedProfiles", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var records []map[string]any
	decodeResult(t, rec, &records)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["regCode"] != "44444" || records[0]["City"] != "Boston" {
		t.Fatalf("unexpected record: %v", records[0])
	}
}

func TestInsightsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedProfiles(t, []*domain.Profile{
		{RegCode: "11111", Name: "Alice Adams", State: "TX", Organization: "Firm B"},
	})

	err := env.ledger.ReplaceDelta(context.Background(), nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: time.Now(),
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldOrganization:  {OldValue: "Firm A", NewValue: "Firm B"},
				domain.FieldAgentAttorney: {OldValue: "AGENT", NewValue: "ATTORNEY"},
			},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceDelta: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/insights?company=Firm+A", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var insights struct {
		TotalUpdated   int            `json:"totalUpdated"`
		Categories     map[string]int `json:"categories"`
		CompanyLeavers []struct {
			RegCode string `json:"regCode"`
		} `json:"companyLeavers"`
		StatusChanges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"statusChanges"`
	}
	decodeResult(t, rec, &insights)

	if insights.TotalUpdated != 1 {
		t.Fatalf("unexpected totals: %+v", insights)
	}
	if insights.Categories["organization"] != 1 || insights.Categories["status"] != 1 {
		t.Fatalf("unexpected categories: %v", insights.Categories)
	}
	if len(insights.CompanyLeavers) != 1 || insights.CompanyLeavers[0].RegCode != "11111" {
		t.Fatalf("unexpected leavers: %+v", insights.CompanyLeavers)
	}
	if len(insights.StatusChanges) != 1 || insights.StatusChanges[0].To != "ATTORNEY" {
		t.Fatalf("unexpected status changes: %+v", insights.StatusChanges)
	}
}
