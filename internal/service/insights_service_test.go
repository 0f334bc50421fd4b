package service

import (
	"context"
	"testing"
	"time"

	"roster-data/internal/domain"
	"roster-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInsightsFixture(t *testing.T) (InsightsService, *repository.MemoryLedgerRepo, *repository.MemoryProfilesRepo) {
	t.Helper()
	ledger := repository.NewMemoryLedgerRepo()
	profiles := repository.NewMemoryProfilesRepo()
	svc := NewInsightsService(ledger, profiles, nil, zap.NewNop())
	return svc, ledger, profiles
}

func seedSnapshot(t *testing.T, profiles *repository.MemoryProfilesRepo, rows []*domain.Profile) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, profiles.LoadStaging(ctx, rows))
	require.NoError(t, profiles.PromoteStaging(ctx))
}

func TestGetInsights_CategorizesFieldChanges(t *testing.T) {
	svc, ledger, profiles := newInsightsFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedSnapshot(t, profiles, []*domain.Profile{
		{RegCode: "11111", Name: "Alice Adams", State: "TX", Organization: "Firm A"},
		{RegCode: "22222", Name: "Bob Brown", State: "CA", Organization: "Firm B"},
	})

	require.NoError(t, ledger.ReplaceDelta(ctx, nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldFullName:    {OldValue: "Alice Addams", NewValue: "Alice Adams"},
				domain.FieldCity:        {OldValue: "Austin", NewValue: "Houston"},
				domain.FieldPhoneNumber: {OldValue: "555-0001", NewValue: "555-0009"},
			},
		},
		{
			RegCode: "22222", Name: "Bob Brown", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldOrganization: {OldValue: "Firm X", NewValue: "Firm B"},
			},
		},
	}))

	got, err := svc.GetInsights(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalUpdated)
	assert.Equal(t, 1, got.Categories[CategoryName])
	assert.Equal(t, 1, got.Categories[CategoryOrganization])
	assert.Equal(t, 1, got.Categories[CategoryAddress])
	assert.Equal(t, 1, got.Categories[CategoryPhone])
	assert.Equal(t, 0, got.Categories[CategoryStatus])
}

func TestGetInsights_StatusChangeOnlyOnKnownTransitions(t *testing.T) {
	svc, ledger, profiles := newInsightsFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedSnapshot(t, profiles, []*domain.Profile{
		{RegCode: "11111", Name: "Alice Adams"},
		{RegCode: "22222", Name: "Bob Brown"},
	})

	require.NoError(t, ledger.ReplaceDelta(ctx, nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldAgentAttorney: {OldValue: "AGENT", NewValue: "ATTORNEY"},
			},
		},
		{
			// reverse direction is not a recognized promotion
			RegCode: "22222", Name: "Bob Brown", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldAgentAttorney: {OldValue: "ATTORNEY", NewValue: "AGENT"},
			},
		},
	}))

	got, err := svc.GetInsights(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 1, got.Categories[CategoryStatus])
	require.Len(t, got.StatusChanges, 1)
	assert.Equal(t, "11111", got.StatusChanges[0].RegCode)
	assert.Equal(t, "AGENT", got.StatusChanges[0].From)
	assert.Equal(t, "ATTORNEY", got.StatusChanges[0].To)
}

func TestGetInsights_CompanyLeavers(t *testing.T) {
	svc, ledger, profiles := newInsightsFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedSnapshot(t, profiles, []*domain.Profile{
		{RegCode: "11111", Name: "Alice Adams", Organization: "Firm B"},
		{RegCode: "22222", Name: "Robert Brown", Organization: "Firm D"},
	})

	require.NoError(t, ledger.ReplaceDelta(ctx, nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldOrganization: {OldValue: "Firm A", NewValue: "Firm B"},
			},
		},
		{
			RegCode: "22222", Name: "Robert Brown", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldOrganization: {OldValue: "Firm C", NewValue: "Firm D"},
				domain.FieldFullName:     {OldValue: "Bob Brown", NewValue: "Robert Brown"},
			},
		},
	}))

	got, err := svc.GetInsights(ctx, "")
	require.NoError(t, err)
	require.Len(t, got.CompanyLeavers, 2)
	assert.False(t, got.CompanyLeavers[0].NameChanged)
	assert.True(t, got.CompanyLeavers[1].NameChanged)

	// narrowed to one origin company
	got, err = svc.GetInsights(ctx, "Firm C")
	require.NoError(t, err)
	require.Len(t, got.CompanyLeavers, 1)
	leaver := got.CompanyLeavers[0]
	assert.Equal(t, "22222", leaver.RegCode)
	assert.Equal(t, "Firm C", leaver.OldOrganization)
	assert.Equal(t, "Firm D", leaver.NewOrganization)
}

func TestGetInsights_StateFallsBackToCurrentSnapshot(t *testing.T) {
	svc, ledger, profiles := newInsightsFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedSnapshot(t, profiles, []*domain.Profile{
		{RegCode: "11111", Name: "Alice Adams", State: "TX"},
		{RegCode: "22222", Name: "Bob Brown", State: "CA"},
	})

	require.NoError(t, ledger.ReplaceDelta(ctx, nil, nil, []*domain.UpdatedProfile{
		{
			RegCode: "11111", Name: "Alice Adams", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				// state itself changed, the new value wins
				domain.FieldState: {OldValue: "TX", NewValue: "NY"},
			},
		},
		{
			RegCode: "22222", Name: "Bob Brown", LoggedAt: now,
			Changes: map[domain.FieldName]domain.FieldChange{
				domain.FieldPhoneNumber: {OldValue: "555-0002", NewValue: "555-0008"},
			},
		},
	}))

	got, err := svc.GetInsights(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []StateCount{{State: "CA", Count: 1}, {State: "NY", Count: 1}}, got.ByState)
}

func TestGetInsights_AddedRemovedTotals(t *testing.T) {
	svc, ledger, profiles := newInsightsFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedSnapshot(t, profiles, []*domain.Profile{{RegCode: "33333", Name: "Carol Clark"}})

	require.NoError(t, ledger.ReplaceDelta(ctx,
		[]*domain.ChangeRecord{{RegCode: "33333", Name: "Carol Clark", LoggedAt: now}},
		[]*domain.ChangeRecord{{RegCode: "44444", Name: "Dan Drake", LoggedAt: now}},
		nil,
	))

	got, err := svc.GetInsights(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalAdded)
	assert.Equal(t, 1, got.TotalRemoved)
	assert.Equal(t, 0, got.TotalUpdated)
	assert.Empty(t, got.StatusChanges)
}
