package service

import (
	"context"
	"strings"
	"testing"

	"roster-data/internal/domain"
	"roster-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIngestFixture() (IngestService, *repository.MemoryProfilesRepo, *repository.MemoryLedgerRepo) {
	profiles := repository.NewMemoryProfilesRepo()
	ledger := repository.NewMemoryLedgerRepo()
	svc := NewIngestService(profiles, ledger, NopNotifier{}, zap.NewNop())
	return svc, profiles, ledger
}

func TestIngestSheet_FirstUploadMarksEverythingAdded(t *testing.T) {
	svc, profiles, ledger := newIngestFixture()
	ctx := context.Background()

	buf := buildSheet(t, [][]interface{}{
		{"Reg Code", "Name", "Organization/Law Firm Name"},
		{"12345", "Jane Smith", "Acme IP Law"},
		{"67890", "John Doe", "Doe & Partners"},
	})

	summary, err := svc.IngestSheet(ctx, buf, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 0, summary.Removed)
	assert.Equal(t, 0, summary.Updated)

	count, err := profiles.CountCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	added, err := ledger.ListAdded(ctx)
	require.NoError(t, err)
	assert.Len(t, added, 2)
}

func TestIngestSheet_SecondUploadReplacesSnapshotAndLedger(t *testing.T) {
	svc, profiles, ledger := newIngestFixture()
	ctx := context.Background()

	first := buildSheet(t, [][]interface{}{
		{"Reg Code", "Name", "Phone Number"},
		{"11111", "Alice Adams", "555-0001"},
		{"22222", "Bob Brown", "555-0002"},
	})
	_, err := svc.IngestSheet(ctx, first, "admin")
	require.NoError(t, err)

	second := buildSheet(t, [][]interface{}{
		{"Reg Code", "Name", "Phone Number"},
		{"11111", "Alice Adams", "555-0009"},
		{"33333", "Carol Clark", "555-0003"},
	})
	summary, err := svc.IngestSheet(ctx, second, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Removed)
	assert.Equal(t, 1, summary.Updated)

	// removed profile no longer in the current snapshot
	_, err = profiles.GetCurrent(ctx, "22222")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// the previous delta is gone, only the latest pair's ledger remains
	added, err := ledger.ListAdded(ctx)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "33333", added[0].RegCode)

	updated, err := ledger.ListUpdated(ctx)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	change := updated[0].Changes[domain.FieldPhoneNumber]
	assert.Equal(t, "555-0001", change.OldValue)
	assert.Equal(t, "555-0009", change.NewValue)
}

func TestIngestSheet_InvalidSheetLeavesSnapshotUntouched(t *testing.T) {
	svc, profiles, ledger := newIngestFixture()
	ctx := context.Background()

	good := buildSheet(t, [][]interface{}{
		{"Reg Code", "Name"},
		{"12345", "Jane Smith"},
	})
	_, err := svc.IngestSheet(ctx, good, "admin")
	require.NoError(t, err)

	_, err = svc.IngestSheet(ctx, strings.NewReader("not a workbook"), "admin")
	require.ErrorIs(t, err, ErrInvalidSheet)

	count, err := profiles.CountCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	added, err := ledger.ListAdded(ctx)
	require.NoError(t, err)
	assert.Len(t, added, 1)
}

func TestIngestSheet_MissingRegCodeColumnRejected(t *testing.T) {
	svc, _, _ := newIngestFixture()

	bad := buildSheet(t, [][]interface{}{
		{"Name", "Organization/Law Firm Name"},
		{"Jane Smith", "Acme IP Law"},
	})
	_, err := svc.IngestSheet(context.Background(), bad, "admin")
	require.ErrorIs(t, err, ErrInvalidSheet)
}
