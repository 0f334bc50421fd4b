package repository

import (
	"context"

	"roster-data/internal/domain"
)

// LedgerRepo holds the delta between the last two snapshots. The whole ledger
// is replaced on each ingestion; reads are dashboard projections.
type LedgerRepo interface {
	ReplaceDelta(ctx context.Context, added, removed []*domain.ChangeRecord, updated []*domain.UpdatedProfile) error

	ListAdded(ctx context.Context) ([]*domain.ChangeRecord, error)
	ListRemoved(ctx context.Context) ([]*domain.ChangeRecord, error)
	ListUpdated(ctx context.Context) ([]*domain.UpdatedProfile, error)
	GetUpdated(ctx context.Context, regCode string) (*domain.UpdatedProfile, error)

	// UpdatedRegCodes feeds the isUpdated annotation on roster listings.
	UpdatedRegCodes(ctx context.Context) (map[string]bool, error)
}
