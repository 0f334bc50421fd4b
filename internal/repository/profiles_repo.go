package repository

import (
	"context"

	"roster-data/internal/domain"
)

// ProfileFilters narrows the paginated roster listing.
type ProfileFilters struct {
	Letter string // name-initial filter, case-insensitive
}

// FieldMatch is one search predicate; a slice is combined as OR.
type FieldMatch struct {
	Field  domain.FieldName
	Text   string
	Exact  bool // equality (case-insensitive) instead of containment
	Prefix bool // anchor the match at the start of the value
}

// ProfilesRepo manages the roster snapshots (current, previous, staging).
type ProfilesRepo interface {
	// Current snapshot reads.
	ListCurrent(ctx context.Context, filters ProfileFilters, page, size int) ([]*domain.Profile, int, error)
	AllCurrent(ctx context.Context) ([]*domain.Profile, error)
	GetCurrent(ctx context.Context, regCode string) (*domain.Profile, error)
	CountCurrent(ctx context.Context) (int, error)
	Search(ctx context.Context, matches []FieldMatch, limit int) ([]*domain.Profile, error)

	// Live-sheet edit of a single record between ingestions.
	UpdateCurrent(ctx context.Context, regCode string, fields map[domain.FieldName]string) (*domain.Profile, error)

	// Ingestion: load the parsed sheet into staging, then promote it.
	// PromoteStaging archives current to the previous-snapshot collection and
	// makes staging the current snapshot; at no point is the live collection
	// empty.
	LoadStaging(ctx context.Context, rows []*domain.Profile) error
	PromoteStaging(ctx context.Context) error
}
