package service

import (
	"strings"
	"time"

	"roster-data/internal/domain"
)

// SnapshotDelta is the change ledger content for one snapshot pair.
type SnapshotDelta struct {
	Added   []*domain.ChangeRecord
	Removed []*domain.ChangeRecord
	Updated []*domain.UpdatedProfile
}

// DiffSnapshots compares two snapshots by canonical regCode. Profiles only in
// the new snapshot become added records, profiles only in the old become
// removed records, and profiles in both get one FieldChange per field whose
// trimmed value differs. Empty-to-value and value-to-empty both count.
func DiffSnapshots(oldSnap, newSnap []*domain.Profile, at time.Time) *SnapshotDelta {
	oldByCode := make(map[string]*domain.Profile, len(oldSnap))
	for _, p := range oldSnap {
		oldByCode[domain.CanonicalRegCode(p.RegCode)] = p
	}

	delta := &SnapshotDelta{}
	newCodes := make(map[string]bool, len(newSnap))

	for _, np := range newSnap {
		code := domain.CanonicalRegCode(np.RegCode)
		newCodes[code] = true

		op, existed := oldByCode[code]
		if !existed {
			delta.Added = append(delta.Added, &domain.ChangeRecord{
				RegCode:  code,
				Name:     np.Name,
				Details:  np.Details(),
				LoggedAt: at,
			})
			continue
		}

		changes := map[domain.FieldName]domain.FieldChange{}
		for _, field := range domain.DiffableFields {
			oldVal := strings.TrimSpace(op.Field(field))
			newVal := strings.TrimSpace(np.Field(field))
			if oldVal != newVal {
				changes[field] = domain.FieldChange{OldValue: oldVal, NewValue: newVal}
			}
		}
		if len(changes) > 0 {
			delta.Updated = append(delta.Updated, &domain.UpdatedProfile{
				RegCode:  code,
				Name:     np.Name,
				Changes:  changes,
				LoggedAt: at,
			})
		}
	}

	for _, op := range oldSnap {
		code := domain.CanonicalRegCode(op.RegCode)
		if !newCodes[code] {
			delta.Removed = append(delta.Removed, &domain.ChangeRecord{
				RegCode:  code,
				Name:     op.Name,
				Details:  op.Details(),
				LoggedAt: at,
			})
		}
	}

	return delta
}
