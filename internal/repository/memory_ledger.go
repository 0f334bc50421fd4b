package repository

import (
	"context"
	"sort"
	"sync"

	"roster-data/internal/domain"
)

type MemoryLedgerRepo struct {
	mu      sync.RWMutex
	added   []*domain.ChangeRecord
	removed []*domain.ChangeRecord
	updated []*domain.UpdatedProfile
}

func NewMemoryLedgerRepo() *MemoryLedgerRepo {
	return &MemoryLedgerRepo{}
}

func (r *MemoryLedgerRepo) ReplaceDelta(_ context.Context, added, removed []*domain.ChangeRecord, updated []*domain.UpdatedProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.added = copyChanges(added)
	r.removed = copyChanges(removed)
	r.updated = make([]*domain.UpdatedProfile, 0, len(updated))
	for _, u := range updated {
		cp := *u
		r.updated = append(r.updated, &cp)
	}
	return nil
}

func copyChanges(in []*domain.ChangeRecord) []*domain.ChangeRecord {
	out := make([]*domain.ChangeRecord, 0, len(in))
	for _, c := range in {
		cp := *c
		out = append(out, &cp)
	}
	return out
}

func (r *MemoryLedgerRepo) ListAdded(_ context.Context) ([]*domain.ChangeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedChanges(r.added), nil
}

func (r *MemoryLedgerRepo) ListRemoved(_ context.Context) ([]*domain.ChangeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedChanges(r.removed), nil
}

func sortedChanges(in []*domain.ChangeRecord) []*domain.ChangeRecord {
	out := copyChanges(in)
	sort.Slice(out, func(i, j int) bool { return out[i].RegCode < out[j].RegCode })
	return out
}

func (r *MemoryLedgerRepo) ListUpdated(_ context.Context) ([]*domain.UpdatedProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.UpdatedProfile, 0, len(r.updated))
	for _, u := range r.updated {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegCode < out[j].RegCode })
	return out, nil
}

func (r *MemoryLedgerRepo) GetUpdated(_ context.Context, regCode string) (*domain.UpdatedProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rc := domain.CanonicalRegCode(regCode)
	for _, u := range r.updated {
		if u.RegCode == rc {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryLedgerRepo) UpdatedRegCodes(_ context.Context) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(r.updated))
	for _, u := range r.updated {
		out[u.RegCode] = true
	}
	return out, nil
}
