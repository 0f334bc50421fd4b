package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"roster-data/internal/domain"
)

// MemoryProfilesRepo keeps the snapshot pair in process memory. Used by unit
// tests and when the service runs without a database.
type MemoryProfilesRepo struct {
	mu      sync.RWMutex
	current map[string]*domain.Profile // canonical regCode -> profile
	old     map[string]*domain.Profile
	staging []*domain.Profile
}

func NewMemoryProfilesRepo() *MemoryProfilesRepo {
	return &MemoryProfilesRepo{
		current: map[string]*domain.Profile{},
		old:     map[string]*domain.Profile{},
	}
}

func (r *MemoryProfilesRepo) sortedCurrent() []*domain.Profile {
	out := make([]*domain.Profile, 0, len(r.current))
	for _, p := range r.current {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (r *MemoryProfilesRepo) ListCurrent(_ context.Context, filters ProfileFilters, page, size int) ([]*domain.Profile, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sortedCurrent()
	if filters.Letter != "" {
		filtered := all[:0]
		for _, p := range all {
			if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(filters.Letter)) {
				filtered = append(filtered, p)
			}
		}
		all = filtered
	}

	total := len(all)
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return nil, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryProfilesRepo) AllCurrent(_ context.Context) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedCurrent(), nil
}

func (r *MemoryProfilesRepo) GetCurrent(_ context.Context, regCode string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.current[domain.CanonicalRegCode(regCode)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryProfilesRepo) CountCurrent(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.current), nil
}

func (r *MemoryProfilesRepo) Search(_ context.Context, matches []FieldMatch, limit int) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Profile
	for _, p := range r.sortedCurrent() {
		if matchesAny(p, matches) {
			out = append(out, p)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func matchesAny(p *domain.Profile, matches []FieldMatch) bool {
	for _, m := range matches {
		v := strings.ToLower(p.Field(m.Field))
		q := strings.ToLower(m.Text)
		switch {
		case m.Exact:
			if v == q {
				return true
			}
		case m.Prefix:
			if strings.HasPrefix(v, q) {
				return true
			}
		default:
			if strings.Contains(v, q) {
				return true
			}
		}
	}
	return false
}

func (r *MemoryProfilesRepo) UpdateCurrent(_ context.Context, regCode string, fields map[domain.FieldName]string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.current[domain.CanonicalRegCode(regCode)]
	if !ok {
		return nil, ErrNotFound
	}
	for f, v := range fields {
		if f == domain.FieldRegCode {
			continue
		}
		p.SetField(f, v)
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryProfilesRepo) LoadStaging(_ context.Context, rows []*domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staging = make([]*domain.Profile, 0, len(rows))
	for _, p := range rows {
		cp := *p
		r.staging = append(r.staging, &cp)
	}
	return nil
}

func (r *MemoryProfilesRepo) PromoteStaging(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.old = r.current
	r.current = make(map[string]*domain.Profile, len(r.staging))
	for _, p := range r.staging {
		r.current[domain.CanonicalRegCode(p.RegCode)] = p
	}
	r.staging = nil
	return nil
}
