package repository

import (
	"context"
	"sync"
	"time"

	"roster-data/internal/domain"
)

type MemoryGuestsRepo struct {
	mu     sync.RWMutex
	guests map[string]*domain.GuestUser // normalized email -> guest
}

func NewMemoryGuestsRepo() *MemoryGuestsRepo {
	return &MemoryGuestsRepo{guests: map[string]*domain.GuestUser{}}
}

func (r *MemoryGuestsRepo) GetByEmail(_ context.Context, email string) (*domain.GuestUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *MemoryGuestsRepo) Create(_ context.Context, g *domain.GuestUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *g
	cp.Email = normalizeEmail(cp.Email)
	r.guests[cp.Email] = &cp
	return nil
}

func (r *MemoryGuestsRepo) AppendActivity(_ context.Context, email string, e domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.ActivityLog = append(g.ActivityLog, e)
	return nil
}

func (r *MemoryGuestsRepo) SetPage(_ context.Context, email string, page int, e domain.ActivityEntry) (*domain.GuestUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok || g.CurrentPage > page {
		return nil, ErrNotFound
	}
	g.CurrentPage = page
	if page > g.MaxPageReached {
		g.MaxPageReached = page
	}
	g.ActivityLog = append(g.ActivityLog, e)
	cp := *g
	return &cp, nil
}

func (r *MemoryGuestsRepo) ResetPages(_ context.Context, email string, e domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.CurrentPage = 1
	g.MaxPageReached = 1
	g.ActivityLog = append(g.ActivityLog, e)
	return nil
}

func (r *MemoryGuestsRepo) SetRevoked(_ context.Context, email string, revoked bool, at *time.Time, e domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.AccessRevoked = revoked
	g.RevokedAt = at
	g.ActivityLog = append(g.ActivityLog, e)
	return nil
}

func (r *MemoryGuestsRepo) StartSession(_ context.Context, email string, s domain.GuestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.SessionData = append(g.SessionData, s)
	return nil
}

func (r *MemoryGuestsRepo) CloseSession(_ context.Context, email, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	for i := range g.SessionData {
		if g.SessionData[i].SessionID == sessionID {
			g.SessionData[i].LogoutAt = at
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryGuestsRepo) AppendPageVisit(_ context.Context, email string, v domain.PageVisit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.PageVisits = append(g.PageVisits, v)
	return nil
}

func (r *MemoryGuestsRepo) AppendSearch(_ context.Context, email string, s domain.SearchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.Searches = append(g.Searches, s)
	return nil
}

func (r *MemoryGuestsRepo) AppendCopyAction(_ context.Context, email string, c domain.CopyAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	g.CopyActions = append(g.CopyActions, c)
	return nil
}
