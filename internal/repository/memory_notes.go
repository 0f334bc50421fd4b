package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"roster-data/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryNotesRepo struct {
	mu    sync.RWMutex
	notes map[string]*domain.Note // hex ObjectID -> note
}

func NewMemoryNotesRepo() *MemoryNotesRepo {
	return &MemoryNotesRepo{notes: map[string]*domain.Note{}}
}

func (r *MemoryNotesRepo) Create(_ context.Context, n *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	cp := *n
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.notes[cp.ID.Hex()] = &cp

	out := cp
	return &out, nil
}

func (r *MemoryNotesRepo) ListByUser(_ context.Context, userID string) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Note
	for _, n := range r.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryNotesRepo) Get(_ context.Context, id string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *MemoryNotesRepo) Update(_ context.Context, id string, title, content string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	cp := *n
	return &cp, nil
}

func (r *MemoryNotesRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	return nil
}
