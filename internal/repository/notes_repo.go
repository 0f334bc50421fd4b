package repository

import (
	"context"

	"roster-data/internal/domain"
)

// NotesRepo is plain CRUD over user annotations.
type NotesRepo interface {
	Create(ctx context.Context, n *domain.Note) (*domain.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Note, error)
	Get(ctx context.Context, id string) (*domain.Note, error)
	Update(ctx context.Context, id string, title, content string) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
}
