package repository

import (
	"context"
	"time"

	"roster-data/internal/domain"
)

// GuestsRepo persists guest users. Mutations are expressed as conditional
// single-document updates so two concurrent requests from the same guest
// cannot silently lose a page advance or a log entry.
type GuestsRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.GuestUser, error)
	Create(ctx context.Context, g *domain.GuestUser) error

	AppendActivity(ctx context.Context, email string, e domain.ActivityEntry) error

	// SetPage advances current_page to page (and max_page_reached to at least
	// page) only while current_page <= page still holds; returns ErrNotFound
	// when a concurrent request already moved past it.
	SetPage(ctx context.Context, email string, page int, e domain.ActivityEntry) (*domain.GuestUser, error)
	ResetPages(ctx context.Context, email string, e domain.ActivityEntry) error

	SetRevoked(ctx context.Context, email string, revoked bool, at *time.Time, e domain.ActivityEntry) error

	StartSession(ctx context.Context, email string, s domain.GuestSession) error
	CloseSession(ctx context.Context, email, sessionID string, at time.Time) error

	AppendPageVisit(ctx context.Context, email string, v domain.PageVisit) error
	AppendSearch(ctx context.Context, email string, s domain.SearchEvent) error
	AppendCopyAction(ctx context.Context, email string, c domain.CopyAction) error
}
