package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"roster-data/internal/repository"

	"go.uber.org/zap"
)

// IngestSummary reports what one ingestion did.
type IngestSummary struct {
	Total   int `json:"total"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Updated int `json:"updated"`
}

// IngestService runs the spreadsheet ingestion pipeline.
type IngestService interface {
	IngestSheet(ctx context.Context, sheet io.Reader, uploader string) (*IngestSummary, error)
}

type ingestService struct {
	profiles repository.ProfilesRepo
	ledger   repository.LedgerRepo
	notifier Notifier
	logger   *zap.Logger

	// single-writer: two concurrent uploads must not interleave the
	// staging/promote/ledger steps
	mu sync.Mutex
}

func NewIngestService(profiles repository.ProfilesRepo, ledger repository.LedgerRepo, notifier Notifier, logger *zap.Logger) IngestService {
	return &ingestService{
		profiles: profiles,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
	}
}

// IngestSheet: parse and validate the whole sheet first, so a malformed or
// empty upload fails here and leaves every collection untouched. Only then
// load staging, diff against the current snapshot, promote, and replace the
// ledger.
func (s *ingestService) IngestSheet(ctx context.Context, sheet io.Reader, uploader string) (*IngestSummary, error) {
	parsed, err := ParseRosterSheet(sheet)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.profiles.AllCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current snapshot: %w", err)
	}

	now := time.Now().UTC()
	delta := DiffSnapshots(current, parsed, now)

	if err := s.profiles.LoadStaging(ctx, parsed); err != nil {
		return nil, err
	}
	if err := s.profiles.PromoteStaging(ctx); err != nil {
		return nil, err
	}
	if err := s.ledger.ReplaceDelta(ctx, delta.Added, delta.Removed, delta.Updated); err != nil {
		return nil, err
	}

	summary := &IngestSummary{
		Total:   len(parsed),
		Added:   len(delta.Added),
		Removed: len(delta.Removed),
		Updated: len(delta.Updated),
	}

	s.logger.Info("roster ingestion completed",
		zap.String("uploader", uploader),
		zap.Int("total", summary.Total),
		zap.Int("added", summary.Added),
		zap.Int("removed", summary.Removed),
		zap.Int("updated", summary.Updated),
	)

	if err := s.notifier.SendIngestSummary(ctx, IngestNotification{
		Uploader:    uploader,
		CompletedAt: now,
		RecordCount: summary.Total,
		Added:       summary.Added,
		Removed:     summary.Removed,
		Updated:     summary.Updated,
	}); err != nil {
		// notification is best-effort, the snapshot is already live
		s.logger.Error("ingestion summary notification failed", zap.Error(err))
	}

	return summary, nil
}
