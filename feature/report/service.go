package report

import (
	"context"

	"stock-submitter/core/library"

	"go.uber.org/zap"
)

// Service provides read access to the run ledger.
type Service struct {
	lib    *library.Library
	logger *zap.Logger
}

// NewService creates a new report service.
func NewService(lib *library.Library, logger *zap.Logger) *Service {
	return &Service{lib: lib, logger: logger}
}

// ListRuns returns the most recent runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]library.RunRecord, error) {
	return s.lib.Runs(ctx, limit)
}

// GetRun returns one run with its outcomes.
func (s *Service) GetRun(ctx context.Context, id string) (*library.RunRecord, error) {
	return s.lib.RunByID(ctx, id)
}
