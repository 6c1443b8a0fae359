// Package stats derives inventory aggregates.
package stats

import (
	"context"

	"github.com/stocktrack/stocktrack/internal/app/domain/stats"
	"github.com/stocktrack/stocktrack/internal/app/storage"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// Service computes inventory statistics. Results are recomputed fresh on each
// call; nothing is cached.
type Service struct {
	store storage.StatsStore
	log   *logger.Logger
}

// New constructs a stats service.
func New(store storage.StatsStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("stats")
	}
	return &Service{store: store, log: log}
}

// Compute returns entity counts, the low-stock count and the total stock
// value.
func (s *Service) Compute(ctx context.Context) (stats.Summary, error) {
	summary, err := s.store.CollectStats(ctx)
	if err != nil {
		return stats.Summary{}, errors.Internal("", err)
	}
	return summary, nil
}
