package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Store is the slice of the store the sweeper needs.
type Store interface {
	DeactivateStaleSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	// Schedule is a cron expression (descriptors like @hourly accepted).
	Schedule string
	// Retention is how long an idle session stays active.
	Retention time.Duration
}

// Service deactivates chat sessions that have been idle past the retention
// window, on a cron schedule.
type Service struct {
	store    Store
	schedule cron.Schedule
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

func New(store Store, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@hourly"
	}
	if cfg.Retention < time.Minute {
		cfg.Retention = 30 * 24 * time.Hour
	}
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", cfg.Schedule, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		schedule: schedule,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start blocks, sweeping at each scheduled time until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("session sweeper started",
		"schedule", s.cfg.Schedule,
		"retention", s.cfg.Retention.String())

	for {
		next := s.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("session sweeper stopped")
			return nil
		case <-timer.C:
		}

		if err := s.SweepOnce(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("session sweeper stopped")
				return nil
			}
			s.logger.Error("session sweep failed", "error", err)
		}
	}
}

// SweepOnce deactivates every session idle past the retention window.
func (s *Service) SweepOnce(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.Retention)
	swept, err := s.store.DeactivateStaleSessions(ctx, cutoff)
	if err != nil {
		return err
	}
	if swept > 0 {
		s.logger.Info("stale sessions deactivated", "count", swept, "cutoff", cutoff.UTC().Format(time.RFC3339))
	}
	return nil
}
