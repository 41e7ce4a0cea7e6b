package workspace

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"opsradar/core/store"
)

// RetentionConfig drives the stored-dataset sweeper.
type RetentionConfig struct {
	Enabled bool
	// Schedule is a cron expression; empty means daily at 03:00.
	Schedule string
	MaxAge   time.Duration
}

// Sweeper periodically deletes stored datasets older than the retention
// window. The in-memory workspace is untouched; only the snapshot store
// shrinks.
type Sweeper struct {
	cfg    RetentionConfig
	stores store.DatasetsStore
	log    zerolog.Logger
	cron   *cron.Cron
}

func NewSweeper(cfg RetentionConfig, datasets store.DatasetsStore, log zerolog.Logger) *Sweeper {
	return &Sweeper{cfg: cfg, stores: datasets, log: log}
}

// Start schedules the sweep. A nil or disabled sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil || !s.cfg.Enabled || s.cfg.MaxAge <= 0 {
		return nil
	}
	schedule := s.cfg.Schedule
	if schedule == "" {
		schedule = "0 3 * * *"
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.RunOnce(ctx, time.Now().UTC()) }); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	s.log.Info().Str("schedule", schedule).Dur("max_age", s.cfg.MaxAge).Msg("dataset retention sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce deletes datasets uploaded before now minus the retention window.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) {
	cutoff := now.Add(-s.cfg.MaxAge)
	n, err := s.stores.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Time("cutoff", cutoff).Msg("dataset retention sweep failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("pruned stored datasets")
	}
}
