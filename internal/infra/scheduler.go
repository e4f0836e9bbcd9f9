package infra

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"pegasis/internal/service"
)

// Scheduler runs the background market sync on a cron cadence.
type Scheduler struct {
	cron *cron.Cron
	sync *service.MarketSyncService
	spec string
}

// NewScheduler creates a market sync scheduler. spec is a standard cron
// expression; empty means every 15 minutes.
func NewScheduler(sync *service.MarketSyncService, spec string) *Scheduler {
	if spec == "" {
		spec = "*/15 * * * *"
	}
	return &Scheduler{
		cron: cron.New(),
		sync: sync,
		spec: spec,
	}
}

// Start registers the sync job and starts the cron loop. One sync fires
// immediately so the market catalog is warm before the first request.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunNow()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("market sync scheduler started")

	go s.RunNow()
	return nil
}

// RunNow triggers one sync pass outside the schedule.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.sync.SyncAll(ctx); err != nil {
		log.Error().Err(err).Msg("market sync failed")
	}
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("market sync scheduler stopped")
}
