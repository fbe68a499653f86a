package service

import (
	"context"
	"time"

	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/rs/zerolog"
)

// Scheduler periodically advances rounds and resubmits stalled decryption
// requests.
type Scheduler struct {
	driver      ports.RoundDriver
	interval    time.Duration
	autoAdvance bool
	log         zerolog.Logger
}

// NewScheduler creates a scheduler ticking every interval.
func NewScheduler(driver ports.RoundDriver, interval time.Duration, autoAdvance bool, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		driver:      driver,
		interval:    interval,
		autoAdvance: autoAdvance,
		log:         log,
	}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Bool("auto_advance", s.autoAdvance).Msg("round scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("round scheduler stopped")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.autoAdvance {
		round, err := s.driver.AdvanceRound(ctx)
		switch {
		case err == nil:
			s.log.Info().Uint64("round_id", round.ID).Msg("round advanced by scheduler")
		case apperror.HasCode(err, apperror.CodeRoundNotReady),
			apperror.HasCode(err, apperror.CodeRoundAlreadyPending):
		default:
			s.log.Error().Err(err).Msg("scheduled round advance failed")
		}
	}

	if _, err := s.driver.ResubmitStalled(ctx); err != nil {
		s.log.Error().Err(err).Msg("stalled decryption check failed")
	}
}
