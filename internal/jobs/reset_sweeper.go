package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/baechuer/commerce-api/internal/logger"
)

// ExpiredResetClearer is the slice of auth.UserRepo the sweeper needs.
type ExpiredResetClearer interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ResetTokenSweeper periodically nulls reset token pairs whose expiry has
// passed. Expired tokens are already rejected at use; this only keeps the
// table tidy.
type ResetTokenSweeper struct {
	repo    ExpiredResetClearer
	cron    *cron.Cron
	now     func() time.Time
	timeout time.Duration
}

func NewResetTokenSweeper(repo ExpiredResetClearer) *ResetTokenSweeper {
	return &ResetTokenSweeper{
		repo:    repo,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:     time.Now,
		timeout: 30 * time.Second,
	}
}

// Start registers the sweep under schedule (standard cron or @every) and
// starts the scheduler goroutine.
func (s *ResetTokenSweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	logger.Logger.Info().Str("schedule", schedule).Msg("reset token sweeper started")
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *ResetTokenSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *ResetTokenSweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.repo.ClearExpiredResetTokens(ctx, s.now().UTC())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("reset token sweep failed")
		return 0, err
	}
	if n > 0 {
		logger.Logger.Info().Int64("cleared", n).Msg("expired reset tokens cleared")
	}
	return n, nil
}
