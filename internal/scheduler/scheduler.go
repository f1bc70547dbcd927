package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 2 * time.Minute

// Revaluer records a portfolio valuation for every company owning assets.
type Revaluer interface {
	RevalueAll(ctx context.Context, asOf time.Time) (int, error)
}

// Scheduler runs the nightly portfolio revaluation.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	revaluer Revaluer
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance.
// schedule is a standard 5-field cron expression (min, hour, dom, month, dow).
func NewScheduler(schedule string, revaluer Revaluer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		revaluer: revaluer,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the revaluation job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.revalue); err != nil {
		s.logger.Error("failed to schedule revaluation", zap.Error(err))
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running revaluation to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) revalue() {
	asOf := s.now()
	s.logger.Info("revaluing portfolios", zap.Time("as_of", asOf))

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	recorded, err := s.revaluer.RevalueAll(ctx, asOf)
	if err != nil {
		s.logger.Error("portfolio revaluation finished with errors",
			zap.Int("recorded", recorded),
			zap.Error(err))
		return
	}

	s.logger.Info("portfolio revaluation completed", zap.Int("recorded", recorded))
}
