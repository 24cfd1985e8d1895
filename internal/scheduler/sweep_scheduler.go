package scheduler

import (
	"time"

	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/robfig/cron/v3"
)

const DefaultSweepSpec = "@every 10m"

// Sweeper is an in-process store that can drop its expired entries.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SweepScheduler expires in-memory sessions and carts. Redis-backed stores expire on their own.
type SweepScheduler struct {
	cron     *cron.Cron
	spec     string
	sweepers map[string]Sweeper
	now      func() time.Time
}

func NewSweepScheduler(spec string, sweepers map[string]Sweeper) *SweepScheduler {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &SweepScheduler{
		cron:     cron.New(),
		spec:     spec,
		sweepers: sweepers,
		now:      time.Now,
	}
}

func (s *SweepScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for session sweep", err, logger.Fields{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Session sweep scheduler started", logger.Fields{
		"spec":   s.spec,
		"stores": len(s.sweepers),
	})
	return nil
}

// RunOnce sweeps every store once.
func (s *SweepScheduler) RunOnce() {
	now := s.now()
	for name, sweeper := range s.sweepers {
		removed := sweeper.Sweep(now)
		if removed > 0 {
			logger.Info("Expired entries swept", logger.Fields{
				"store":   name,
				"removed": removed,
			})
		}
	}
}

func (s *SweepScheduler) Stop() {
	logger.Info("Stopping session sweep scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Session sweep scheduler stopped")
}
