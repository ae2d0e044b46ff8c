// Package scheduler refreshes weather on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
)

const jobTimeout = 30 * time.Second

// Refresher is satisfied by presentation.StateHolder.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
}

func New(refresher Refresher, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// a slow refresh must not overlap the next tick
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
	}
}

// NewFromConfig uses scheduler.interval.
func NewFromConfig(refresher Refresher) *Scheduler {
	return New(refresher, config.GetRefreshInterval())
}

// Start runs the first refresh immediately, then one per interval.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := s.refresher.Refresh(ctx); err != nil {
			config.GetLogger().Errorw("Error refreshing weather", "error", err)
			return
		}
		config.GetLogger().Debugw("weather refreshed", "interval", interval.String())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
