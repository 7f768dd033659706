// Package scheduler drives the periodic refresh of every location
// coordinator.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/andrejs2/slovenian-weather-integration/internal/coordinator"
	"github.com/andrejs2/slovenian-weather-integration/internal/log"
)

// Scheduler periodically refreshes the configured location coordinators.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	coordinators []*coordinator.Coordinator
	interval     time.Duration
}

// New creates a Scheduler over the given coordinators.
func New(coordinators []*coordinator.Coordinator, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		coordinators: coordinators,
		interval:     interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// job runs in singleton mode so a slow cycle is never stacked on top of a
// running one; coordinators additionally coalesce overlapping refreshes
// themselves.
func (s *Scheduler) Start() error {
	if len(s.coordinators) == 0 {
		log.Warnf("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 2 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	log.Debugf("scheduler: running refresh job for %d locations", len(s.coordinators))

	var wg sync.WaitGroup
	for _, c := range s.coordinators {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Refresh(context.Background()); err != nil {
				log.Warnw("scheduler: refresh failed", "location", c.Location(), "error", err)
			}
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
