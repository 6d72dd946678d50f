package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/KUKARAF/webtimer/internal/clock"
	"github.com/KUKARAF/webtimer/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reclaimer periodically sweeps timers past expiry plus the grace window.
// It runs on its own schedule, decoupled from request handling, and holds no
// lock beyond the store's short-lived delete batch. A storage error is
// logged and the next scheduled run proceeds normally.
type Reclaimer struct {
	svc      *TimerService
	clk      clock.Clock
	interval time.Duration
	grace    time.Duration

	log zerolog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

func NewReclaimer(svc *TimerService, clk clock.Clock, interval, grace time.Duration) *Reclaimer {
	if clk == nil {
		clk = clock.System
	}
	return &Reclaimer{
		svc:      svc,
		clk:      clk,
		interval: interval,
		grace:    grace,
		log:      logger.With("reclaimer"),
	}
}

// Start runs one sweep immediately, then schedules recurring sweeps.
func (r *Reclaimer) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return nil
	}

	r.RunOnce()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), r.RunOnce); err != nil {
		return fmt.Errorf("schedule reclaim sweep: %w", err)
	}
	c.Start()
	r.cron = c

	r.log.Info().
		Dur("interval", r.interval).
		Dur("grace", r.grace).
		Msg("reclaim sweep started")
	return nil
}

// Stop halts the schedule. A sweep already in flight finishes.
func (r *Reclaimer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	r.cron = nil
	<-ctx.Done()
}

// RunOnce performs a single sweep at the current clock time.
func (r *Reclaimer) RunOnce() {
	deleted, err := r.svc.Reclaim(r.clk.Now(), r.grace)
	if err != nil {
		r.log.Error().Err(err).Msg("reclaim sweep failed")
		return
	}
	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Msg("reclaimed expired timers")
	}
}
