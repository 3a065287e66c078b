package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ScheduleOff disables a scheduled job.
const ScheduleOff = "off"

// Scheduler runs the periodic catalog refresh and idle session expiry.
type Scheduler struct {
	cron    *cron.Cron
	service *PaperTradingService
	timeout time.Duration
	maxIdle time.Duration
}

// NewScheduler registers the jobs. refreshSchedule is a standard five-field cron
// expression or "off"; a zero maxIdle disables session expiry.
func NewScheduler(svc *PaperTradingService, refreshSchedule string, timeout, maxIdle time.Duration) (*Scheduler, error) {
	logger := cronLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		service: svc,
		timeout: timeout,
		maxIdle: maxIdle,
	}

	if refreshSchedule != ScheduleOff {
		if _, err := s.cron.AddFunc(refreshSchedule, s.refresh); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", refreshSchedule, err)
		}
	}
	if maxIdle > 0 {
		if _, err := s.cron.AddFunc("@every 1m", s.expire); err != nil {
			return nil, fmt.Errorf("failed to schedule session expiry: %w", err)
		}
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	status, err := s.service.Refresh(ctx)
	if err != nil {
		// Refresh already logged the failure.
		return
	}
	log.Debug().Uint64("generation", status.Generation).Int("days", status.Days).Msg("scheduled catalog refresh done")
}

func (s *Scheduler) expire() {
	s.service.ExpireSessions(s.maxIdle)
}

// cronLogger routes cron output through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Str("component", "scheduler").Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Str("component", "scheduler").Err(err).Fields(keysAndValues).Msg(msg)
}
