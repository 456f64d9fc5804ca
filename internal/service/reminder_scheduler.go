package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ReminderScheduler sends reminders on a fixed interval. The lock is held
// for each run so the registry is never touched concurrently with other
// callers sharing it.
type ReminderScheduler struct {
	notifier *Notifier
	interval time.Duration
	lock     sync.Locker
	logger   zerolog.Logger
}

func NewReminderScheduler(notifier *Notifier, interval time.Duration, lock sync.Locker, logger zerolog.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		notifier: notifier,
		interval: interval,
		lock:     lock,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. A non-positive interval returns
// immediately.
func (s *ReminderScheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info().Msg("scheduled reminders disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Msg("started reminder scheduler")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("stopped reminder scheduler")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *ReminderScheduler) runOnce(ctx context.Context) {
	s.lock.Lock()
	results := s.notifier.SendReminders(ctx)
	s.lock.Unlock()

	failed := 0
	for _, r := range results {
		if r.Status != ReminderSent {
			failed++
		}
	}
	s.logger.Info().
		Int("reminders", len(results)).
		Int("failed", failed).
		Msg("scheduled reminder run finished")
}
