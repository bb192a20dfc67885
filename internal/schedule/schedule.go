// Package schedule runs the household's recurring jobs: the midnight
// chore reset, external feed syncs, and the morning chore reminder.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hearthside/hearth/internal/calendar"
	"github.com/hearthside/hearth/internal/photos"
	"github.com/hearthside/hearth/internal/push"
	"github.com/hearthside/hearth/internal/state"
)

// Scheduler owns the cron runner and the jobs it dispatches.
type Scheduler struct {
	cron     *cron.Cron
	store    *state.Store
	calendar *calendar.Service
	photos   *photos.Service
	notifier *push.Notifier
	logger   *slog.Logger
}

func New(st *state.Store, cal *calendar.Service, ph *photos.Service, notifier *push.Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		store:    st,
		calendar: cal,
		photos:   ph,
		notifier: notifier,
		logger:   logger.With("component", "schedule"),
	}
}

// Start registers the jobs and launches the cron runner.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{"0 0 * * *", "chore-reset", s.resetChores},
		{"30 7 * * *", "morning-reminder", s.morningReminder},
		{"15 * * * *", "calendar-sync", s.syncCalendar},
		{"45 */6 * * *", "photos-sync", s.syncPhotos},
	}

	for _, j := range jobs {
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() {
			s.logger.Debug("running job", "job", j.name)
			j.fn()
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(jobs))
	return nil
}

// Stop halts the runner and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// resetChores clears done flags on recurring chores at midnight. Points
// already earned stay earned.
func (s *Scheduler) resetChores() {
	weekday := time.Now().Weekday()
	var cleared int
	err := s.store.Update(func(f *state.Family) error {
		cleared = state.ResetRecurringChores(f, weekday)
		return nil
	})
	if err != nil {
		s.logger.Error("chore reset failed", "error", err)
		return
	}
	if cleared > 0 {
		s.logger.Info("recurring chores reset", "cleared", cleared)
	}
}

func (s *Scheduler) morningReminder() {
	if s.notifier == nil {
		return
	}
	s.notifier.MorningReminder(s.store.Snapshot())
}

func (s *Scheduler) syncCalendar() {
	if s.calendar == nil || !s.calendar.Configured() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.calendar.Sync(ctx, s.store)
}

func (s *Scheduler) syncPhotos() {
	if s.photos == nil || !s.photos.Configured() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.photos.Sync(ctx, s.store)
}
