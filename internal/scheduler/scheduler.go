package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/phrasebot/internal/config"
	"github.com/example/phrasebot/internal/logger"
	"github.com/example/phrasebot/pkg/models"
	"github.com/go-co-op/gocron"
)

// Notifier sends a review reminder to a chat
type Notifier interface {
	SendReminder(ctx context.Context, chatID int64, lang models.Language, due int) error
}

// DueSource reports how many words each user should review now
type DueSource interface {
	DueReviews(ctx context.Context, now time.Time) ([]models.DueReview, error)
}

// Sweeper drops sessions idle since before
type Sweeper interface {
	SweepIdle(before time.Time) int
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	due       DueSource
	sweeper   Sweeper
	config    config.Scheduler
	idleTTL   time.Duration
	log       *logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	lastSent map[int64]time.Time
}

// New creates a new scheduler instance
func New(cfg config.Scheduler, idleTTL time.Duration, notifier Notifier, due DueSource, sweeper Sweeper, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		due:       due,
		sweeper:   sweeper,
		config:    cfg,
		idleTTL:   idleTTL,
		log:       log.With("component", "scheduler"),
		now:       time.Now,
		lastSent:  make(map[int64]time.Time),
	}
}

// Start registers the jobs and runs them in the background.
// Reminders follow config.Enabled; the idle sweep runs whenever an idle TTL is set.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.config.Enabled {
		_, err := s.scheduler.Every(s.config.ReminderEvery).SingletonMode().Do(func() {
			if _, err := s.CheckReminders(ctx); err != nil {
				s.log.Error("reminder check failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule reminders: %w", err)
		}
	}

	if s.idleTTL > 0 {
		_, err := s.scheduler.Every(s.config.SweepEvery).SingletonMode().Do(func() {
			s.SweepSessions()
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session sweep: %w", err)
		}
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started",
		"reminders", s.config.Enabled,
		"reminder_every", s.config.ReminderEvery.String(),
		"sweep_every", s.config.SweepEvery.String(),
	)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

// CheckReminders sends a reminder to every user with due words,
// at most once per ReminderGap and only within notification hours.
// It returns the number of reminders sent.
func (s *Scheduler) CheckReminders(ctx context.Context) (int, error) {
	now := s.now().UTC()

	// Проверяем, находится ли текущий час в диапазоне времени для отправки уведомлений
	if !s.withinHours(now.Hour()) {
		s.log.Debug("outside notification hours, skipping reminders",
			"hour", now.Hour(), "start", s.config.StartHour, "end", s.config.EndHour)
		return 0, nil
	}

	due, err := s.due.DueReviews(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to get due reviews: %w", err)
	}

	sent := 0
	for _, d := range due {
		if d.Due <= 0 || !s.shouldRemind(d.UserID, now) {
			continue
		}
		if err := s.notifier.SendReminder(ctx, d.TelegramID, d.UILanguage, d.Due); err != nil {
			s.log.Error("failed to send reminder", "user_id", d.UserID, "error", err)
			continue
		}
		s.markSent(d.UserID, now)
		sent++
	}

	if sent > 0 {
		s.log.Info("reminders sent", "count", sent)
	}
	return sent, nil
}

// SweepSessions discards sessions idle longer than the idle TTL
func (s *Scheduler) SweepSessions() int {
	now := s.now().UTC()
	removed := s.sweeper.SweepIdle(now.Add(-s.idleTTL))

	// забываем старые отметки о напоминаниях
	s.mu.Lock()
	for userID, at := range s.lastSent {
		if now.Sub(at) >= s.config.ReminderGap {
			delete(s.lastSent, userID)
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.log.Info("idle sessions removed", "count", removed)
	}
	return removed
}

func (s *Scheduler) withinHours(hour int) bool {
	start, end := s.config.StartHour, s.config.EndHour
	if start <= end {
		return hour >= start && hour <= end
	}
	// окно через полночь, например 22-6
	return hour >= start || hour <= end
}

func (s *Scheduler) shouldRemind(userID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastSent[userID]
	return !ok || now.Sub(last) >= s.config.ReminderGap
}

func (s *Scheduler) markSent(userID int64, now time.Time) {
	s.mu.Lock()
	s.lastSent[userID] = now
	s.mu.Unlock()
}
