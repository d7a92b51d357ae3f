// Package reminder runs the hourly reminder pass: for every user with
// notifications enabled, evaluate the fixed trigger table against the
// current wall-clock hour and emit the matching reminders.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avery-dunn/nutriguide/internal/metrics"
	"github.com/avery-dunn/nutriguide/internal/models"
)

// Clock abstracts time.Now so tests can drive the evaluator across
// hours deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// UserSource lists the users eligible for reminders.
type UserSource interface {
	ListUsersWithNotificationsEnabled(ctx context.Context) ([]models.User, error)
}

// Sender emits one notification. Satisfied by *notify.Notifier.
type Sender interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, category string) (uuid.UUID, error)
}

// Evaluator fires at most one pass per wall-clock hour. A failure for
// one user never aborts the pass for the rest.
type Evaluator struct {
	users   UserSource
	sender  Sender
	clock   Clock
	logger  *logrus.Logger
	metrics *metrics.Metrics

	interval time.Duration

	mu       sync.Mutex
	lastHour time.Time
}

func NewEvaluator(users UserSource, sender Sender, clock Clock, m *metrics.Metrics, logger *logrus.Logger) *Evaluator {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{
		users:    users,
		sender:   sender,
		clock:    clock,
		logger:   logger,
		metrics:  m,
		interval: time.Minute,
	}
}

// Run ticks until the context is cancelled. The tick interval is much
// shorter than an hour; RunTick's hour dedup keeps passes hourly.
func (e *Evaluator) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("reminder evaluator stopped")
			return
		case <-ticker.C:
			e.RunTick(ctx, e.clock.Now())
		}
	}
}

// RunTick evaluates the trigger table for the hour containing now.
// Subsequent calls within the same hour are no-ops.
func (e *Evaluator) RunTick(ctx context.Context, now time.Time) {
	hour := now.UTC().Truncate(time.Hour)
	e.mu.Lock()
	if hour.Equal(e.lastHour) {
		e.mu.Unlock()
		return
	}
	e.lastHour = hour
	e.mu.Unlock()

	users, err := e.users.ListUsersWithNotificationsEnabled(ctx)
	if err != nil {
		// Give the hour back so the next tick retries the pass.
		e.mu.Lock()
		e.lastHour = time.Time{}
		e.mu.Unlock()
		e.logger.WithError(err).Error("reminder pass: listing users failed")
		return
	}
	if e.metrics != nil {
		e.metrics.ReminderPasses.Inc()
	}

	h := hour.Hour()
	for i := range users {
		if err := e.remindUser(ctx, &users[i], h); err != nil {
			if e.metrics != nil {
				e.metrics.ReminderUserFailures.Inc()
			}
			e.logger.WithError(err).WithField("user_id", users[i].ID).Error("reminder pass: user failed")
		}
	}
}

func (e *Evaluator) remindUser(ctx context.Context, u *models.User, hour int) error {
	if u.Prefs.WaterReminder && hour >= 8 && hour <= 20 && hour%2 == 0 {
		if _, err := e.sender.Notify(ctx, u.ID, "💧 Time to Drink Water!",
			"Stay hydrated! Drink a glass of water.", models.CategoryWater); err != nil {
			return err
		}
	}

	if u.Prefs.MealReminder {
		switch hour {
		case 8:
			if _, err := e.sender.Notify(ctx, u.ID, "🍳 Breakfast Time!",
				"Don't forget to have your breakfast!", models.CategoryMeal); err != nil {
				return err
			}
		case 13:
			if _, err := e.sender.Notify(ctx, u.ID, "🥗 Lunch Time!",
				"Time for a healthy lunch!", models.CategoryMeal); err != nil {
				return err
			}
		case 19:
			if _, err := e.sender.Notify(ctx, u.ID, "🍲 Dinner Time!",
				"Don't skip dinner!", models.CategoryMeal); err != nil {
				return err
			}
		}
	}

	if u.Prefs.WorkoutReminder && hour == 17 {
		if _, err := e.sender.Notify(ctx, u.ID, "🏋️‍♂️ Workout Time!",
			"Time for your daily workout!", models.CategoryWorkout); err != nil {
			return err
		}
	}

	if u.Prefs.SleepReminder && hour == 22 {
		if _, err := e.sender.Notify(ctx, u.ID, "😴 Bedtime!",
			"Time to wind down and prepare for sleep.", models.CategorySleep); err != nil {
			return err
		}
	}
	return nil
}
