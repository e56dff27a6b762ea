package services

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/medikahub/medika-backend/internal/reminders/models"
	"github.com/medikahub/medika-backend/internal/reminders/repository"
	"github.com/medikahub/medika-backend/internal/review"
	"github.com/medikahub/medika-backend/pkg/config"
	"github.com/medikahub/medika-backend/pkg/logger"
	"go.uber.org/zap"
)

// dueWeightThreshold marks an item as needing review. A fresh, never
// missed item sits at weight 1; a week of staleness or one net miss
// pushes it to 2 or above.
const dueWeightThreshold = 2.0

// Scheduler runs the daily reminder refresh.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runAt     string
}

func NewScheduler(cfg config.RemindersConfig) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		runAt:     cfg.RunAt,
	}
}

// Start schedules the daily refresh and returns immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.runAt).Do(s.refresh); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// refresh recomputes every user's due count.
func (s *Scheduler) refresh() {
	if err := RefreshReminders(time.Now()); err != nil {
		logger.Error("reminder refresh failed", zap.Error(err))
	}
}

// RefreshReminders counts, per user, the progress rows whose review
// weight has climbed past the due threshold, and stores a snapshot.
func RefreshReminders(now time.Time) error {
	byUser, err := repository.ProgressByUser()
	if err != nil {
		return err
	}

	for userID, rows := range byUser {
		due := 0
		for _, p := range rows {
			if review.Weight(p, now) >= dueWeightThreshold {
				due++
			}
		}
		if err := repository.UpsertReminder(userID, due, now); err != nil {
			return err
		}
		logger.Debug("reminder refreshed",
			zap.Uint("user_id", userID),
			zap.Int("due_count", due))
	}
	return nil
}

// GetReminder returns the user's latest snapshot.
func GetReminder(userID uint) (*models.ReviewReminder, error) {
	return repository.GetReminder(userID)
}
