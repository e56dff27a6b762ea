package repository

import (
	"time"

	anatomymodels "github.com/medikahub/medika-backend/internal/anatomy/models"
	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/common/errors"
	exercisemodels "github.com/medikahub/medika-backend/internal/exercises/models"
	flashcardmodels "github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/reminders/models"
	"github.com/medikahub/medika-backend/internal/review"
	"gorm.io/gorm"
)

// ProgressByUser gathers every progress row across features, keyed by
// user. The reminder job only needs the review counters, so rows from
// the three feature tables collapse into the shared review type.
func ProgressByUser() (map[uint][]review.Progress, error) {
	byUser := make(map[uint][]review.Progress)

	var cards []flashcardmodels.CardProgress
	if result := database.DB.Find(&cards); result.Error != nil {
		return nil, errors.Internal("failed to load flashcard progress", result.Error.Error())
	}
	for _, row := range cards {
		byUser[row.UserID] = append(byUser[row.UserID], review.Progress{
			TimesCorrect:   row.TimesCorrect,
			TimesIncorrect: row.TimesIncorrect,
			LastReviewedAt: row.LastReviewedAt,
		})
	}

	var anatomy []anatomymodels.AnatomyProgress
	if result := database.DB.Find(&anatomy); result.Error != nil {
		return nil, errors.Internal("failed to load anatomy progress", result.Error.Error())
	}
	for _, row := range anatomy {
		byUser[row.UserID] = append(byUser[row.UserID], review.Progress{
			TimesCorrect:   row.TimesCorrect,
			TimesIncorrect: row.TimesIncorrect,
			LastReviewedAt: row.LastReviewedAt,
		})
	}

	var exercises []exercisemodels.ExerciseProgress
	if result := database.DB.Find(&exercises); result.Error != nil {
		return nil, errors.Internal("failed to load exercise progress", result.Error.Error())
	}
	for _, row := range exercises {
		byUser[row.UserID] = append(byUser[row.UserID], review.Progress{
			TimesCorrect:   row.TimesCorrect,
			TimesIncorrect: row.TimesIncorrect,
			LastReviewedAt: row.LastReviewedAt,
		})
	}

	return byUser, nil
}

// UpsertReminder replaces the user's snapshot with fresh numbers.
func UpsertReminder(userID uint, dueCount int, now time.Time) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var reminder models.ReviewReminder
		result := tx.Where("user_id = ?", userID).First(&reminder)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}
		if result.Error == gorm.ErrRecordNotFound {
			reminder = models.ReviewReminder{UserID: userID}
		}
		reminder.DueCount = dueCount
		reminder.GeneratedAt = now
		return tx.Save(&reminder).Error
	})
	if err != nil {
		return errors.Internal("failed to store reminder", err.Error())
	}
	return nil
}

// GetReminder returns the user's latest snapshot.
func GetReminder(userID uint) (*models.ReviewReminder, error) {
	var reminder models.ReviewReminder
	result := database.DB.Where("user_id = ?", userID).First(&reminder)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("reminder")
		}
		return nil, errors.Internal("failed to fetch reminder", result.Error.Error())
	}
	return &reminder, nil
}
