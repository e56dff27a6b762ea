package services

import (
	"testing"
	"time"

	anatomymodels "github.com/medikahub/medika-backend/internal/anatomy/models"
	"github.com/medikahub/medika-backend/internal/common/database"
	exercisemodels "github.com/medikahub/medika-backend/internal/exercises/models"
	flashcardmodels "github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/reminders/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitWithType("sqlite", "file::memory:?cache=shared"))
	require.NoError(t, database.DB.AutoMigrate(
		&flashcardmodels.CardProgress{},
		&anatomymodels.AnatomyProgress{},
		&exercisemodels.ExerciseProgress{},
		&models.ReviewReminder{},
	))
	t.Cleanup(func() { database.Close() })
}

func TestRefreshRemindersCountsStaleItems(t *testing.T) {
	setupTestDB(t)

	now := time.Now()
	rows := []flashcardmodels.CardProgress{
		// Fresh and solid: weight stays at the floor.
		{UserID: 1, CardID: 10, TimesCorrect: 5, LastReviewedAt: now.Add(-24 * time.Hour)},
		// Missed twice: well past the threshold.
		{UserID: 1, CardID: 11, TimesIncorrect: 2, LastReviewedAt: now.Add(-24 * time.Hour)},
		// Untouched for two weeks: stale on recency alone.
		{UserID: 1, CardID: 12, TimesCorrect: 1, LastReviewedAt: now.Add(-14 * 24 * time.Hour)},
	}
	for i := range rows {
		require.NoError(t, database.DB.Create(&rows[i]).Error)
	}

	// A second user's anatomy misses count toward their own snapshot.
	require.NoError(t, database.DB.Create(&anatomymodels.AnatomyProgress{
		UserID: 2, QuestionID: 30, TimesIncorrect: 1, LastReviewedAt: now,
	}).Error)

	require.NoError(t, RefreshReminders(now))

	reminder, err := GetReminder(1)
	require.NoError(t, err)
	assert.Equal(t, 2, reminder.DueCount)

	reminder, err = GetReminder(2)
	require.NoError(t, err)
	assert.Equal(t, 1, reminder.DueCount)
}

func TestRefreshRemindersReplacesSnapshot(t *testing.T) {
	setupTestDB(t)

	now := time.Now()
	row := flashcardmodels.CardProgress{
		UserID: 7, CardID: 40, TimesIncorrect: 1, LastReviewedAt: now,
	}
	require.NoError(t, database.DB.Create(&row).Error)

	require.NoError(t, RefreshReminders(now))
	first, err := GetReminder(7)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DueCount)

	// The user drills the card back down; the next run overwrites.
	row.TimesIncorrect = 0
	row.TimesCorrect = 4
	require.NoError(t, database.DB.Save(&row).Error)

	require.NoError(t, RefreshReminders(now))
	second, err := GetReminder(7)
	require.NoError(t, err)
	assert.Equal(t, 0, second.DueCount)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetReminderUnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := GetReminder(99)
	assert.Error(t, err)
}
