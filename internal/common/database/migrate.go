package database

import (
	anatomymodels "github.com/medikahub/medika-backend/internal/anatomy/models"
	calcmodels "github.com/medikahub/medika-backend/internal/calculators/models"
	exercisemodels "github.com/medikahub/medika-backend/internal/exercises/models"
	flashcardmodels "github.com/medikahub/medika-backend/internal/flashcards/models"
	remindermodels "github.com/medikahub/medika-backend/internal/reminders/models"
)

// Migrate creates or updates every table the platform uses.
func Migrate() error {
	return DB.AutoMigrate(
		&User{},

		&flashcardmodels.Deck{},
		&flashcardmodels.Card{},
		&flashcardmodels.CardProgress{},
		&flashcardmodels.StudySession{},

		&anatomymodels.AnatomyQuiz{},
		&anatomymodels.AnatomyQuestion{},
		&anatomymodels.AnatomyProgress{},

		&exercisemodels.Exercise{},
		&exercisemodels.ExerciseQuestion{},
		&exercisemodels.ExerciseProgress{},

		&calcmodels.CalculatorTopic{},
		&calcmodels.CalculatorField{},
		&calcmodels.FieldOption{},
		&calcmodels.FieldDisplayCondition{},
		&calcmodels.CalculatorClassification{},
		&calcmodels.ClassificationOption{},
		&calcmodels.OptionCondition{},

		&remindermodels.ReviewReminder{},
	)
}
