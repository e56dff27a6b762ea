package repository

import (
	"time"

	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/exercises/models"
	"gorm.io/gorm"
)

func CreateExercise(exercise *models.Exercise) error {
	if result := database.DB.Create(exercise); result.Error != nil {
		return errors.Internal("failed to create exercise", result.Error.Error())
	}
	return nil
}

func GetExercise(exerciseID uint) (*models.Exercise, error) {
	var exercise models.Exercise
	result := database.DB.First(&exercise, exerciseID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("exercise")
		}
		return nil, errors.Internal("failed to fetch exercise", result.Error.Error())
	}
	return &exercise, nil
}

func ListExercises(subject string) ([]*models.Exercise, error) {
	var exercises []*models.Exercise
	query := database.DB.Order("title ASC")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if result := query.Find(&exercises); result.Error != nil {
		return nil, errors.Internal("failed to list exercises", result.Error.Error())
	}
	return exercises, nil
}

func CreateQuestion(question *models.ExerciseQuestion) error {
	if result := database.DB.Create(question); result.Error != nil {
		return errors.Internal("failed to create question", result.Error.Error())
	}
	return nil
}

func GetQuestion(questionID uint) (*models.ExerciseQuestion, error) {
	var question models.ExerciseQuestion
	result := database.DB.First(&question, questionID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("question")
		}
		return nil, errors.Internal("failed to fetch question", result.Error.Error())
	}
	return &question, nil
}

func GetExerciseQuestions(exerciseID uint) ([]*models.ExerciseQuestion, error) {
	var questions []*models.ExerciseQuestion
	result := database.DB.
		Where("exercise_id = ?", exerciseID).
		Order("display_order ASC, id ASC").
		Find(&questions)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch questions", result.Error.Error())
	}
	return questions, nil
}

// GetProgressForExercise returns the user's progress keyed by question id.
func GetProgressForExercise(userID, exerciseID uint) (map[uint]*models.ExerciseProgress, error) {
	var rows []*models.ExerciseProgress
	result := database.DB.
		Joins("JOIN exercise_questions ON exercise_questions.id = exercise_progresses.question_id").
		Where("exercise_progresses.user_id = ? AND exercise_questions.exercise_id = ?", userID, exerciseID).
		Find(&rows)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch progress", result.Error.Error())
	}

	byQuestion := make(map[uint]*models.ExerciseProgress, len(rows))
	for _, row := range rows {
		byQuestion[row.QuestionID] = row
	}
	return byQuestion, nil
}

// UpsertProgress increments counters for a (user, question) pair.
func UpsertProgress(userID, questionID uint, correct bool, now time.Time) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var progress models.ExerciseProgress
		result := tx.Where("user_id = ? AND question_id = ?", userID, questionID).First(&progress)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}

		if result.Error == gorm.ErrRecordNotFound {
			progress = models.ExerciseProgress{UserID: userID, QuestionID: questionID}
		}

		if correct {
			progress.TimesCorrect++
		} else {
			progress.TimesIncorrect++
		}
		progress.LastReviewedAt = now

		return tx.Save(&progress).Error
	})
	if err != nil {
		return errors.Internal("failed to update progress", err.Error())
	}
	return nil
}
