package repository

import (
	"time"

	"github.com/medikahub/medika-backend/internal/anatomy/models"
	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"gorm.io/gorm"
)

func CreateQuiz(quiz *models.AnatomyQuiz) error {
	if result := database.DB.Create(quiz); result.Error != nil {
		return errors.Internal("failed to create quiz", result.Error.Error())
	}
	return nil
}

func GetQuiz(quizID uint) (*models.AnatomyQuiz, error) {
	var quiz models.AnatomyQuiz
	result := database.DB.First(&quiz, quizID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("quiz")
		}
		return nil, errors.Internal("failed to fetch quiz", result.Error.Error())
	}
	return &quiz, nil
}

func ListQuizzes(region string) ([]*models.AnatomyQuiz, error) {
	var quizzes []*models.AnatomyQuiz
	query := database.DB.Order("title ASC")
	if region != "" {
		query = query.Where("region = ?", region)
	}
	if result := query.Find(&quizzes); result.Error != nil {
		return nil, errors.Internal("failed to list quizzes", result.Error.Error())
	}
	return quizzes, nil
}

func CreateQuestion(question *models.AnatomyQuestion) error {
	if result := database.DB.Create(question); result.Error != nil {
		return errors.Internal("failed to create question", result.Error.Error())
	}
	return nil
}

func GetQuestion(questionID uint) (*models.AnatomyQuestion, error) {
	var question models.AnatomyQuestion
	result := database.DB.First(&question, questionID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("question")
		}
		return nil, errors.Internal("failed to fetch question", result.Error.Error())
	}
	return &question, nil
}

func GetQuizQuestions(quizID uint) ([]*models.AnatomyQuestion, error) {
	var questions []*models.AnatomyQuestion
	result := database.DB.
		Where("quiz_id = ?", quizID).
		Order("display_order ASC, id ASC").
		Find(&questions)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch questions", result.Error.Error())
	}
	return questions, nil
}

// GetProgressForQuiz returns the user's progress keyed by question id.
func GetProgressForQuiz(userID, quizID uint) (map[uint]*models.AnatomyProgress, error) {
	var rows []*models.AnatomyProgress
	result := database.DB.
		Joins("JOIN anatomy_questions ON anatomy_questions.id = anatomy_progresses.question_id").
		Where("anatomy_progresses.user_id = ? AND anatomy_questions.quiz_id = ?", userID, quizID).
		Find(&rows)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch progress", result.Error.Error())
	}

	byQuestion := make(map[uint]*models.AnatomyProgress, len(rows))
	for _, row := range rows {
		byQuestion[row.QuestionID] = row
	}
	return byQuestion, nil
}

// UpsertProgress increments counters for a (user, question) pair.
func UpsertProgress(userID, questionID uint, correct bool, now time.Time) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var progress models.AnatomyProgress
		result := tx.Where("user_id = ? AND question_id = ?", userID, questionID).First(&progress)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}

		if result.Error == gorm.ErrRecordNotFound {
			progress = models.AnatomyProgress{UserID: userID, QuestionID: questionID}
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
