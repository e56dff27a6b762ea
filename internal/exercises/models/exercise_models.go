package models

import (
	"strings"
	"time"
)

const choiceSeparator = "|"

// EncodeChoices packs answer choices into the stored column format.
func EncodeChoices(choices []string) string {
	return strings.Join(choices, choiceSeparator)
}

// DecodeChoices unpacks the stored column format back into choices.
func DecodeChoices(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, choiceSeparator)
}

// Exercise is a multiple-choice question set for one subject area.
type Exercise struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"not null" json:"title"`
	Description string             `json:"description"`
	Subject     string             `gorm:"index" json:"subject"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Questions   []ExerciseQuestion `gorm:"foreignKey:ExerciseID" json:"questions,omitempty"`
}

// ExerciseQuestion holds one MCQ. Choices are stored as pipe-separated
// text so the table stays portable across sqlite and postgres.
type ExerciseQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExerciseID   uint      `gorm:"not null;index" json:"exercise_id"`
	Prompt       string    `gorm:"not null" json:"prompt"`
	Choices      string    `gorm:"not null" json:"-"`
	CorrectIndex int       `gorm:"not null" json:"-"`
	Explanation  string    `json:"explanation,omitempty"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExerciseProgress tracks one user's record on one question.
type ExerciseProgress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_exercise_progress_user_question" json:"user_id"`
	QuestionID     uint      `gorm:"not null;uniqueIndex:idx_exercise_progress_user_question" json:"question_id"`
	TimesCorrect   int       `json:"times_correct"`
	TimesIncorrect int       `json:"times_incorrect"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// Request/Response Models

type CreateExerciseRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
}

type CreateExerciseQuestionRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	Choices      []string `json:"choices" binding:"required,min=2,dive,required"`
	CorrectIndex int      `json:"correct_index" binding:"gte=0"`
	Explanation  string   `json:"explanation"`
	DisplayOrder int      `json:"display_order"`
}

// QuestionView is an ExerciseQuestion with the answer withheld.
type QuestionView struct {
	ID           uint     `json:"id"`
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	DisplayOrder int      `json:"display_order"`
}

type StartExerciseResponse struct {
	ExerciseID uint           `json:"exercise_id"`
	Title      string         `json:"title"`
	Questions  []QuestionView `json:"questions"`
}

type ChoiceRequest struct {
	QuestionID  uint `json:"question_id" binding:"required"`
	ChoiceIndex int  `json:"choice_index" binding:"gte=0"`
}

type ChoiceResponse struct {
	IsCorrect    bool   `json:"is_correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`
}

type ExerciseStatsResponse struct {
	ExerciseID     uint    `json:"exercise_id"`
	TotalQuestions int     `json:"total_questions"`
	Attempted      int     `json:"attempted"`
	TotalCorrect   int     `json:"total_correct"`
	TotalIncorrect int     `json:"total_incorrect"`
	Accuracy       float64 `json:"accuracy"`
}
