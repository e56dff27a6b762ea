package models

import "time"

// AnatomyQuiz is an image-based identification quiz, e.g. "Bones of the
// hand".
type AnatomyQuiz struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Region      string    `gorm:"index" json:"region"` // e.g. "upper limb"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnatomyQuestion shows an image with a marked structure; the user names
// it in free text.
type AnatomyQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuizID       uint      `gorm:"not null;index" json:"quiz_id"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	Prompt       string    `gorm:"not null" json:"prompt"`
	Answer       string    `gorm:"not null" json:"answer"`
	Explanation  string    `json:"explanation,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// AnatomyProgress tracks per-user answer counters; one row per
// (user, question).
type AnatomyProgress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_anatomy_progress_user_question" json:"user_id"`
	QuestionID     uint      `gorm:"not null;uniqueIndex:idx_anatomy_progress_user_question" json:"question_id"`
	TimesCorrect   int       `json:"times_correct"`
	TimesIncorrect int       `json:"times_incorrect"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// Request/Response Models

type CreateQuizRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Region      string `json:"region"`
}

type CreateQuestionRequest struct {
	ImageURL     string `json:"image_url" binding:"required,url"`
	Prompt       string `json:"prompt" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
	Explanation  string `json:"explanation"`
	DisplayOrder int    `json:"display_order"`
}

type StartQuizResponse struct {
	QuizID    uint              `json:"quiz_id"`
	Title     string            `json:"title"`
	Questions []AnatomyQuestion `json:"questions"`
}

type AnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

type AnswerResponse struct {
	IsCorrect     bool    `json:"is_correct"`
	Similarity    float64 `json:"similarity"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation,omitempty"`
}

type QuizStatsResponse struct {
	QuizID         uint    `json:"quiz_id"`
	TotalQuestions int     `json:"total_questions"`
	Attempted      int     `json:"attempted"`
	TotalCorrect   int     `json:"total_correct"`
	TotalIncorrect int     `json:"total_incorrect"`
	Accuracy       float64 `json:"accuracy"`
}
