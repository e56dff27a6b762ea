package services

import (
	"time"

	"github.com/medikahub/medika-backend/internal/anatomy/models"
	"github.com/medikahub/medika-backend/internal/anatomy/repository"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/metrics"
	"github.com/medikahub/medika-backend/internal/grading"
	"github.com/medikahub/medika-backend/internal/review"
)

var scheduler = review.NewScheduler()

// SetScheduler overrides the scheduler, for deterministic tests.
func SetScheduler(s *review.Scheduler) {
	scheduler = s
}

func CreateQuiz(req models.CreateQuizRequest) (*models.AnatomyQuiz, error) {
	quiz := &models.AnatomyQuiz{
		Title:       req.Title,
		Description: req.Description,
		Region:      req.Region,
	}
	if err := repository.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func ListQuizzes(region string) ([]*models.AnatomyQuiz, error) {
	return repository.ListQuizzes(region)
}

func AddQuestion(quizID uint, req models.CreateQuestionRequest) (*models.AnatomyQuestion, error) {
	if _, err := repository.GetQuiz(quizID); err != nil {
		return nil, err
	}
	question := &models.AnatomyQuestion{
		QuizID:       quizID,
		ImageURL:     req.ImageURL,
		Prompt:       req.Prompt,
		Answer:       req.Answer,
		Explanation:  req.Explanation,
		DisplayOrder: req.DisplayOrder,
	}
	if err := repository.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// StartQuiz returns the quiz questions in weighted review order for the
// user: structures they keep misnaming come up first.
func StartQuiz(userID, quizID uint) (*models.StartQuizResponse, error) {
	quiz, err := repository.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	questions, err := repository.GetQuizQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.Unprocessable("quiz has no questions", "add questions before starting")
	}

	progressRows, err := repository.GetProgressForQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(questions))
	byID := make(map[uint]*models.AnatomyQuestion, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
		byID[q.ID] = q
	}

	progress := make(map[uint]review.Progress, len(progressRows))
	for questionID, row := range progressRows {
		progress[questionID] = review.Progress{
			TimesCorrect:   row.TimesCorrect,
			TimesIncorrect: row.TimesIncorrect,
			LastReviewedAt: row.LastReviewedAt,
		}
	}

	orderedIDs, err := scheduler.Order(review.Weighted, ids, progress, time.Now())
	if err != nil {
		return nil, errors.Internal("failed to order questions", err.Error())
	}
	metrics.SchedulerRuns.WithLabelValues("weighted").Inc()

	ordered := make([]models.AnatomyQuestion, len(orderedIDs))
	for i, id := range orderedIDs {
		ordered[i] = *byID[id]
	}

	return &models.StartQuizResponse{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Questions: ordered,
	}, nil
}

// SubmitAnswer grades a structure name against the reference answer.
func SubmitAnswer(userID uint, req models.AnswerRequest) (*models.AnswerResponse, error) {
	question, err := repository.GetQuestion(req.QuestionID)
	if err != nil {
		return nil, err
	}

	similarity := grading.Similarity(req.Answer, question.Answer)
	isCorrect := similarity >= grading.CorrectThreshold

	if err := repository.UpsertProgress(userID, question.ID, isCorrect, time.Now()); err != nil {
		return nil, err
	}
	metrics.RecordAnswer("anatomy", isCorrect)

	return &models.AnswerResponse{
		IsCorrect:     isCorrect,
		Similarity:    similarity,
		CorrectAnswer: question.Answer,
		Explanation:   question.Explanation,
	}, nil
}

// GetQuizStats aggregates the user's counters over one quiz.
func GetQuizStats(userID, quizID uint) (*models.QuizStatsResponse, error) {
	questions, err := repository.GetQuizQuestions(quizID)
	if err != nil {
		return nil, err
	}
	progressRows, err := repository.GetProgressForQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}

	stats := &models.QuizStatsResponse{
		QuizID:         quizID,
		TotalQuestions: len(questions),
		Attempted:      len(progressRows),
	}
	for _, row := range progressRows {
		stats.TotalCorrect += row.TimesCorrect
		stats.TotalIncorrect += row.TimesIncorrect
	}
	if total := stats.TotalCorrect + stats.TotalIncorrect; total > 0 {
		stats.Accuracy = float64(stats.TotalCorrect) / float64(total) * 100
	}
	return stats, nil
}
