package services

import (
	"time"

	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/metrics"
	"github.com/medikahub/medika-backend/internal/exercises/models"
	"github.com/medikahub/medika-backend/internal/exercises/repository"
	"github.com/medikahub/medika-backend/internal/review"
)

var scheduler = review.NewScheduler()

// SetScheduler overrides the scheduler, for deterministic tests.
func SetScheduler(s *review.Scheduler) {
	scheduler = s
}

func CreateExercise(req models.CreateExerciseRequest) (*models.Exercise, error) {
	exercise := &models.Exercise{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
	}
	if err := repository.CreateExercise(exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func ListExercises(subject string) ([]*models.Exercise, error) {
	return repository.ListExercises(subject)
}

func AddQuestion(exerciseID uint, req models.CreateExerciseQuestionRequest) (*models.ExerciseQuestion, error) {
	if _, err := repository.GetExercise(exerciseID); err != nil {
		return nil, err
	}
	if req.CorrectIndex >= len(req.Choices) {
		return nil, errors.Validation("correct_index is out of range", "it must point at one of the provided choices")
	}
	question := &models.ExerciseQuestion{
		ExerciseID:   exerciseID,
		Prompt:       req.Prompt,
		Choices:      models.EncodeChoices(req.Choices),
		CorrectIndex: req.CorrectIndex,
		Explanation:  req.Explanation,
		DisplayOrder: req.DisplayOrder,
	}
	if err := repository.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// StartExercise returns the questions in weighted review order, with the
// correct choice withheld from the payload.
func StartExercise(userID, exerciseID uint) (*models.StartExerciseResponse, error) {
	exercise, err := repository.GetExercise(exerciseID)
	if err != nil {
		return nil, err
	}
	questions, err := repository.GetExerciseQuestions(exerciseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.Unprocessable("exercise has no questions", "add questions before starting")
	}

	progressRows, err := repository.GetProgressForExercise(userID, exerciseID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(questions))
	byID := make(map[uint]*models.ExerciseQuestion, len(questions))
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

	views := make([]models.QuestionView, len(orderedIDs))
	for i, id := range orderedIDs {
		q := byID[id]
		views[i] = models.QuestionView{
			ID:           q.ID,
			Prompt:       q.Prompt,
			Choices:      models.DecodeChoices(q.Choices),
			DisplayOrder: q.DisplayOrder,
		}
	}

	return &models.StartExerciseResponse{
		ExerciseID: exercise.ID,
		Title:      exercise.Title,
		Questions:  views,
	}, nil
}

// SubmitChoice grades a picked option by exact index match.
func SubmitChoice(userID uint, req models.ChoiceRequest) (*models.ChoiceResponse, error) {
	question, err := repository.GetQuestion(req.QuestionID)
	if err != nil {
		return nil, err
	}
	if req.ChoiceIndex >= len(models.DecodeChoices(question.Choices)) {
		return nil, errors.BadRequest("choice_index is out of range")
	}

	isCorrect := req.ChoiceIndex == question.CorrectIndex

	if err := repository.UpsertProgress(userID, question.ID, isCorrect, time.Now()); err != nil {
		return nil, err
	}
	metrics.RecordAnswer("exercises", isCorrect)

	return &models.ChoiceResponse{
		IsCorrect:    isCorrect,
		CorrectIndex: question.CorrectIndex,
		Explanation:  question.Explanation,
	}, nil
}

// GetExerciseStats aggregates the user's counters over one exercise.
func GetExerciseStats(userID, exerciseID uint) (*models.ExerciseStatsResponse, error) {
	questions, err := repository.GetExerciseQuestions(exerciseID)
	if err != nil {
		return nil, err
	}
	progressRows, err := repository.GetProgressForExercise(userID, exerciseID)
	if err != nil {
		return nil, err
	}

	stats := &models.ExerciseStatsResponse{
		ExerciseID:     exerciseID,
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
