package services

import (
	"encoding/json"
	"testing"

	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/exercises/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitWithType("sqlite", "file::memory:?cache=shared"))
	require.NoError(t, database.DB.AutoMigrate(
		&models.Exercise{},
		&models.ExerciseQuestion{},
		&models.ExerciseProgress{},
	))
	t.Cleanup(func() { database.Close() })
}

func seedExercise(t *testing.T) (*models.Exercise, *models.ExerciseQuestion) {
	t.Helper()
	exercise, err := CreateExercise(models.CreateExerciseRequest{
		Title:   "Pharmacology round 1",
		Subject: "pharmacology",
	})
	require.NoError(t, err)

	question, err := AddQuestion(exercise.ID, models.CreateExerciseQuestionRequest{
		Prompt:       "First-line treatment for anaphylaxis?",
		Choices:      []string{"Adrenaline", "Antihistamine", "Corticosteroid"},
		CorrectIndex: 0,
		Explanation:  "IM adrenaline, without delay.",
	})
	require.NoError(t, err)
	return exercise, question
}

func TestAddQuestionRejectsOutOfRangeAnswer(t *testing.T) {
	setupTestDB(t)

	exercise, err := CreateExercise(models.CreateExerciseRequest{Title: "Broken"})
	require.NoError(t, err)

	_, err = AddQuestion(exercise.ID, models.CreateExerciseQuestionRequest{
		Prompt:       "Pick one",
		Choices:      []string{"A", "B"},
		CorrectIndex: 2,
	})
	assert.Error(t, err)
}

func TestStartExerciseWithholdsAnswer(t *testing.T) {
	setupTestDB(t)
	exercise, _ := seedExercise(t)

	resp, err := StartExercise(5, exercise.ID)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, []string{"Adrenaline", "Antihistamine", "Corticosteroid"}, resp.Questions[0].Choices)

	// The wire form never carries the correct index.
	raw, err := json.Marshal(resp.Questions[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_index")
}

func TestSubmitChoiceGradesByIndex(t *testing.T) {
	setupTestDB(t)
	_, question := seedExercise(t)

	const userID = 6
	resp, err := SubmitChoice(userID, models.ChoiceRequest{QuestionID: question.ID, ChoiceIndex: 1})
	require.NoError(t, err)
	assert.False(t, resp.IsCorrect)
	assert.Equal(t, 0, resp.CorrectIndex)

	resp, err = SubmitChoice(userID, models.ChoiceRequest{QuestionID: question.ID, ChoiceIndex: 0})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)

	stats, err := GetExerciseStats(userID, question.ExerciseID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCorrect)
	assert.Equal(t, 1, stats.TotalIncorrect)
	assert.InDelta(t, 50.0, stats.Accuracy, 0.001)
}

func TestSubmitChoiceOutOfRangeRejected(t *testing.T) {
	setupTestDB(t)
	_, question := seedExercise(t)

	_, err := SubmitChoice(6, models.ChoiceRequest{QuestionID: question.ID, ChoiceIndex: 9})
	assert.Error(t, err)
}
