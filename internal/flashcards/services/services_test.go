package services

import (
	"testing"
	"time"

	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/flashcards/repository"
	"github.com/medikahub/medika-backend/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a shared in-memory database and migrates the
// flashcard tables. cache=shared keeps every pooled connection on the
// same database.
func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitWithType("sqlite", "file::memory:?cache=shared"))
	require.NoError(t, database.DB.AutoMigrate(
		&models.Deck{},
		&models.Card{},
		&models.CardProgress{},
		&models.StudySession{},
	))
	t.Cleanup(func() { database.Close() })
}

func seedDeck(t *testing.T, prompts map[string]string) (*models.Deck, []*models.Card) {
	t.Helper()
	deck, err := CreateDeck(models.CreateDeckRequest{Title: "Cardiology basics"})
	require.NoError(t, err)

	var cards []*models.Card
	for prompt, answer := range prompts {
		card, err := AddCard(deck.ID, models.CreateCardRequest{Prompt: prompt, Answer: answer})
		require.NoError(t, err)
		cards = append(cards, card)
	}
	return deck, cards
}

func TestStartDeckEmptyDeck(t *testing.T) {
	setupTestDB(t)

	deck, err := CreateDeck(models.CreateDeckRequest{Title: "Empty"})
	require.NoError(t, err)

	_, err = StartDeck(1, deck.ID)
	assert.Error(t, err)
}

func TestStartDeckReturnsEveryCardOnce(t *testing.T) {
	setupTestDB(t)
	SetScheduler(review.NewSeededScheduler(42))
	defer SetScheduler(review.NewScheduler())

	deck, cards := seedDeck(t, map[string]string{
		"Normal resting heart rate": "60-100 bpm",
		"Largest artery":            "aorta",
		"Heart muscle tissue":       "myocardium",
	})

	resp, err := StartDeck(7, deck.ID)
	require.NoError(t, err)
	require.Len(t, resp.Cards, len(cards))

	seen := make(map[uint]bool)
	for _, c := range resp.Cards {
		assert.False(t, seen[c.ID], "card %d returned twice", c.ID)
		seen[c.ID] = true
	}
}

func TestSessionWalkthrough(t *testing.T) {
	setupTestDB(t)

	deck, _ := seedDeck(t, map[string]string{
		"Largest artery":      "aorta",
		"Heart muscle tissue": "myocardium",
	})

	const userID = 3
	start, err := StartSession(userID, deck.ID)
	require.NoError(t, err)
	require.NotNil(t, start.Card)
	assert.Equal(t, 2, start.TotalCards)

	// Answer the first card correctly.
	resp, err := SubmitAnswer(userID, models.SubmitAnswerRequest{
		CardID:       start.Card.ID,
		Answer:       start.Card.Answer,
		SessionToken: start.Token,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.False(t, resp.SessionDone)

	state, err := GetSessionState(userID, start.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, 1, state.Correct)
	require.NotNil(t, state.Card)

	// Miss the second card; the session completes.
	resp, err = SubmitAnswer(userID, models.SubmitAnswerRequest{
		CardID:       state.Card.ID,
		Answer:       "no idea",
		SessionToken: start.Token,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsCorrect)
	assert.True(t, resp.SessionDone)

	state, err = GetSessionState(userID, start.Token)
	require.NoError(t, err)
	assert.True(t, state.Done)
	assert.Equal(t, 1, state.Correct)
	assert.Equal(t, 1, state.Incorrect)
	assert.Nil(t, state.Card)
}

func TestSubmitAnswerOutOfOrderRejected(t *testing.T) {
	setupTestDB(t)

	deck, _ := seedDeck(t, map[string]string{
		"Largest artery":      "aorta",
		"Heart muscle tissue": "myocardium",
	})

	const userID = 4
	start, err := StartSession(userID, deck.ID)
	require.NoError(t, err)

	// Find a card that is not at the current position.
	cards, err := repository.GetDeckCards(deck.ID)
	require.NoError(t, err)
	var wrong *models.Card
	for _, c := range cards {
		if c.ID != start.Card.ID {
			wrong = c
			break
		}
	}
	require.NotNil(t, wrong)

	_, err = SubmitAnswer(userID, models.SubmitAnswerRequest{
		CardID:       wrong.ID,
		Answer:       wrong.Answer,
		SessionToken: start.Token,
	})
	assert.Error(t, err)
}

func TestAdvanceSessionStaleStepRejected(t *testing.T) {
	setupTestDB(t)

	deck, _ := seedDeck(t, map[string]string{
		"Largest artery":      "aorta",
		"Heart muscle tissue": "myocardium",
	})

	const userID = 5
	start, err := StartSession(userID, deck.ID)
	require.NoError(t, err)

	// Two submissions computed from the same starting position: the
	// first advance wins, the replay must not pass the position guard.
	session, err := repository.GetSessionByToken(userID, start.Token)
	require.NoError(t, err)

	first := *session
	first.Correct++
	first.Position++
	require.NoError(t, repository.AdvanceSession(&first, session.Position))

	second := *session
	second.Incorrect++
	second.Position++
	err = repository.AdvanceSession(&second, session.Position)
	require.Error(t, err)

	state, err := GetSessionState(userID, start.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, 1, state.Correct)
	assert.Equal(t, 0, state.Incorrect)
}

func TestSubmitAnswerNearMissAccepted(t *testing.T) {
	setupTestDB(t)

	deck, _ := seedDeck(t, map[string]string{
		"Memory structure in the temporal lobe": "hippocampus",
	})

	cards, err := repository.GetDeckCards(deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	// One dropped letter still clears the similarity threshold.
	resp, err := SubmitAnswer(9, models.SubmitAnswerRequest{
		CardID: cards[0].ID,
		Answer: "hipocampus",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, "hippocampus", resp.CorrectAnswer)
}

func TestSubmitAnswerUpdatesProgressCounters(t *testing.T) {
	setupTestDB(t)

	deck, _ := seedDeck(t, map[string]string{
		"Largest artery": "aorta",
	})
	cards, err := repository.GetDeckCards(deck.ID)
	require.NoError(t, err)
	card := cards[0]

	const userID = 11
	for _, answer := range []string{"aorta", "vena cava", "aorta"} {
		_, err := SubmitAnswer(userID, models.SubmitAnswerRequest{CardID: card.ID, Answer: answer})
		require.NoError(t, err)
	}

	progress, err := repository.GetProgressForDeck(userID, deck.ID)
	require.NoError(t, err)
	require.Contains(t, progress, card.ID)
	assert.Equal(t, 2, progress[card.ID].TimesCorrect)
	assert.Equal(t, 1, progress[card.ID].TimesIncorrect)
	assert.WithinDuration(t, time.Now(), progress[card.ID].LastReviewedAt, 5*time.Second)
}
