package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/metrics"
	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/flashcards/repository"
	"github.com/medikahub/medika-backend/internal/grading"
	"github.com/medikahub/medika-backend/internal/live"
	"github.com/medikahub/medika-backend/internal/review"
)

// StartSession opens a deterministic review session: cards are ordered by
// priority (most-missed first, then least-practiced, then stalest) and
// the order is fixed for the session's lifetime.
func StartSession(userID, deckID uint) (*models.StartSessionResponse, error) {
	cards, err := repository.GetDeckCards(deckID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, errors.Unprocessable("deck has no cards", "add cards before starting a session")
	}

	ordered, err := orderCards(userID, deckID, cards, review.Sorted)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(ordered))
	for i, c := range ordered {
		ids[i] = c.ID
	}

	session := &models.StudySession{
		Token:     uuid.New().String(),
		UserID:    userID,
		DeckID:    deckID,
		CardOrder: models.EncodeCardOrder(ids),
		StartedAt: time.Now(),
	}
	if err := repository.CreateSession(session); err != nil {
		return nil, err
	}

	first := ordered[0]
	return &models.StartSessionResponse{
		Token:      session.Token,
		DeckID:     deckID,
		TotalCards: len(ordered),
		Card:       &first,
	}, nil
}

// GetSessionState returns the session's counters and the card at the
// current position.
func GetSessionState(userID uint, token string) (*models.SessionStateResponse, error) {
	session, err := repository.GetSessionByToken(userID, token)
	if err != nil {
		return nil, err
	}

	order := models.DecodeCardOrder(session.CardOrder)
	state := &models.SessionStateResponse{
		Token:     session.Token,
		Position:  session.Position,
		Total:     len(order),
		Correct:   session.Correct,
		Incorrect: session.Incorrect,
		Done:      session.CompletedAt != nil,
	}

	if !state.Done && session.Position < len(order) {
		card, err := repository.GetCard(order[session.Position])
		if err != nil {
			return nil, err
		}
		state.Card = card
	}
	return state, nil
}

// SubmitAnswer grades a free-text answer against the card's reference
// answer and records the outcome. When a session token is supplied the
// session advances; answers must target the card at the current position.
func SubmitAnswer(userID uint, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	card, err := repository.GetCard(req.CardID)
	if err != nil {
		return nil, err
	}

	similarity := grading.Similarity(req.Answer, card.Answer)
	isCorrect := similarity >= grading.CorrectThreshold

	now := time.Now()
	if _, err := repository.UpsertProgress(userID, card.ID, isCorrect, now); err != nil {
		return nil, err
	}
	metrics.RecordAnswer("flashcards", isCorrect)

	resp := &models.SubmitAnswerResponse{
		IsCorrect:     isCorrect,
		Similarity:    similarity,
		CorrectAnswer: card.Answer,
		Explanation:   card.Explanation,
	}

	if req.SessionToken != "" {
		done, err := advanceSession(userID, req.SessionToken, card.ID, isCorrect, now)
		if err != nil {
			return nil, err
		}
		resp.SessionDone = done
	}

	return resp, nil
}

// advanceSession moves a session forward after a graded answer.
func advanceSession(userID uint, token string, cardID uint, isCorrect bool, now time.Time) (bool, error) {
	session, err := repository.GetSessionByToken(userID, token)
	if err != nil {
		return false, err
	}
	if session.CompletedAt != nil {
		return false, errors.Conflict("session already completed")
	}

	order := models.DecodeCardOrder(session.CardOrder)
	if session.Position >= len(order) || order[session.Position] != cardID {
		return false, errors.BadRequest("answer does not match the session's current card")
	}

	fromPosition := session.Position
	if isCorrect {
		session.Correct++
	} else {
		session.Incorrect++
	}
	session.Position++

	done := session.Position >= len(order)
	if done {
		session.CompletedAt = &now
	}

	if err := repository.AdvanceSession(session, fromPosition); err != nil {
		return false, err
	}

	if liveHub != nil {
		eventType := "answer"
		if done {
			eventType = "completed"
		}
		liveHub.Publish(live.Event{
			SessionToken: token,
			Type:         eventType,
			CardID:       cardID,
			Correct:      isCorrect,
			Position:     session.Position,
			Total:        len(order),
			At:           now,
		})
	}

	return done, nil
}
