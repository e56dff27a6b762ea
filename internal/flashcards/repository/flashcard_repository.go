package repository

import (
	"time"

	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"gorm.io/gorm"
)

// CreateDeck persists a new deck.
func CreateDeck(deck *models.Deck) error {
	if result := database.DB.Create(deck); result.Error != nil {
		return errors.Internal("failed to create deck", result.Error.Error())
	}
	return nil
}

// GetDeck fetches a deck without its cards.
func GetDeck(deckID uint) (*models.Deck, error) {
	var deck models.Deck
	result := database.DB.First(&deck, deckID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("deck")
		}
		return nil, errors.Internal("failed to fetch deck", result.Error.Error())
	}
	return &deck, nil
}

// ListDecks returns all decks, optionally filtered by category.
func ListDecks(category string) ([]*models.Deck, error) {
	var decks []*models.Deck
	query := database.DB.Order("title ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if result := query.Find(&decks); result.Error != nil {
		return nil, errors.Internal("failed to list decks", result.Error.Error())
	}
	return decks, nil
}

// DeleteDeck removes a deck and its cards.
func DeleteDeck(deckID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&models.Card{}).Error; err != nil {
			return errors.Internal("failed to delete cards", err.Error())
		}
		if err := tx.Delete(&models.Deck{}, deckID).Error; err != nil {
			return errors.Internal("failed to delete deck", err.Error())
		}
		return nil
	})
}

// CreateCard persists a new card.
func CreateCard(card *models.Card) error {
	if result := database.DB.Create(card); result.Error != nil {
		return errors.Internal("failed to create card", result.Error.Error())
	}
	return nil
}

// CreateCards persists a batch of cards.
func CreateCards(cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	if result := database.DB.Create(cards); result.Error != nil {
		return errors.Internal("failed to create cards", result.Error.Error())
	}
	return nil
}

// GetCard fetches one card.
func GetCard(cardID uint) (*models.Card, error) {
	var card models.Card
	result := database.DB.First(&card, cardID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("card")
		}
		return nil, errors.Internal("failed to fetch card", result.Error.Error())
	}
	return &card, nil
}

// GetDeckCards returns a deck's cards in display order.
func GetDeckCards(deckID uint) ([]*models.Card, error) {
	var cards []*models.Card
	result := database.DB.
		Where("deck_id = ?", deckID).
		Order("display_order ASC, id ASC").
		Find(&cards)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch cards", result.Error.Error())
	}
	return cards, nil
}

// GetProgressForDeck returns the user's progress rows for a deck, keyed
// by card id. Cards the user never answered are absent.
func GetProgressForDeck(userID, deckID uint) (map[uint]*models.CardProgress, error) {
	var rows []*models.CardProgress
	result := database.DB.
		Joins("JOIN cards ON cards.id = card_progresses.card_id").
		Where("card_progresses.user_id = ? AND cards.deck_id = ?", userID, deckID).
		Find(&rows)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch progress", result.Error.Error())
	}

	byCard := make(map[uint]*models.CardProgress, len(rows))
	for _, row := range rows {
		byCard[row.CardID] = row
	}
	return byCard, nil
}

// UpsertProgress increments the correct or incorrect counter for a
// (user, card) pair, creating the row on first submission.
func UpsertProgress(userID, cardID uint, correct bool, now time.Time) (*models.CardProgress, error) {
	var progress models.CardProgress
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND card_id = ?", userID, cardID).First(&progress)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}

		if result.Error == gorm.ErrRecordNotFound {
			progress = models.CardProgress{UserID: userID, CardID: cardID}
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
		return nil, errors.Internal("failed to update progress", err.Error())
	}
	return &progress, nil
}

// CreateSession persists a new study session.
func CreateSession(session *models.StudySession) error {
	if result := database.DB.Create(session); result.Error != nil {
		return errors.Internal("failed to create session", result.Error.Error())
	}
	return nil
}

// GetSessionByToken fetches a session for its owner.
func GetSessionByToken(userID uint, token string) (*models.StudySession, error) {
	var session models.StudySession
	result := database.DB.
		Where("user_id = ? AND token = ?", userID, token).
		First(&session)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("study session")
		}
		return nil, errors.Internal("failed to fetch session", result.Error.Error())
	}
	return &session, nil
}

// AdvanceSession persists one graded step, but only if the stored row is
// still at the position the step was computed from. Two submissions
// racing on the same session would otherwise both pass the position
// check and lose an update; the optimistic WHERE lets exactly one win.
func AdvanceSession(session *models.StudySession, fromPosition int) error {
	result := database.DB.
		Model(&models.StudySession{}).
		Where("id = ? AND position = ?", session.ID, fromPosition).
		Updates(map[string]interface{}{
			"position":     session.Position,
			"correct":      session.Correct,
			"incorrect":    session.Incorrect,
			"completed_at": session.CompletedAt,
		})
	if result.Error != nil {
		return errors.Internal("failed to update session", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.Conflict("session was advanced by a concurrent submission")
	}
	return nil
}
