package services

import (
	"time"

	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/metrics"
	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/flashcards/repository"
	"github.com/medikahub/medika-backend/internal/live"
	"github.com/medikahub/medika-backend/internal/review"
)

// scheduler is shared by all flashcard flows. Tests swap in a seeded one.
var scheduler = review.NewScheduler()

// liveHub broadcasts session events; nil until wired by the server.
var liveHub *live.Hub

// SetScheduler overrides the scheduler, for deterministic tests.
func SetScheduler(s *review.Scheduler) {
	scheduler = s
}

// SetLiveHub wires the WebSocket hub for session event broadcasting.
func SetLiveHub(h *live.Hub) {
	liveHub = h
}

// CreateDeck creates an empty deck.
func CreateDeck(req models.CreateDeckRequest) (*models.Deck, error) {
	deck := &models.Deck{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := repository.CreateDeck(deck); err != nil {
		return nil, err
	}
	return deck, nil
}

// ListDecks returns decks, optionally filtered by category.
func ListDecks(category string) ([]*models.Deck, error) {
	return repository.ListDecks(category)
}

// GetDeckWithCards returns a deck and its cards in display order.
func GetDeckWithCards(deckID uint) (*models.Deck, error) {
	deck, err := repository.GetDeck(deckID)
	if err != nil {
		return nil, err
	}
	cards, err := repository.GetDeckCards(deckID)
	if err != nil {
		return nil, err
	}
	deck.Cards = make([]models.Card, len(cards))
	for i, c := range cards {
		deck.Cards[i] = *c
	}
	return deck, nil
}

// DeleteDeck removes a deck and its cards.
func DeleteDeck(deckID uint) error {
	if _, err := repository.GetDeck(deckID); err != nil {
		return err
	}
	return repository.DeleteDeck(deckID)
}

// AddCard appends a card to a deck.
func AddCard(deckID uint, req models.CreateCardRequest) (*models.Card, error) {
	if _, err := repository.GetDeck(deckID); err != nil {
		return nil, err
	}
	card := &models.Card{
		DeckID:       deckID,
		Prompt:       req.Prompt,
		Answer:       req.Answer,
		Explanation:  req.Explanation,
		DisplayOrder: req.DisplayOrder,
	}
	if err := repository.CreateCard(card); err != nil {
		return nil, err
	}
	return card, nil
}

// StartDeck returns the deck's cards in weighted-random review order:
// cards the user keeps missing, or has not seen in a while, tend to come
// first. The order differs between calls.
func StartDeck(userID, deckID uint) (*models.StartDeckResponse, error) {
	deck, err := repository.GetDeck(deckID)
	if err != nil {
		return nil, err
	}
	cards, err := repository.GetDeckCards(deckID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, errors.Unprocessable("deck has no cards", "add cards before starting a review")
	}

	ordered, err := orderCards(userID, deckID, cards, review.Weighted)
	if err != nil {
		return nil, err
	}

	return &models.StartDeckResponse{
		DeckID: deck.ID,
		Title:  deck.Title,
		Cards:  ordered,
	}, nil
}

// orderCards runs the review scheduler over a deck's cards for a user.
func orderCards(userID, deckID uint, cards []*models.Card, mode review.Mode) ([]models.Card, error) {
	progressRows, err := repository.GetProgressForDeck(userID, deckID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(cards))
	byID := make(map[uint]*models.Card, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	progress := make(map[uint]review.Progress, len(progressRows))
	for cardID, row := range progressRows {
		progress[cardID] = review.Progress{
			TimesCorrect:   row.TimesCorrect,
			TimesIncorrect: row.TimesIncorrect,
			LastReviewedAt: row.LastReviewedAt,
		}
	}

	orderedIDs, err := scheduler.Order(mode, ids, progress, time.Now())
	if err != nil {
		return nil, errors.Internal("failed to order cards", err.Error())
	}

	modeLabel := "weighted"
	if mode == review.Sorted {
		modeLabel = "sorted"
	}
	metrics.SchedulerRuns.WithLabelValues(modeLabel).Inc()

	ordered := make([]models.Card, len(orderedIDs))
	for i, id := range orderedIDs {
		ordered[i] = *byID[id]
	}
	return ordered, nil
}
