package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/middleware"
	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/flashcards/services"
)

// currentUserID pulls the authenticated user id from the context.
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, err := strconv.ParseUint(raw.(string), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// CreateDeck creates an empty deck.
func CreateDeck(c *gin.Context) {
	var req models.CreateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	deck, err := services.CreateDeck(req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, deck)
}

// ListDecks lists decks, optionally filtered by ?category=.
func ListDecks(c *gin.Context) {
	decks, err := services.ListDecks(c.Query("category"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, decks)
}

// GetDeck returns a deck with its cards.
func GetDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid deck id"))
		return
	}

	deck, err := services.GetDeckWithCards(deckID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, deck)
}

// DeleteDeck removes a deck and its cards.
func DeleteDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid deck id"))
		return
	}

	if err := services.DeleteDeck(deckID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true})
}

// AddCard appends a card to a deck.
func AddCard(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid deck id"))
		return
	}

	var req models.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	card, err := services.AddCard(deckID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, card)
}

// StartDeck returns the deck's cards in weighted review order.
func StartDeck(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}
	deckID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid deck id"))
		return
	}

	resp, err := services.StartDeck(userID, deckID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}

// StartSession opens a deterministic review session over a deck.
func StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}
	deckID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid deck id"))
		return
	}

	resp, err := services.StartSession(userID, deckID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, resp)
}

// GetSession reports a session's progress and current card.
func GetSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}

	resp, err := services.GetSessionState(userID, c.Param("token"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}

// SubmitAnswer grades an answer and updates progress.
func SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}

	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	resp, err := services.SubmitAnswer(userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}

// ImportDeck bulk-loads cards from an uploaded .xlsx file.
func ImportDeck(c *gin.Context) {
	deckID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid deck id"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest("missing file upload"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest("unreadable file upload"))
		return
	}
	defer file.Close()

	resp, err := services.ImportDeck(deckID, file)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}
