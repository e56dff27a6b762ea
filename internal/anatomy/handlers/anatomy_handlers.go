package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikahub/medika-backend/internal/anatomy/models"
	"github.com/medikahub/medika-backend/internal/anatomy/services"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/middleware"
)

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

// CreateQuiz creates an empty labelling quiz.
func CreateQuiz(c *gin.Context) {
	var req models.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	quiz, err := services.CreateQuiz(req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, quiz)
}

// ListQuizzes lists quizzes, optionally filtered by ?region=.
func ListQuizzes(c *gin.Context) {
	quizzes, err := services.ListQuizzes(c.Query("region"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, quizzes)
}

// AddQuestion appends an image question to a quiz.
func AddQuestion(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid quiz id"))
		return
	}

	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	question, err := services.AddQuestion(quizID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, question)
}

// StartQuiz returns the quiz questions in weighted review order.
func StartQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid quiz id"))
		return
	}

	resp, err := services.StartQuiz(userID, quizID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}

// SubmitAnswer grades a structure name and updates progress.
func SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}

	var req models.AnswerRequest
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

// QuizStats reports the user's accuracy over one quiz.
func QuizStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid quiz id"))
		return
	}

	stats, err := services.GetQuizStats(userID, quizID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, stats)
}
