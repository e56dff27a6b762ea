package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/middleware"
	"github.com/medikahub/medika-backend/internal/exercises/models"
	"github.com/medikahub/medika-backend/internal/exercises/services"
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

// CreateExercise creates an empty question set.
func CreateExercise(c *gin.Context) {
	var req models.CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	exercise, err := services.CreateExercise(req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, exercise)
}

// ListExercises lists exercises, optionally filtered by ?subject=.
func ListExercises(c *gin.Context) {
	exercises, err := services.ListExercises(c.Query("subject"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, exercises)
}

// AddQuestion appends a multiple-choice question to an exercise.
func AddQuestion(c *gin.Context) {
	exerciseID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid exercise id"))
		return
	}

	var req models.CreateExerciseQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	question, err := services.AddQuestion(exerciseID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, question)
}

// StartExercise returns the questions in weighted review order.
func StartExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid exercise id"))
		return
	}

	resp, err := services.StartExercise(userID, exerciseID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}

// SubmitChoice grades a picked option and updates progress.
func SubmitChoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}

	var req models.ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	resp, err := services.SubmitChoice(userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, resp)
}

// ExerciseStats reports the user's accuracy over one exercise.
func ExerciseStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid exercise id"))
		return
	}

	stats, err := services.GetExerciseStats(userID, exerciseID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, stats)
}
