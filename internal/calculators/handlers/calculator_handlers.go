package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikahub/medika-backend/internal/calculators/models"
	"github.com/medikahub/medika-backend/internal/calculators/services"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/middleware"
)

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// CreateTopic stores a new calculator definition.
func CreateTopic(c *gin.Context) {
	var req models.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	topic, err := services.CreateTopic(req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(201, topic)
}

// ListTopics lists calculators, optionally filtered by ?category=.
func ListTopics(c *gin.Context) {
	topics, err := services.ListTopics(c.Query("category"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, topics)
}

// GetTopic returns a calculator with its full definition.
func GetTopic(c *gin.Context) {
	topicID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid topic id"))
		return
	}

	topic, err := services.GetTopic(topicID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, topic)
}

// DeleteTopic removes a calculator definition.
func DeleteTopic(c *gin.Context) {
	topicID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid topic id"))
		return
	}

	if err := services.DeleteTopic(topicID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true})
}

// Evaluate runs a calculator against submitted field values.
func Evaluate(c *gin.Context) {
	topicID, ok := pathID(c, "id")
	if !ok {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid topic id"))
		return
	}

	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	result, err := services.EvaluateTopic(topicID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, result)
}
