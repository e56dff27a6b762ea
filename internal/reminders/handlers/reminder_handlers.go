package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/middleware"
	"github.com/medikahub/medika-backend/internal/reminders/services"
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

// GetReminder returns the user's latest stale-review snapshot.
func GetReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user"))
		return
	}

	reminder, err := services.GetReminder(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(200, reminder)
}
