package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/pkg/logger"
	"go.uber.org/zap"
)

// ErrorHandler recovers panics into a 500 JSON response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				appErr := errors.Internal("internal server error", "")
				c.AbortWithStatusJSON(appErr.Status, appErr)
			}
		}()
		c.Next()
	}
}

// JSONErrorResponse writes any error in the AppError JSON shape.
func JSONErrorResponse(c *gin.Context, err error) {
	if err == nil {
		appErr := errors.Internal("internal server error", "")
		c.JSON(appErr.Status, appErr)
		return
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.Internal("internal server error", err.Error())
	}

	c.JSON(appErr.Status, appErr)
}
