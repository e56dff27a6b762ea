package live

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/medikahub/medika-backend/pkg/logger"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin frontend is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionFeed upgrades the connection and streams events for the session
// token in the path.
func SessionFeed(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(400, gin.H{"error": "missing session token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		hub.stream(conn, token)
	}
}
