package ws

import (
	"net/http"

	"zerowaste-backend/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 認證在外部處理，這裡不限制來源
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler 將請求升級為 websocket 並掛入指定頻道
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		channel := c.Param("channel")
		if channel == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			common.LogError("websocket 升級失敗",
				zap.Error(err),
				zap.String("頻道", channel),
			)
			return
		}

		client := newClient(conn)
		hub.register(channel, client)

		go client.writePump()
		go client.readPump(func() {
			hub.unregister(channel, client)
		})
	}
}
