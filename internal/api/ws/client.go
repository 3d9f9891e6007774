package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// 寫入單筆訊息的期限
	writeWait = 10 * time.Second
	// 等待 pong 的期限，超過視為斷線
	pongWait = 60 * time.Second
	// ping 間隔，必須小於 pongWait
	pingPeriod = (pongWait * 9) / 10
	// 傳送緩衝大小，滿了就丟棄通知
	sendBuffer = 16
)

// Client 單一 websocket 連線
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// newClient 包裝底層連線
func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// writePump 將通知寫到連線上，send 關閉時結束
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 只負責偵測斷線，客戶端不需要往上送資料
func (c *Client) readPump(onClose func()) {
	defer func() {
		onClose()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
