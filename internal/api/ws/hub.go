package ws

import (
	"encoding/json"
	"sync"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Event 推送給客戶端的通知，只帶事件類型
type Event struct {
	Type string `json:"type"`
}

// Hub 管理各通知頻道的連線集合
// 頻道名稱由使用者信箱清洗而來，一個頻道可同時掛多條連線
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Client]bool
}

// NewHub 創建通知中樞
func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[*Client]bool),
	}
}

// register 將連線掛入頻道
func (h *Hub) register(channel string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][c] = true

	common.LogInfo("通知頻道已連線",
		zap.String("頻道", channel),
		zap.Int("連線數", len(h.channels[channel])),
	)
}

// unregister 將連線自頻道移除，頻道清空時一併移除
func (h *Hub) unregister(channel string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.channels[channel]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.channels, channel)
	}

	common.LogInfo("通知頻道已斷線",
		zap.String("頻道", channel),
	)
}

// Notify 向頻道推送事件
// 沒有監聽者或緩衝已滿時訊息直接丟失，不排隊也不補送
func (h *Hub) Notify(channel, event string) {
	data, err := json.Marshal(Event{Type: event})
	if err != nil {
		common.LogError("通知序列化失敗", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.channels[channel]
	if !ok || len(clients) == 0 {
		common.LogDebug("通知頻道沒有監聽者，訊息丟失",
			zap.String("頻道", channel),
			zap.String("事件", event),
		)
		return
	}

	for c := range clients {
		select {
		case c.send <- data:
		default:
			// 緩衝已滿，放棄這筆通知
		}
	}

	common.LogInfo("通知已推送",
		zap.String("頻道", channel),
		zap.String("事件", event),
		zap.Int("連線數", len(clients)),
	)
}
