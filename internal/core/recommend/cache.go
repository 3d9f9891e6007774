package recommend

import (
	"sync"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache 單格信箱式推薦快取
// 以使用者信箱為鍵，保存 worker 回覆的有序食譜 id 清單
// 每次寫入整筆覆寫，條目存活至行程結束或被明確驅逐，沒有 TTL
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]int64
}

// NewCache 創建推薦快取
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]int64),
	}
}

// Put 無條件覆寫使用者的推薦清單，後寫者勝
// 寫入前複製切片，讀取端永遠不會看到寫到一半的條目
func (c *Cache) Put(email string, ids []int64) {
	entry := append([]int64(nil), ids...)

	c.mu.Lock()
	c.entries[email] = entry
	c.mu.Unlock()

	common.LogInfo("推薦快取已更新",
		zap.String("使用者", email),
		zap.Int("筆數", len(entry)),
	)
}

// Get 取得使用者的推薦清單，回傳複本
func (c *Cache) Get(email string) ([]int64, bool) {
	c.mu.RLock()
	entry, ok := c.entries[email]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return append([]int64(nil), entry...), true
}

// Evict 移除使用者的條目，用於強制重新請求
func (c *Cache) Evict(email string) {
	c.mu.Lock()
	delete(c.entries, email)
	c.mu.Unlock()

	common.LogInfo("推薦快取已驅逐",
		zap.String("使用者", email),
	)
}

// Len 回傳目前的條目數
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
