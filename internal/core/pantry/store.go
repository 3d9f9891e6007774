package pantry

import (
	"context"
	"sync"
	"time"
)

// Store 庫存存取介面，本核心只消費「即將到期」的品項名稱
type Store interface {
	ExpiringNames(ctx context.Context, email string) ([]string, error)
}

// Lister 供每日提醒掃描所有使用者的到期品項
type Lister interface {
	ExpiringByUser(ctx context.Context) (map[string][]Product, error)
}

// Memory 記憶體庫存儲存
type Memory struct {
	mu       sync.RWMutex
	products map[string][]Product
	now      func() time.Time
}

// NewMemory 創建記憶體庫存儲存
func NewMemory() *Memory {
	return &Memory{
		products: make(map[string][]Product),
		now:      time.Now,
	}
}

// SetNow 覆寫時間來源，測試用
func (m *Memory) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetProducts 設定使用者的庫存品項
func (m *Memory) SetProducts(email string, products []Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[email] = append([]Product(nil), products...)
}

// ExpiringNames 取得使用者目前即將到期的品項名稱
func (m *Memory) ExpiringNames(ctx context.Context, email string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	today := m.now()
	names := make([]string, 0)
	for _, p := range m.products[email] {
		if p.ExpiringSoonAt(today) {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// ExpiringByUser 取得每位使用者即將到期的品項
func (m *Memory) ExpiringByUser(ctx context.Context) (map[string][]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	today := m.now()
	result := make(map[string][]Product)
	for email, products := range m.products {
		for _, p := range products {
			if p.ExpiringSoonAt(today) {
				result[email] = append(result[email], p)
			}
		}
	}
	return result, nil
}
