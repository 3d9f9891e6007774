package recipe

import (
	"context"
	"os"
	"sync"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Memory 記憶體食譜儲存，map 迭代順序不固定，正好符合 FindByIDs 無序的契約
type Memory struct {
	mu      sync.RWMutex
	recipes map[int64]Recipe
}

// NewMemory 創建記憶體食譜儲存
func NewMemory() *Memory {
	return &Memory{
		recipes: make(map[int64]Recipe),
	}
}

// Add 新增或覆寫一筆食譜
func (m *Memory) Add(r Recipe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes[r.ID] = r
}

// FindByIDs 依 id 集合查詢食譜，未知 id 直接略過，不回傳錯誤
func (m *Memory) FindByIDs(ctx context.Context, ids []int64) ([]Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	result := make([]Recipe, 0, len(ids))
	for id, r := range m.recipes {
		if _, ok := want[id]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// Exists 檢查食譜是否存在
func (m *Memory) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.recipes[id]
	return ok, nil
}

// Len 回傳目前的食譜筆數
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recipes)
}

// LoadSeed 從 JSON 檔載入種子食譜資料
func (m *Memory) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds []Recipe
	if err := common.ParseJSONBytes(data, &seeds); err != nil {
		return err
	}

	for _, r := range seeds {
		m.Add(r)
	}

	common.LogInfo("種子食譜已載入",
		zap.String("檔案", path),
		zap.Int("筆數", len(seeds)),
	)
	return nil
}
