package rating

import (
	"context"
	"sync"
)

type key struct {
	email    string
	recipeID int64
}

// Memory 記憶體評分儲存
// order 保存插入順序，作為 FindByEmailAndValue 的自然順序
type Memory struct {
	mu      sync.RWMutex
	ratings map[key]bool
	order   []key
}

// NewMemory 創建記憶體評分儲存
func NewMemory() *Memory {
	return &Memory{
		ratings: make(map[key]bool),
	}
}

// Find 查詢單筆評分，不存在時回傳 nil
func (m *Memory) Find(ctx context.Context, email string, recipeID int64) (*Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := key{email: email, recipeID: recipeID}
	v, ok := m.ratings[k]
	if !ok {
		return nil, nil
	}
	return &Rating{Email: email, RecipeID: recipeID, Value: v}, nil
}

// Save 新增或就地覆寫評分
func (m *Memory) Save(ctx context.Context, r Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{email: r.Email, recipeID: r.RecipeID}
	if _, ok := m.ratings[k]; !ok {
		m.order = append(m.order, k)
	}
	m.ratings[k] = r.Value
	return nil
}

// Delete 刪除評分，不存在時為 no-op
func (m *Memory) Delete(ctx context.Context, email string, recipeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{email: email, recipeID: recipeID}
	if _, ok := m.ratings[k]; !ok {
		return nil
	}
	delete(m.ratings, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindByEmailIn 批次查詢指定食譜集合的評分
func (m *Memory) FindByEmailIn(ctx context.Context, email string, recipeIDs []int64) ([]Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Rating, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		k := key{email: email, recipeID: id}
		if v, ok := m.ratings[k]; ok {
			result = append(result, Rating{Email: email, RecipeID: id, Value: v})
		}
	}
	return result, nil
}

// FindByEmailAndValue 依評分值查詢，依插入順序回傳
func (m *Memory) FindByEmailAndValue(ctx context.Context, email string, value bool) ([]Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Rating
	for _, k := range m.order {
		if k.email != email {
			continue
		}
		if v, ok := m.ratings[k]; ok && v == value {
			result = append(result, Rating{Email: k.email, RecipeID: k.recipeID, Value: v})
		}
	}
	return result, nil
}
