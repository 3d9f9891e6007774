package user

import (
	"context"
	"sync"
)

// Profiles 使用者輪廓存取介面（過敏原與偏好，帳號管理本身在外部）
type Profiles interface {
	Allergies(ctx context.Context, email string) ([]string, error)
	Preferences(ctx context.Context, email string) ([]string, error)
}

type profile struct {
	allergies   []string
	preferences []string
}

// Memory 記憶體使用者輪廓儲存
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]profile
}

// NewMemory 創建記憶體使用者輪廓儲存
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]profile),
	}
}

// SetProfile 設定使用者的過敏原與偏好
func (m *Memory) SetProfile(email string, allergies, preferences []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[email] = profile{
		allergies:   append([]string(nil), allergies...),
		preferences: append([]string(nil), preferences...),
	}
}

// Allergies 取得使用者的過敏原清單，未知使用者回傳空清單
func (m *Memory) Allergies(ctx context.Context, email string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.profiles[email].allergies...), nil
}

// Preferences 取得使用者的偏好清單，未知使用者回傳空清單
func (m *Memory) Preferences(ctx context.Context, email string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.profiles[email].preferences...), nil
}
