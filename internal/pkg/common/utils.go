package common

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// SanitizeChannel 將使用者信箱轉換為通知頻道名稱（移除 @ 與 .）
func SanitizeChannel(email string) string {
	return strings.ReplaceAll(strings.ReplaceAll(email, "@", ""), ".", "")
}

// WriteErrorResponse 寫入錯誤響應
func WriteErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
