package recommend

import (
	"context"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Ingress 消化推薦 worker 的回覆
// 回覆只以使用者信箱對應，沒有請求編號，逾時後才到的回覆照樣寫入
type Ingress struct {
	cache    *Cache
	notifier Notifier
}

// NewIngress 創建回覆處理器
func NewIngress(cache *Cache, notifier Notifier) *Ingress {
	return &Ingress{
		cache:    cache,
		notifier: notifier,
	}
}

// HandleReply 處理單筆回覆
// 判別欄位不符或內容缺失時記錄並丟棄，不向任何呼叫端回報錯誤
func (i *Ingress) HandleReply(ctx context.Context, msg ReplyMessage) {
	if msg.Type != replyTypeRun {
		common.LogWarn("回覆類型不符，已丟棄",
			zap.String("type", msg.Type),
		)
		return
	}

	if msg.Payload == nil || msg.Payload.Email == "" {
		common.LogWarn("回覆缺少內容，已丟棄")
		return
	}

	i.cache.Put(msg.Payload.Email, msg.Payload.RecipeIDs)

	// 通知該使用者的頻道有新結果，投遞失敗不補送
	i.notifier.Notify(common.SanitizeChannel(msg.Payload.Email), eventRecipe)

	common.LogInfo("推薦結果已接收",
		zap.String("使用者", msg.Payload.Email),
		zap.Int("筆數", len(msg.Payload.RecipeIDs)),
	)
}
