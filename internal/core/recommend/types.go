package recommend

import "context"

// 推薦回覆的判別欄位必須等於此值，其餘一律視為協議不符而丟棄
const replyTypeRun = "run"

// 通知事件類型，推送到使用者頻道時不附帶其他內容
const eventRecipe = "recipe"

// RequestPayload 發往推薦 worker 的使用者輪廓快照
// 欄位名稱即為線上格式，worker 依賴這組名稱
type RequestPayload struct {
	Email            string   `json:"email"`
	Allergens        []string `json:"Allergens"`
	Preferences      []string `json:"Preferences"`
	Difficulty       []int    `json:"Difficulty"`
	Time             int      `json:"Time"`
	Type             []string `json:"Type"`
	LikedRecipes     []int64  `json:"LikedRecipes"`
	DislikedRecipes  []int64  `json:"DislikedRecipes"`
	ExpiringProducts []string `json:"ExpiringProducts"`
}

// RequestMessage 外送請求的信封
type RequestMessage struct {
	Payload RequestPayload `json:"payload"`
}

// ReplyPayload 推薦 worker 的回覆內容，recipe_ids 的順序即為展示順序
type ReplyPayload struct {
	RecipeIDs []int64 `json:"recipe_ids"`
	Email     string  `json:"email"`
}

// ReplyMessage 回覆信封，Type 為判別欄位
type ReplyMessage struct {
	Type    string        `json:"type"`
	Payload *ReplyPayload `json:"payload"`
}

// Publisher 外送訊息發佈介面，由訊息匯流排實作
type Publisher interface {
	Publish(ctx context.Context, msg RequestMessage) error
}

// Notifier 使用者頻道通知介面，投遞不保證送達
type Notifier interface {
	Notify(channel, event string)
}
