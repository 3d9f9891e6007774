package recommend

import "fmt"

// nextCursor 產生下一頁的不透明游標，已是最後一頁時回傳 nil
// 格式沿用查詢字串，呼叫端原樣帶回即可取得下一頁
func nextCursor(limit, end, total int, search string) *string {
	if end >= total {
		return nil
	}

	cursor := fmt.Sprintf("?limit=%d&offset=%d", limit, end)
	if search != "" {
		cursor = fmt.Sprintf("%s&search=%s", cursor, search)
	}
	return &cursor
}
