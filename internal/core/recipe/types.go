package recipe

// Recipe 食譜記錄（由外部儲存層持有，本核心唯讀）
type Recipe struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"` // 1-3
	Time       int    `json:"time"`       // 分鐘
	RecipeType string `json:"recipe_type"`
	Image      string `json:"image"`
	Link       string `json:"link"`
}

// View 分頁結果中的單筆食譜，附帶使用者評分（未評分為 null）
type View struct {
	ID         int64  `json:"id"`
	Difficulty int    `json:"difficulty"`
	Image      string `json:"image"`
	Link       string `json:"link"`
	RecipeType string `json:"recipe_type"`
	Name       string `json:"name"`
	Time       int    `json:"time"`
	Rating     *bool  `json:"rating"`
}

// PageResponse 統一的分頁響應結構
type PageResponse struct {
	Count   int64   `json:"count"`
	Next    *string `json:"next"`
	Results []View  `json:"results"`
}

// Filter 多條件過濾參數，各條件獨立套用
type Filter struct {
	Time       *int   `json:"time"`        // 最長烹調時間
	Difficulty []int  `json:"difficulty"`  // 難度集合
	RecipeType string `json:"recipe_type"` // 食譜類型（不分大小寫）
	Favourites *bool  `json:"favourites"`  // 僅顯示評分符合者，來源改為評分記錄
}

// ToView 將食譜轉換為響應用的 View
func ToView(r Recipe, rating *bool) View {
	return View{
		ID:         r.ID,
		Difficulty: r.Difficulty,
		Image:      r.Image,
		Link:       r.Link,
		RecipeType: r.RecipeType,
		Name:       r.Name,
		Time:       r.Time,
		Rating:     rating,
	}
}
