package recommend

import (
	"context"
	"strings"

	"zerowaste-backend/internal/core/recipe"
	"zerowaste-backend/internal/core/rating"
	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Views 推薦讀取模型
// 三個進入點共用同一份分頁契約：(count, next, results)
// 頁面順序一律以快取內的 id 順序為準，儲存層的查詢順序不可信
type Views struct {
	cache     *Cache
	requester *Requester
	recipes   recipe.Repository
	ratings   *rating.Service
}

// NewViews 創建推薦讀取模型
func NewViews(cache *Cache, requester *Requester, recipes recipe.Repository, ratings *rating.Service) *Views {
	return &Views{
		cache:     cache,
		requester: requester,
		recipes:   recipes,
		ratings:   ratings,
	}
}

// emptyPage 產生只有總數的空頁
func emptyPage(total int) *recipe.PageResponse {
	return &recipe.PageResponse{
		Count:   int64(total),
		Next:    nil,
		Results: []recipe.View{},
	}
}

// ListPage 取得使用者的推薦分頁
// 快取沒有條目時觸發一次推薦請求並立即回傳空頁，呼叫端稍後重新輪詢
func (v *Views) ListPage(ctx context.Context, email string, limit, offset int) (*recipe.PageResponse, error) {
	ids, ok := v.cache.Get(email)
	if !ok || len(ids) == 0 {
		common.LogCacheMiss(email)
		if err := v.requester.Request(ctx, email, nil); err != nil {
			common.LogError("觸發推薦請求失敗",
				zap.Error(err),
				zap.String("使用者", email),
			)
		}
		return emptyPage(0), nil
	}
	common.LogCacheHit(email)

	total := len(ids)
	if offset >= total {
		return emptyPage(total), nil
	}

	end := offset + limit
	if end > total {
		end = total
	}
	pageIDs := ids[offset:end]

	fetched, err := v.recipes.FindByIDs(ctx, pageIDs)
	if err != nil {
		return nil, err
	}

	// 儲存層不保證順序，依快取的 id 順序重排，查不到的 id 靜默略過
	ordered := orderByIDs(fetched, pageIDs)

	results, err := v.joinRatings(ctx, email, ordered)
	if err != nil {
		return nil, err
	}

	return &recipe.PageResponse{
		Count:   int64(total),
		Next:    nextCursor(limit, end, total, ""),
		Results: results,
	}, nil
}

// SearchPage 在快取的候選清單中以名稱子字串搜尋（不分大小寫）
// 未提供關鍵字屬於呼叫端錯誤，不觸發任何狀態變更
func (v *Views) SearchPage(ctx context.Context, email string, limit, offset int, search string) (*recipe.PageResponse, error) {
	if search == "" {
		return nil, common.ErrEmptySearch
	}

	ids, ok := v.cache.Get(email)
	if !ok || len(ids) == 0 {
		return emptyPage(0), nil
	}

	fetched, err := v.recipes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	searchLower := strings.ToLower(search)
	candidates := make([]recipe.Recipe, 0, len(fetched))
	for _, r := range orderByIDs(fetched, ids) {
		if strings.Contains(strings.ToLower(r.Name), searchLower) {
			candidates = append(candidates, r)
		}
	}

	total := len(candidates)
	if offset >= total {
		return emptyPage(total), nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	results, err := v.joinRatings(ctx, email, candidates[offset:end])
	if err != nil {
		return nil, err
	}

	return &recipe.PageResponse{
		Count:   int64(total),
		Next:    nextCursor(limit, end, total, search),
		Results: results,
	}, nil
}

// FilterPage 對候選清單套用多條件過濾後分頁
// favourites 有值時候選改取自使用者的評分記錄並依其自然順序，完全跳過快取
func (v *Views) FilterPage(ctx context.Context, email string, limit, offset int, filter *recipe.Filter) (*recipe.PageResponse, error) {
	if filter == nil {
		return emptyPage(0), nil
	}

	var base []recipe.Recipe

	if filter.Favourites != nil {
		ids, err := v.ratings.IDsByValue(ctx, email, *filter.Favourites)
		if err != nil {
			return nil, err
		}
		fetched, err := v.recipes.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		base = orderByIDs(fetched, ids)
	} else {
		ids, ok := v.cache.Get(email)
		if !ok || len(ids) == 0 {
			return emptyPage(0), nil
		}
		fetched, err := v.recipes.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		base = orderByIDs(fetched, ids)
	}

	candidates := make([]recipe.Recipe, 0, len(base))
	for _, r := range base {
		if filter.Time != nil && r.Time > *filter.Time {
			continue
		}
		if len(filter.Difficulty) > 0 && !containsInt(filter.Difficulty, r.Difficulty) {
			continue
		}
		if filter.RecipeType != "" && !strings.EqualFold(filter.RecipeType, r.RecipeType) {
			continue
		}
		candidates = append(candidates, r)
	}

	total := len(candidates)
	if offset >= total {
		return emptyPage(total), nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	results, err := v.joinRatings(ctx, email, candidates[offset:end])
	if err != nil {
		return nil, err
	}

	return &recipe.PageResponse{
		Count:   int64(total),
		Next:    nextCursor(limit, end, total, ""),
		Results: results,
	}, nil
}

// Refresh 驅逐使用者的快取條目並立即重新請求
func (v *Views) Refresh(ctx context.Context, email string) error {
	v.cache.Evict(email)
	return v.requester.Request(ctx, email, nil)
}

// joinRatings 將頁面內的食譜與使用者評分批次 join，成本只與頁面大小相關
func (v *Views) joinRatings(ctx context.Context, email string, page []recipe.Recipe) ([]recipe.View, error) {
	ids := make([]int64, 0, len(page))
	for _, r := range page {
		ids = append(ids, r.ID)
	}

	ratingMap, err := v.ratings.ForRecipes(ctx, email, ids)
	if err != nil {
		return nil, err
	}

	results := make([]recipe.View, 0, len(page))
	for _, r := range page {
		var ptr *bool
		if value, ok := ratingMap[r.ID]; ok {
			value := value
			ptr = &value
		}
		results = append(results, recipe.ToView(r, ptr))
	}
	return results, nil
}

// orderByIDs 依 id 清單的順序重排查詢結果，清單中查不到的 id 直接略過
func orderByIDs(fetched []recipe.Recipe, ids []int64) []recipe.Recipe {
	byID := make(map[int64]recipe.Recipe, len(fetched))
	for _, r := range fetched {
		byID[r.ID] = r
	}

	ordered := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered
}

// containsInt 檢查整數集合是否包含指定值
func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
