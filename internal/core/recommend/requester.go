package recommend

import (
	"context"

	"zerowaste-backend/internal/core/pantry"
	"zerowaste-backend/internal/core/recipe"
	"zerowaste-backend/internal/core/rating"
	"zerowaste-backend/internal/core/user"
	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Requester 組裝並發佈推薦請求
// 發佈後立即返回，不等待回覆，也沒有逾時、重試或去重
// 同一使用者連續觸發會產生多個在途請求，回覆以後寫者勝處理
type Requester struct {
	profiles user.Profiles
	ratings  *rating.Service
	pantry   pantry.Store
	pub      Publisher
}

// NewRequester 創建推薦請求器
func NewRequester(profiles user.Profiles, ratings *rating.Service, pantryStore pantry.Store, pub Publisher) *Requester {
	return &Requester{
		profiles: profiles,
		ratings:  ratings,
		pantry:   pantryStore,
		pub:      pub,
	}
}

// Request 以使用者目前的輪廓快照發佈一筆推薦請求
// filter 可為 nil，表示不附帶過濾條件
func (r *Requester) Request(ctx context.Context, email string, filter *recipe.Filter) error {
	allergens, err := r.profiles.Allergies(ctx, email)
	if err != nil {
		return err
	}
	preferences, err := r.profiles.Preferences(ctx, email)
	if err != nil {
		return err
	}

	liked, err := r.ratings.IDsByValue(ctx, email, true)
	if err != nil {
		return err
	}
	disliked, err := r.ratings.IDsByValue(ctx, email, false)
	if err != nil {
		return err
	}

	expiring, err := r.pantry.ExpiringNames(ctx, email)
	if err != nil {
		return err
	}

	payload := RequestPayload{
		Email:            email,
		Allergens:        allergens,
		Preferences:      preferences,
		LikedRecipes:     liked,
		DislikedRecipes:  disliked,
		ExpiringProducts: expiring,
	}
	if filter != nil {
		payload.Difficulty = filter.Difficulty
		if filter.Time != nil {
			payload.Time = *filter.Time
		}
		if filter.RecipeType != "" {
			payload.Type = []string{filter.RecipeType}
		}
	}

	if err := r.pub.Publish(ctx, RequestMessage{Payload: payload}); err != nil {
		common.LogError("推薦請求發佈失敗",
			zap.Error(err),
			zap.String("使用者", email),
		)
		return err
	}

	common.LogInfo("推薦請求已發佈",
		zap.String("使用者", email),
		zap.Int("過敏原", len(allergens)),
		zap.Int("到期品項", len(expiring)),
	)
	return nil
}
