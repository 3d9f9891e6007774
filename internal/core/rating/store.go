package rating

import (
	"context"

	"zerowaste-backend/internal/core/recipe"
	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Rating 使用者對單一食譜的評分（喜歡 / 不喜歡）
// 每組 (email, recipeID) 至多一筆
type Rating struct {
	Email    string
	RecipeID int64
	Value    bool
}

// Repository 評分儲存層介面
type Repository interface {
	Find(ctx context.Context, email string, recipeID int64) (*Rating, error)
	Save(ctx context.Context, r Rating) error
	Delete(ctx context.Context, email string, recipeID int64) error
	// FindByEmailIn 一次查出指定食譜集合的評分，供分頁結果批次 join
	FindByEmailIn(ctx context.Context, email string, recipeIDs []int64) ([]Rating, error)
	// FindByEmailAndValue 依評分值查詢，回傳順序為儲存層的自然順序
	FindByEmailAndValue(ctx context.Context, email string, value bool) ([]Rating, error)
}

// Service 評分服務
type Service struct {
	repo    Repository
	recipes recipe.Repository
}

// NewService 創建評分服務
func NewService(repo Repository, recipes recipe.Repository) *Service {
	return &Service{
		repo:    repo,
		recipes: recipes,
	}
}

// Rate 評分食譜
// value 為 nil 時刪除既有評分（不存在則為 no-op），否則新增或就地覆寫
func (s *Service) Rate(ctx context.Context, email string, recipeID int64, value *bool) error {
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return err
	}
	if !exists {
		common.LogWarn("評分目標食譜不存在",
			zap.String("使用者", email),
			zap.Int64("食譜", recipeID),
		)
		return common.ErrRecipeNotFound
	}

	if value == nil {
		return s.repo.Delete(ctx, email, recipeID)
	}

	return s.repo.Save(ctx, Rating{
		Email:    email,
		RecipeID: recipeID,
		Value:    *value,
	})
}

// ForRecipes 批次查詢頁面內食譜的評分，回傳 recipeID 對應評分值的映射
func (s *Service) ForRecipes(ctx context.Context, email string, recipeIDs []int64) (map[int64]bool, error) {
	ratings, err := s.repo.FindByEmailIn(ctx, email, recipeIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[int64]bool, len(ratings))
	for _, r := range ratings {
		result[r.RecipeID] = r.Value
	}
	return result, nil
}

// IDsByValue 依評分值取得食譜 id，保持儲存層的自然順序
func (s *Service) IDsByValue(ctx context.Context, email string, value bool) ([]int64, error) {
	ratings, err := s.repo.FindByEmailAndValue(ctx, email, value)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.RecipeID)
	}
	return ids, nil
}
