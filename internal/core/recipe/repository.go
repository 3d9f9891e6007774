package recipe

import "context"

// Repository 食譜儲存層介面
// FindByIDs 的結果順序沒有任何保證，呼叫端需要自行重排
type Repository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]Recipe, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
