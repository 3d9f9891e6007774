package recommend

import (
	"context"
	"sync"
	"testing"

	"zerowaste-backend/internal/core/pantry"
	"zerowaste-backend/internal/core/recipe"
	"zerowaste-backend/internal/core/rating"
	"zerowaste-backend/internal/core/user"
	"zerowaste-backend/internal/pkg/common"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []RequestMessage
}

func (f *fakePublisher) Publish(ctx context.Context, msg RequestMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

type testEnv struct {
	views   *Views
	cache   *Cache
	recipes *recipe.Memory
	ratings *rating.Service
	pub     *fakePublisher
}

func newTestEnv() *testEnv {
	recipes := recipe.NewMemory()
	ratings := rating.NewService(rating.NewMemory(), recipes)
	cache := NewCache()
	pub := &fakePublisher{}
	requester := NewRequester(user.NewMemory(), ratings, pantry.NewMemory(), pub)

	return &testEnv{
		views:   NewViews(cache, requester, recipes, ratings),
		cache:   cache,
		recipes: recipes,
		ratings: ratings,
		pub:     pub,
	}
}

func seedRecipes(env *testEnv, n int) {
	for i := 1; i <= n; i++ {
		env.recipes.Add(recipe.Recipe{
			ID:         int64(i),
			Name:       "Recipe " + string(rune('A'+i-1)),
			Difficulty: 1 + (i-1)%3,
			Time:       10 * i,
			RecipeType: "main",
		})
	}
}

func resultIDs(page *recipe.PageResponse) []int64 {
	ids := make([]int64, 0, len(page.Results))
	for _, v := range page.Results {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestListPagePreservesCacheOrder(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 5)
	env.cache.Put("a@b.com", []int64{3, 1, 2})

	page, err := env.views.ListPage(context.Background(), "a@b.com", 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	if page.Count != 3 {
		t.Fatalf("expected count 3, got %d", page.Count)
	}
	if page.Next != nil {
		t.Fatalf("expected no next cursor, got %q", *page.Next)
	}
	ids := resultIDs(page)
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("expected cache order [3 1 2], got %v", ids)
	}
}

func TestListPagePagination(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 5)
	env.cache.Put("a@b.com", []int64{5, 4, 3, 2, 1})

	page, err := env.views.ListPage(context.Background(), "a@b.com", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 5 {
		t.Fatalf("expected count 5, got %d", page.Count)
	}
	if got := resultIDs(page); len(got) != 2 || got[0] != 5 || got[1] != 4 {
		t.Fatalf("unexpected first page: %v", got)
	}
	if page.Next == nil || *page.Next != "?limit=2&offset=2" {
		t.Fatalf("unexpected next cursor: %v", page.Next)
	}

	// 最後一頁
	page, err = env.views.ListPage(context.Background(), "a@b.com", 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := resultIDs(page); len(got) != 1 || got[0] != 1 {
		t.Fatalf("unexpected last page: %v", got)
	}
	if page.Next != nil {
		t.Fatal("expected no next cursor on last page")
	}
}

func TestListPageOffsetBeyondTotal(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)
	env.cache.Put("a@b.com", []int64{1, 2, 3})

	page, err := env.views.ListPage(context.Background(), "a@b.com", 10, 7)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 3 || page.Next != nil || len(page.Results) != 0 {
		t.Fatalf("expected (3, nil, []), got (%d, %v, %v)", page.Count, page.Next, page.Results)
	}
}

func TestListPageCacheMissTriggersOneRequest(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)

	page, err := env.views.ListPage(context.Background(), "x@y.com", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 0 || page.Next != nil || len(page.Results) != 0 {
		t.Fatalf("expected empty page on cache miss, got %+v", page)
	}

	if env.pub.count() != 1 {
		t.Fatalf("expected exactly one outbound request, got %d", env.pub.count())
	}
	if got := env.pub.msgs[0].Payload.Email; got != "x@y.com" {
		t.Fatalf("expected request for x@y.com, got %q", got)
	}
}

func TestListPageSkipsMissingRecipes(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)
	env.cache.Put("a@b.com", []int64{1, 99, 2})

	page, err := env.views.ListPage(context.Background(), "a@b.com", 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	// 總數反映快取，缺漏的 id 只從結果中靜默略過
	if page.Count != 3 {
		t.Fatalf("expected count 3, got %d", page.Count)
	}
	if got := resultIDs(page); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestListPageJoinsRatings(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)
	env.cache.Put("a@b.com", []int64{1, 2, 3})

	liked := true
	if err := env.ratings.Rate(context.Background(), "a@b.com", 2, &liked); err != nil {
		t.Fatal(err)
	}

	page, err := env.views.ListPage(context.Background(), "a@b.com", 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range page.Results {
		switch v.ID {
		case 2:
			if v.Rating == nil || !*v.Rating {
				t.Fatal("expected rating true for recipe 2")
			}
		default:
			if v.Rating != nil {
				t.Fatalf("expected null rating for recipe %d", v.ID)
			}
		}
	}
}

func TestSearchPageEmptyTermFails(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)
	env.cache.Put("a@b.com", []int64{1, 2, 3})

	_, err := env.views.SearchPage(context.Background(), "a@b.com", 10, 0, "")
	if err != common.ErrEmptySearch {
		t.Fatalf("expected ErrEmptySearch, got %v", err)
	}

	// 不觸發請求、不動快取
	if env.pub.count() != 0 {
		t.Fatal("empty search must not publish a request")
	}
	if ids, _ := env.cache.Get("a@b.com"); len(ids) != 3 {
		t.Fatal("empty search must not mutate the cache")
	}
}

func TestSearchPageCaseInsensitiveAndOrdered(t *testing.T) {
	env := newTestEnv()
	env.recipes.Add(recipe.Recipe{ID: 1, Name: "Tomato Soup"})
	env.recipes.Add(recipe.Recipe{ID: 2, Name: "Green Salad"})
	env.recipes.Add(recipe.Recipe{ID: 3, Name: "Stuffed Tomatoes"})
	env.cache.Put("a@b.com", []int64{3, 2, 1})

	page, err := env.views.SearchPage(context.Background(), "a@b.com", 10, 0, "toma")
	if err != nil {
		t.Fatal(err)
	}

	if page.Count != 2 {
		t.Fatalf("expected count 2, got %d", page.Count)
	}
	if got := resultIDs(page); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("expected [3 1] in cache order, got %v", got)
	}
}

func TestSearchPageCursorCarriesTerm(t *testing.T) {
	env := newTestEnv()
	env.recipes.Add(recipe.Recipe{ID: 1, Name: "Pasta One"})
	env.recipes.Add(recipe.Recipe{ID: 2, Name: "Pasta Two"})
	env.recipes.Add(recipe.Recipe{ID: 3, Name: "Pasta Three"})
	env.cache.Put("a@b.com", []int64{1, 2, 3})

	page, err := env.views.SearchPage(context.Background(), "a@b.com", 2, 0, "pasta")
	if err != nil {
		t.Fatal(err)
	}
	if page.Next == nil || *page.Next != "?limit=2&offset=2&search=pasta" {
		t.Fatalf("unexpected next cursor: %v", page.Next)
	}
}

func TestSearchPageEmptyCacheDoesNotTrigger(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)

	page, err := env.views.SearchPage(context.Background(), "a@b.com", 10, 0, "soup")
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 0 || len(page.Results) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if env.pub.count() != 0 {
		t.Fatal("search must not trigger an outbound request")
	}
}

func TestFilterPageCriteria(t *testing.T) {
	env := newTestEnv()
	env.recipes.Add(recipe.Recipe{ID: 1, Name: "A", Time: 20, Difficulty: 1, RecipeType: "main"})
	env.recipes.Add(recipe.Recipe{ID: 2, Name: "B", Time: 45, Difficulty: 3, RecipeType: "main"})
	env.recipes.Add(recipe.Recipe{ID: 3, Name: "C", Time: 10, Difficulty: 2, RecipeType: "main"})
	env.cache.Put("a@b.com", []int64{1, 2, 3})

	maxTime := 30
	page, err := env.views.FilterPage(context.Background(), "a@b.com", 10, 0, &recipe.Filter{
		Time:       &maxTime,
		Difficulty: []int{1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	if page.Count != 2 {
		t.Fatalf("expected count 2, got %d", page.Count)
	}
	if got := resultIDs(page); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected [1 3] in cache order, got %v", got)
	}
}

func TestFilterPageTypeCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	env.recipes.Add(recipe.Recipe{ID: 1, Name: "A", RecipeType: "Dessert"})
	env.recipes.Add(recipe.Recipe{ID: 2, Name: "B", RecipeType: "main"})
	env.cache.Put("a@b.com", []int64{1, 2})

	page, err := env.views.FilterPage(context.Background(), "a@b.com", 10, 0, &recipe.Filter{
		RecipeType: "dessert",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := resultIDs(page); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected [1], got %v", got)
	}
}

func TestFilterPageFavouritesBypassesCache(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 4)

	ctx := context.Background()
	liked, disliked := true, false
	if err := env.ratings.Rate(ctx, "a@b.com", 2, &liked); err != nil {
		t.Fatal(err)
	}
	if err := env.ratings.Rate(ctx, "a@b.com", 4, &liked); err != nil {
		t.Fatal(err)
	}
	if err := env.ratings.Rate(ctx, "a@b.com", 1, &disliked); err != nil {
		t.Fatal(err)
	}

	// 快取為空也要能回傳收藏
	fav := true
	page, err := env.views.FilterPage(ctx, "a@b.com", 10, 0, &recipe.Filter{Favourites: &fav})
	if err != nil {
		t.Fatal(err)
	}

	if page.Count != 2 {
		t.Fatalf("expected count 2, got %d", page.Count)
	}
	if got := resultIDs(page); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("expected [2 4] in rating order, got %v", got)
	}
	if env.pub.count() != 0 {
		t.Fatal("favourites filter must not trigger an outbound request")
	}
}

func TestFilterPageFavouritesAfterUnrate(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 2)

	ctx := context.Background()
	liked := true
	if err := env.ratings.Rate(ctx, "a@b.com", 1, &liked); err != nil {
		t.Fatal(err)
	}
	if err := env.ratings.Rate(ctx, "a@b.com", 1, nil); err != nil {
		t.Fatal(err)
	}

	fav := true
	page, err := env.views.FilterPage(ctx, "a@b.com", 10, 0, &recipe.Filter{Favourites: &fav})
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 0 || len(page.Results) != 0 {
		t.Fatalf("expected empty favourites after unrate, got %+v", page)
	}
}

func TestFilterPageEmptyCacheWithoutFavourites(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 2)

	page, err := env.views.FilterPage(context.Background(), "a@b.com", 10, 0, &recipe.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 0 || len(page.Results) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if env.pub.count() != 0 {
		t.Fatal("filter must not trigger an outbound request")
	}
}

func TestFilterPageNilFilter(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 2)
	env.cache.Put("a@b.com", []int64{1, 2})

	page, err := env.views.FilterPage(context.Background(), "a@b.com", 10, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 0 || len(page.Results) != 0 {
		t.Fatalf("expected empty page for nil filter, got %+v", page)
	}
}

func TestRefreshEvictsAndRequests(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 2)
	env.cache.Put("a@b.com", []int64{1, 2})

	if err := env.views.Refresh(context.Background(), "a@b.com"); err != nil {
		t.Fatal(err)
	}

	if _, ok := env.cache.Get("a@b.com"); ok {
		t.Fatal("expected cache entry evicted")
	}
	if env.pub.count() != 1 {
		t.Fatalf("expected one outbound request, got %d", env.pub.count())
	}
}

func TestReplyThenListRoundTrip(t *testing.T) {
	env := newTestEnv()
	seedRecipes(env, 3)

	notifier := &fakeNotifier{}
	ingress := NewIngress(env.cache, notifier)
	ingress.HandleReply(context.Background(), ReplyMessage{
		Type:    "run",
		Payload: &ReplyPayload{Email: "a@b.com", RecipeIDs: []int64{3, 1, 2}},
	})

	page, err := env.views.ListPage(context.Background(), "a@b.com", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := resultIDs(page); len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("expected [3 1 2], got %v", got)
	}
	if env.pub.count() != 0 {
		t.Fatal("cache hit must not trigger an outbound request")
	}
}
