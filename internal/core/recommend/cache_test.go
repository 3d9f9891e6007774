package recommend

import (
	"os"
	"sync"
	"testing"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestCachePutGetEvict(t *testing.T) {
	cache := NewCache()

	if _, ok := cache.Get("a@b.com"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Put("a@b.com", []int64{3, 1, 2})

	ids, ok := cache.Get("a@b.com")
	if !ok {
		t.Fatal("expected hit after put")
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	cache.Evict("a@b.com")
	if _, ok := cache.Get("a@b.com"); ok {
		t.Fatal("expected miss after evict")
	}
}

func TestCacheOverwrite(t *testing.T) {
	cache := NewCache()

	cache.Put("a@b.com", []int64{1, 2, 3})
	cache.Put("a@b.com", []int64{9})

	ids, _ := cache.Get("a@b.com")
	if len(ids) != 1 || ids[0] != 9 {
		t.Fatalf("expected last write to win, got %v", ids)
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache()

	src := []int64{1, 2, 3}
	cache.Put("a@b.com", src)
	src[0] = 99

	ids, _ := cache.Get("a@b.com")
	if ids[0] != 1 {
		t.Fatal("put must copy its input")
	}

	ids[1] = 99
	again, _ := cache.Get("a@b.com")
	if again[1] != 2 {
		t.Fatal("get must return a copy")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			email := "user@example.com"
			for j := 0; j < 100; j++ {
				cache.Put(email, []int64{int64(n), int64(j)})
				if ids, ok := cache.Get(email); ok && len(ids) != 2 {
					t.Errorf("observed partial entry: %v", ids)
				}
				if j%10 == 0 {
					cache.Evict(email)
				}
			}
		}(i)
	}
	wg.Wait()
}
