package pantry

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeSender struct {
	mu    sync.Mutex
	sent  map[string]string // 收件者 → 內容
	fails bool
}

func (f *fakeSender) Send(ctx context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails {
		return context.DeadlineExceeded
	}
	if f.sent == nil {
		f.sent = make(map[string]string)
	}
	f.sent[to] = html
	return nil
}

func TestPlannerSendsDigestPerUser(t *testing.T) {
	store := NewMemory()
	today := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return today })

	store.SetProducts("a@b.com", []Product{
		{Name: "Milk", BestBefore: today.AddDate(0, 0, 1)},
	})
	store.SetProducts("c@d.com", []Product{
		{Name: "Rice", BestBefore: today.AddDate(0, 0, 60)},
	})

	sender := &fakeSender{}
	planner := NewPlanner(store, sender, time.Hour)
	planner.runOnce(context.Background())

	if len(sender.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(sender.sent))
	}
	html, ok := sender.sent["a@b.com"]
	if !ok {
		t.Fatal("expected mail for a@b.com")
	}
	if !strings.Contains(html, "Milk") {
		t.Fatalf("expected product name in mail body, got %q", html)
	}
}

func TestPlannerContinuesAfterSendFailure(t *testing.T) {
	store := NewMemory()
	today := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return today })
	store.SetProducts("a@b.com", []Product{
		{Name: "Milk", BestBefore: today},
	})

	sender := &fakeSender{fails: true}
	planner := NewPlanner(store, sender, time.Hour)

	// 寄送失敗不可讓整輪中斷
	planner.runOnce(context.Background())
}
