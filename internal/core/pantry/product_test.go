package pantry

import (
	"testing"
	"time"
)

func TestExpiringSoonAt(t *testing.T) {
	today := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	tests := []struct {
		name    string
		product Product
		want    bool
	}{
		{name: "best before today", product: Product{BestBefore: day(0)}, want: true},
		{name: "best before yesterday", product: Product{BestBefore: day(-1)}, want: true},
		{name: "best before two days ago", product: Product{BestBefore: day(-2)}, want: false},
		{name: "best before in three days", product: Product{BestBefore: day(3)}, want: true},
		{name: "best before in four days", product: Product{BestBefore: day(4)}, want: false},
		{name: "no dates at all", product: Product{}, want: false},
		{
			name:    "opened window earlier than best before",
			product: Product{BestBefore: day(30), Opened: day(-1), ConsumptionDays: 3},
			want:    true,
		},
		{
			name:    "opened window later than best before",
			product: Product{BestBefore: day(2), Opened: day(0), ConsumptionDays: 30},
			want:    true,
		},
		{
			name:    "opened without consumption days is ignored",
			product: Product{Opened: day(0)},
			want:    false,
		},
		{
			name:    "opened window only",
			product: Product{Opened: day(-2), ConsumptionDays: 2},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.product.ExpiringSoonAt(today); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExpiringNames(t *testing.T) {
	store := NewMemory()
	today := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return today })

	store.SetProducts("a@b.com", []Product{
		{ID: 1, Name: "Milk", BestBefore: today.AddDate(0, 0, 1)},
		{ID: 2, Name: "Rice", BestBefore: today.AddDate(0, 0, 60)},
		{ID: 3, Name: "Yogurt", Opened: today.AddDate(0, 0, -1), ConsumptionDays: 2},
	})

	names, err := store.ExpiringNames(nil, "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Milk" || names[1] != "Yogurt" {
		t.Fatalf("expected [Milk Yogurt], got %v", names)
	}

	names, _ = store.ExpiringNames(nil, "unknown@b.com")
	if len(names) != 0 {
		t.Fatalf("expected no names for unknown user, got %v", names)
	}
}
