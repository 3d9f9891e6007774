package recommend

import "testing"

func TestNextCursor(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		end    int
		total  int
		search string
		want   string // 空字串表示期望 nil
	}{
		{name: "middle page", limit: 10, end: 10, total: 25, want: "?limit=10&offset=10"},
		{name: "last page", limit: 10, end: 25, total: 25, want: ""},
		{name: "past the end", limit: 10, end: 30, total: 25, want: ""},
		{name: "with search term", limit: 5, end: 5, total: 12, search: "soup", want: "?limit=5&offset=5&search=soup"},
		{name: "search on last page", limit: 5, end: 12, total: 12, search: "soup", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextCursor(tt.limit, tt.end, tt.total, tt.search)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected nil cursor, got %q", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, got)
			}
		})
	}
}
