package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestConstants tests the package constants
func TestConstants(t *testing.T) {
	if DefaultPage != 1 {
		t.Errorf("DefaultPage = %d, want 1", DefaultPage)
	}
	if DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", DefaultLimit)
	}
	if MaxLimit != 100 {
		t.Errorf("MaxLimit = %d, want 100", MaxLimit)
	}
}

// TestParseParams tests the ParseParams function
func TestParseParams(t *testing.T) {
	tests := []struct {
		name          string
		queryString   string
		expectedPage  int
		expectedLimit int
	}{
		{
			name:          "no params uses defaults",
			queryString:   "",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "valid page and limit",
			queryString:   "page=3&limit=10",
			expectedPage:  3,
			expectedLimit: 10,
		},
		{
			name:          "only page",
			queryString:   "page=5",
			expectedPage:  5,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "only limit",
			queryString:   "limit=50",
			expectedPage:  DefaultPage,
			expectedLimit: 50,
		},
		{
			name:          "zero page uses default",
			queryString:   "page=0",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "negative page uses default",
			queryString:   "page=-2",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "zero limit uses default",
			queryString:   "limit=0",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "negative limit uses default",
			queryString:   "limit=-10",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "limit exceeds max",
			queryString:   "limit=200",
			expectedPage:  DefaultPage,
			expectedLimit: MaxLimit,
		},
		{
			name:          "limit exactly at max",
			queryString:   "limit=100",
			expectedPage:  DefaultPage,
			expectedLimit: 100,
		},
		{
			name:          "non-numeric page",
			queryString:   "page=abc",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "non-numeric limit",
			queryString:   "limit=xyz",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "float page",
			queryString:   "page=2.5",
			expectedPage:  DefaultPage,
			expectedLimit: DefaultLimit,
		},
		{
			name:          "limit=1 minimum valid",
			queryString:   "limit=1",
			expectedPage:  DefaultPage,
			expectedLimit: 1,
		},
		{
			name:          "large page",
			queryString:   "page=10000",
			expectedPage:  10000,
			expectedLimit: DefaultLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest("GET", "/?"+tt.queryString, nil)

			params := ParseParams(c)

			if params.Page != tt.expectedPage {
				t.Errorf("Page = %d, want %d", params.Page, tt.expectedPage)
			}
			if params.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", params.Limit, tt.expectedLimit)
			}
		})
	}
}

// TestParamsOffset tests the Offset method
func TestParamsOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		expected int
	}{
		{"first page", 1, 10, 0},
		{"second page", 2, 10, 10},
		{"third page", 3, 25, 50},
		{"large page", 101, 10, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{Page: tt.page, Limit: tt.limit}
			if got := p.Offset(); got != tt.expected {
				t.Errorf("Offset() = %d, want %d", got, tt.expected)
			}
		})
	}
}

// TestBuildMeta tests the BuildMeta function
func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name               string
		page               int
		limit              int
		totalCount         int
		expectedTotalPages int
		expectedHasNext    bool
		expectedHasPrev    bool
	}{
		{
			name:               "first page with 100 items",
			page:               1,
			limit:              10,
			totalCount:         100,
			expectedTotalPages: 10,
			expectedHasNext:    true,
			expectedHasPrev:    false,
		},
		{
			name:               "middle page",
			page:               5,
			limit:              10,
			totalCount:         100,
			expectedTotalPages: 10,
			expectedHasNext:    true,
			expectedHasPrev:    true,
		},
		{
			name:               "last page",
			page:               10,
			limit:              10,
			totalCount:         100,
			expectedTotalPages: 10,
			expectedHasNext:    false,
			expectedHasPrev:    true,
		},
		{
			name:               "partial last page rounds up",
			page:               1,
			limit:              10,
			totalCount:         25,
			expectedTotalPages: 3,
			expectedHasNext:    true,
			expectedHasPrev:    false,
		},
		{
			name:               "single item",
			page:               1,
			limit:              10,
			totalCount:         1,
			expectedTotalPages: 1,
			expectedHasNext:    false,
			expectedHasPrev:    false,
		},
		{
			name:               "no items",
			page:               1,
			limit:              10,
			totalCount:         0,
			expectedTotalPages: 0,
			expectedHasNext:    false,
			expectedHasPrev:    false,
		},
		{
			name:               "page beyond total pages",
			page:               7,
			limit:              10,
			totalCount:         25,
			expectedTotalPages: 3,
			expectedHasNext:    false,
			expectedHasPrev:    true,
		},
		{
			name:               "one item over page boundary",
			page:               1,
			limit:              10,
			totalCount:         11,
			expectedTotalPages: 2,
			expectedHasNext:    true,
			expectedHasPrev:    false,
		},
		{
			name:               "zero limit",
			page:               1,
			limit:              0,
			totalCount:         100,
			expectedTotalPages: 0,
			expectedHasNext:    false,
			expectedHasPrev:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMeta(tt.page, tt.limit, tt.totalCount)

			if meta.Page != tt.page {
				t.Errorf("Page = %d, want %d", meta.Page, tt.page)
			}
			if meta.Limit != tt.limit {
				t.Errorf("Limit = %d, want %d", meta.Limit, tt.limit)
			}
			if meta.TotalCount != tt.totalCount {
				t.Errorf("TotalCount = %d, want %d", meta.TotalCount, tt.totalCount)
			}
			if meta.TotalPages != tt.expectedTotalPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.expectedTotalPages)
			}
			if meta.HasNext != tt.expectedHasNext {
				t.Errorf("HasNext = %v, want %v", meta.HasNext, tt.expectedHasNext)
			}
			if meta.HasPrev != tt.expectedHasPrev {
				t.Errorf("HasPrev = %v, want %v", meta.HasPrev, tt.expectedHasPrev)
			}
		})
	}
}

// TestSlice tests windowing a full result set into a page
func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name     string
		page     int
		limit    int
		expected []int
	}{
		{"first page", 1, 3, []int{1, 2, 3}},
		{"second page", 2, 3, []int{4, 5, 6}},
		{"partial last page", 4, 3, []int{10}},
		{"page beyond end is empty", 5, 3, []int{}},
		{"limit covers everything", 1, 100, items},
		{"far beyond end is empty", 100, 10, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(items, Params{Page: tt.page, Limit: tt.limit})
			if len(got) != len(tt.expected) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("item %d = %d, want %d", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSlice_EmptyInput(t *testing.T) {
	got := Slice([]string{}, Params{Page: 1, Limit: 20})
	if len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

// Benchmark tests
func BenchmarkParseParams(b *testing.B) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/?page=3&limit=50", nil)

	for i := 0; i < b.N; i++ {
		ParseParams(c)
	}
}

func BenchmarkBuildMeta(b *testing.B) {
	for i := 0; i < b.N; i++ {
		BuildMeta(3, 20, 1000)
	}
}
