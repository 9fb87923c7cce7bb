package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	if info.TotalPages != 3 || info.CurrentPage != 2 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.NextPage == nil || *info.NextPage != 3 {
		t.Fatalf("next page: %v", info.NextPage)
	}
	if info.PreviousPage == nil || *info.PreviousPage != 1 {
		t.Fatalf("previous page: %v", info.PreviousPage)
	}
}

func TestNewPaginationInfoClampsPage(t *testing.T) {
	info := NewPaginationInfo(25, 9, 10)
	if info.CurrentPage != 3 {
		t.Fatalf("expected clamp to last page, got %d", info.CurrentPage)
	}
	if info.NextPage != nil {
		t.Fatalf("last page has no next page, got %d", *info.NextPage)
	}

	empty := NewPaginationInfo(0, 4, 10)
	if empty.CurrentPage != 1 || empty.TotalPages != 1 || empty.PreviousPage != nil || empty.NextPage != nil {
		t.Fatalf("unexpected empty info: %+v", empty)
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	if offset != 40 || limit != 20 {
		t.Fatalf("got offset=%d limit=%d", offset, limit)
	}
	offset, limit = CalculateOffsetLimit(0, 0)
	if offset != 0 || limit != DefaultPageSize {
		t.Fatalf("defaults: got offset=%d limit=%d", offset, limit)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 10},
		{"?page=3&pageSize=5", 3, 5},
		{"?page=-1&pageSize=abc", 1, 10},
		{"?pageSize=1000", 1, MaxPageSize},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/lessons"+tc.query, nil)
		page, size := ParsePaginationParams(c)
		if page != tc.page || size != tc.pageSize {
			t.Errorf("%q: got page=%d size=%d", tc.query, page, size)
		}
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("2m", time.Second); got != 2*time.Minute {
		t.Fatalf("got %v", got)
	}
	if got := ParseDuration("soon", time.Second); got != time.Second {
		t.Fatalf("fallback: got %v", got)
	}
}
