package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		url       string
		wantPage  int
		wantLimit int
	}{
		{"/x", 1, DefaultLimit},
		{"/x?page=3&limit=10", 3, 10},
		{"/x?page=0&limit=-5", 1, DefaultLimit},
		{"/x?page=abc&limit=abc", 1, DefaultLimit},
		{"/x?limit=5000", 1, MaxLimit},
		{"/x?page=99999999999999999999", MaxPage, DefaultLimit},
		{"/x?page=-99999999999999999999", 1, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p := Parse(httptest.NewRequest("GET", tt.url, nil))
			if p.Number != tt.wantPage {
				t.Errorf("page: got %d, want %d", p.Number, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", p.Limit, tt.wantLimit)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 20, 2},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d): got %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestSkip(t *testing.T) {
	p := Page{Number: 2, Limit: 20}
	if p.Skip() != 20 {
		t.Errorf("Skip: got %d, want 20", p.Skip())
	}
}

func TestParse_HugePageDoesNotOverflow(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/x?page=9223372036854775807&limit=100", nil))
	if p.Number != MaxPage {
		t.Errorf("page: got %d, want %d", p.Number, MaxPage)
	}
	if p.Skip() <= 0 {
		t.Errorf("Skip: got %d, want a large positive offset", p.Skip())
	}
	if p.Skip() < 1000*int64(p.Limit) {
		t.Errorf("Skip: got %d, want it past any realistic result set", p.Skip())
	}
}
