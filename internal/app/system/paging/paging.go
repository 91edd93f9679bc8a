// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the request does not set one.
const DefaultLimit = 20

// MaxLimit caps client-requested page sizes.
const MaxLimit = 100

// MaxPage caps the page number so Skip stays far from int64 overflow. Any
// page this deep is past the end and reads back empty.
const MaxPage = math.MaxInt32

// Page is a 1-based offset window.
type Page struct {
	Number int // 1-based
	Limit  int
}

// Parse reads "page" and "limit" query params, falling back to page 1 and
// DefaultLimit on missing or invalid values.
func Parse(r *http.Request) Page {
	return Page{
		Number: pageNumber(query.Get(r, "page")),
		Limit:  min(positive(query.Get(r, "limit"), DefaultLimit), MaxLimit),
	}
}

// pageNumber clamps out-of-range page numbers to MaxPage instead of
// falling back to the first page.
func pageNumber(s string) int {
	n, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
		return MaxPage
	}
	if err != nil || n < 1 {
		return 1
	}
	return int(min(n, MaxPage))
}

func positive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip is the number of documents before this page, for Find().SetSkip.
func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Limit) }

// Limit64 is the page size for Find().SetLimit.
func (p Page) Limit64() int64 { return int64(p.Limit) }

// TotalPages is ceil(total/limit); zero results means zero pages.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
