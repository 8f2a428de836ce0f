// internal/app/system/paging/paging.go
package paging

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is used when page_size is absent or invalid.
const DefaultPageSize = 20

// MaxPageSize caps page_size.
const MaxPageSize = 100

// MaxPage caps page. Any page past the data is empty, and the cap keeps
// the skip well inside int64.
const MaxPage = math.MaxInt32

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Skip is the number of documents before this page. It saturates instead of
// overflowing.
func (p Page) Skip() int64 {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	n, size := int64(p.Number-1), int64(p.Size)
	if n > math.MaxInt64/size {
		return math.MaxInt64
	}
	return n * size
}

// Limit is the page size as Mongo wants it.
func (p Page) Limit() int64 { return int64(p.Size) }

// Apply sets skip and limit on a Find.
func (p Page) Apply(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(p.Limit())
}

// Parse reads "page" and "page_size". Missing or invalid values fall back to
// page 1 and DefaultPageSize; page above MaxPage and page_size above
// MaxPageSize are clamped.
func Parse(r *http.Request) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		p.Number = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(query.Get(r, "page_size")); err == nil && n >= 1 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// Sort is a whitelisted sort: field is the stored field name.
type Sort struct {
	Field string
	Desc  bool
}

// Doc renders the sort with _id as a tiebreaker so paging is stable.
func (s Sort) Doc() bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	d := bson.D{{Key: s.Field, Value: dir}}
	if s.Field != "_id" {
		d = append(d, bson.E{Key: "_id", Value: dir})
	}
	return d
}

// ParseSort reads "field:asc|desc" from the "sort" parameter. allowed maps
// public names to stored fields; unknown names yield def.
func ParseSort(r *http.Request, allowed map[string]string, def Sort) Sort {
	raw := query.Get(r, "sort")
	if raw == "" {
		return def
	}
	name, dir, _ := strings.Cut(raw, ":")
	field, ok := allowed[name]
	if !ok {
		return def
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return Sort{Field: field}
	case "desc":
		return Sort{Field: field, Desc: true}
	}
	return def
}
