// Package dashboardqueries assembles the admin dashboard snapshot from the
// product and user stores.
package dashboardqueries

import (
	"context"
	"sort"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/system/grouping"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// ProductGrouper is the product-side data the dashboard needs.
type ProductGrouper interface {
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) ([]productstore.CategoryCount, error)
	GroupBySubcategory(ctx context.Context) ([]productstore.SubcategoryBucket, error)
	GroupByBrand(ctx context.Context) ([]productstore.BrandBucket, error)
}

// UserCounter counts user documents.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Snapshot is the dashboard payload.
type Snapshot struct {
	CountOverallProducts int64           `json:"countOverallProducts"`
	FormattedCategories  []CategoryGroup `json:"formattedCategories"`
	FormattedBrands      []BrandGroup    `json:"formattedBrands"`
	CountTotalUsers      int64           `json:"countTotalUsers"`
}

// CategoryGroup is a category, its product count, and the subcategory groups
// whose products all carry that category. Name is nil for products without
// a category.
type CategoryGroup struct {
	Name     *string            `json:"name"`
	Count    int                `json:"count"`
	Products []SubcategoryGroup `json:"products"`
}

// SubcategoryGroup is a subcategory within one category.
type SubcategoryGroup struct {
	Name     *string          `json:"name"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
}

// BrandGroup is a brand and its products.
type BrandGroup struct {
	Name     *string          `json:"name"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
}

// Aggregator builds snapshots. It holds no per-request state.
type Aggregator struct {
	products ProductGrouper
	users    UserCounter
}

// New returns an Aggregator over the given stores.
func New(products ProductGrouper, users UserCounter) *Aggregator {
	return &Aggregator{products: products, users: users}
}

// Build runs the store queries concurrently and assembles the snapshot.
// Any failure cancels the remaining queries and no partial snapshot is
// returned.
func (a *Aggregator) Build(ctx context.Context) (Snapshot, error) {
	var (
		total  int64
		users  int64
		cats   []productstore.CategoryCount
		subs   []productstore.SubcategoryBucket
		brands []productstore.BrandBucket
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { total, err = a.products.Count(gctx); return })
	g.Go(func() (err error) { cats, err = a.products.CountByCategory(gctx); return })
	g.Go(func() (err error) { subs, err = a.products.GroupBySubcategory(gctx); return })
	g.Go(func() (err error) { brands, err = a.products.GroupByBrand(gctx); return })
	g.Go(func() (err error) { users, err = a.users.Count(gctx); return })
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		CountOverallProducts: total,
		FormattedCategories:  joinCategories(cats, subs),
		FormattedBrands:      brandGroups(brands),
		CountTotalUsers:      users,
	}, nil
}

// nameKey makes a nullable group name usable as a map key.
type nameKey struct {
	set  bool
	name string
}

func keyOf(s *string) nameKey {
	if s == nil {
		return nameKey{}
	}
	return nameKey{set: true, name: *s}
}

// nameLess orders names with null first, then lexically.
func nameLess(a, b *string) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	}
	return *a < *b
}

// joinCategories attaches each subcategory bucket to the category in its
// grouping key. Buckets whose category has no count (the product changed
// between queries) are dropped.
func joinCategories(cats []productstore.CategoryCount, subs []productstore.SubcategoryBucket) []CategoryGroup {
	byCategory := grouping.Index(subs, func(b productstore.SubcategoryBucket) nameKey {
		return keyOf(b.Key.Category)
	})

	out := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		if c.Count == 0 {
			continue
		}
		members := byCategory[keyOf(c.Category)]
		sg := make([]SubcategoryGroup, 0, len(members))
		for _, b := range members {
			if len(b.Products) == 0 {
				continue
			}
			sg = append(sg, SubcategoryGroup{
				Name:     b.Key.Subcategory,
				Count:    len(b.Products),
				Products: b.Products,
			})
		}
		sort.SliceStable(sg, func(i, j int) bool { return nameLess(sg[i].Name, sg[j].Name) })

		out = append(out, CategoryGroup{Name: c.Category, Count: c.Count, Products: sg})
	}
	sort.SliceStable(out, func(i, j int) bool { return nameLess(out[i].Name, out[j].Name) })
	return out
}

func brandGroups(brands []productstore.BrandBucket) []BrandGroup {
	out := make([]BrandGroup, 0, len(brands))
	for _, b := range brands {
		if len(b.Products) == 0 {
			continue
		}
		out = append(out, BrandGroup{Name: b.Brand, Count: len(b.Products), Products: b.Products})
	}
	sort.SliceStable(out, func(i, j int) bool { return nameLess(out[i].Name, out[j].Name) })
	return out
}
