// internal/app/features/console/loaders.go
package console

import (
	"context"
	"errors"
	"net/http"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/store/queries/dashboardqueries"
	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/app/system/normalize"
	"github.com/dalemusser/storeadmin/internal/app/system/paging"
	"github.com/dalemusser/storeadmin/internal/app/system/routetable"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshotter builds the dashboard payload.
type Snapshotter interface {
	Build(ctx context.Context) (dashboardqueries.Snapshot, error)
}

// SnapshotLoader feeds the dashboard body.
func SnapshotLoader(s Snapshotter) Loader {
	return func(r *http.Request, _ routetable.Match) (any, error) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		return s.Build(ctx)
	}
}

// ProductListData is the product list view's data.
type ProductListData struct {
	Products    []models.Product
	Total       int64
	Page        paging.Page
	Category    string
	Subcategory string
	Brand       string
	Query       string
}

// ProductListLoader reads the same filters as the product API.
func ProductListLoader(ps *productstore.Store) Loader {
	return func(r *http.Request, _ routetable.Match) (any, error) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		f := productstore.ListFilter{
			Category:    normalize.Facet(query.Get(r, "category")),
			Subcategory: normalize.Facet(query.Get(r, "subcategory")),
			Brand:       normalize.Facet(query.Get(r, "brand")),
			Query:       normalize.QueryParam(query.Get(r, "q")),
		}
		page := paging.Parse(r)
		items, total, err := ps.List(ctx, f, page, paging.ParseSort(r, productstore.SortFields, productstore.DefaultSort))
		if err != nil {
			return nil, err
		}
		return ProductListData{
			Products:    items,
			Total:       total,
			Page:        page,
			Category:    f.Category,
			Subcategory: f.Subcategory,
			Brand:       f.Brand,
			Query:       f.Query,
		}, nil
	}
}

// ProductLoader loads the product named by the :id parameter, for the
// detail and edit views.
func ProductLoader(ps *productstore.Store) Loader {
	return func(r *http.Request, m routetable.Match) (any, error) {
		id, err := primitive.ObjectIDFromHex(m.Params["id"])
		if err != nil {
			return nil, ErrNotFound
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		p, err := ps.GetByID(ctx, id)
		if errors.Is(err, productstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return p, err
	}
}

// ProfileLoader loads the signed-in admin's account.
func ProfileLoader(us *userstore.Store) Loader {
	return func(r *http.Request, _ routetable.Match) (any, error) {
		u, ok := auth.CurrentUser(r)
		if !ok {
			return nil, ErrNotFound
		}
		id, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, ErrNotFound
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		user, err := us.GetByID(ctx, id)
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return user, err
	}
}
