// internal/app/features/products/list.go
package products

import (
	"context"
	"net/http"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/normalize"
	"github.com/dalemusser/storeadmin/internal/app/system/paging"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"golang.org/x/sync/errgroup"
)

type listResponse struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

// ServeList handles GET /api/products.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	filter := productstore.ListFilter{
		Category:    normalize.Facet(query.Get(r, "category")),
		Subcategory: normalize.Facet(query.Get(r, "subcategory")),
		Brand:       normalize.Facet(query.Get(r, "brand")),
		Query:       normalize.QueryParam(query.Get(r, "q")),
	}
	page := paging.Parse(r)
	sort := paging.ParseSort(r, productstore.SortFields, productstore.DefaultSort)

	items, total, err := h.Products.List(ctx, filter, page, sort)
	if err != nil {
		apiresp.ServerError(w, r, h.Log, "list products", err)
		return
	}
	if items == nil {
		items = []models.Product{}
	}

	apiresp.JSON(w, http.StatusOK, listResponse{
		Page:     page.Number,
		PageSize: page.Size,
		Total:    total,
		Products: items,
	})
}

// ServeGet handles GET /api/products/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "get product", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, p)
}

type facetsResponse struct {
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Brands        []string `json:"brands"`
}

// ServeFacets handles GET /api/products/facets: the distinct category,
// subcategory and brand values for the console's pickers.
func (h *Handler) ServeFacets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var resp facetsResponse
	g, gctx := errgroup.WithContext(ctx)
	for field, dst := range map[string]*[]string{
		"productCategory":    &resp.Categories,
		"productSubcategory": &resp.Subcategories,
		"productBrandName":   &resp.Brands,
	} {
		g.Go(func() error {
			vals, err := h.Products.Distinct(gctx, field)
			if err != nil {
				return err
			}
			*dst = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		apiresp.ServerError(w, r, h.Log, "product facets", err)
		return
	}

	apiresp.JSON(w, http.StatusOK, resp)
}
