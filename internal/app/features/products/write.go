// internal/app/features/products/write.go
package products

import (
	"context"
	"net/http"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/limits"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"go.uber.org/zap"
)

// productInput is the JSON body for create and update. Fields are pointers
// so an update can tell "absent" from "zero".
type productInput struct {
	Name        *string   `json:"productName"`
	Description *string   `json:"productDescription"`
	Category    *string   `json:"productCategory"`
	Subcategory *string   `json:"productSubcategory"`
	BrandName   *string   `json:"productBrandName"`
	Price       *float64  `json:"productPrice"`
	Stock       *int      `json:"productStock"`
	Images      *[]string `json:"productImages"`
}

func (in productInput) product() models.Product {
	var p models.Product
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Subcategory != nil {
		p.Subcategory = *in.Subcategory
	}
	if in.BrandName != nil {
		p.BrandName = *in.BrandName
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	return p
}

func (in productInput) update() productstore.Update {
	return productstore.Update{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		BrandName:   in.BrandName,
		Price:       in.Price,
		Stock:       in.Stock,
		Images:      in.Images,
	}
}

// ServeCreate handles POST /api/products.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if err := apiresp.Decode(w, r, &in, limits.MaxProductJSON); err != nil {
		apiresp.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.Create(ctx, in.product())
	if err != nil {
		h.storeError(w, r, "create product", err)
		return
	}

	h.Log.Info("product created",
		zap.String("product_id", p.ID.Hex()),
		zap.String("category", p.Category))
	apiresp.JSON(w, http.StatusCreated, p)
}

// ServeUpdate handles PUT /api/products/{id}. Only supplied fields change.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var in productInput
	if err := apiresp.Decode(w, r, &in, limits.MaxProductJSON); err != nil {
		apiresp.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.Update(ctx, id, in.update())
	if err != nil {
		h.storeError(w, r, "update product", err)
		return
	}

	h.Log.Info("product updated", zap.String("product_id", id.Hex()))
	apiresp.JSON(w, http.StatusOK, p)
}

// ServeDelete handles DELETE /api/products/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		h.storeError(w, r, "delete product", err)
		return
	}

	h.Log.Info("product deleted", zap.String("product_id", id.Hex()))
	apiresp.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
