// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/store/queries/dashboardqueries"
	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Snapshotter builds the dashboard payload.
type Snapshotter interface {
	Build(ctx context.Context) (dashboardqueries.Snapshot, error)
}

type Handler struct {
	Snapshots Snapshotter
	Log       *zap.Logger
}

// NewHandler wires the aggregator to the Mongo product and user stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	agg := dashboardqueries.New(productstore.New(db), userstore.New(db))
	return NewHandlerWith(agg, logger)
}

// NewHandlerWith builds a Handler around any Snapshotter.
func NewHandlerWith(s Snapshotter, logger *zap.Logger) *Handler {
	return &Handler{
		Snapshots: s,
		Log:       logger,
	}
}

// ServeDashboard handles GET /api/admin/dashboard.
//
// The snapshot is all or nothing: any store failure is logged and the caller
// gets a 500 with the body "Internal server error".
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snap, err := h.Snapshots.Build(ctx)
	if err != nil {
		apiresp.ServerError(w, r, h.Log, "dashboard aggregation failed", err)
		return
	}

	h.Log.Debug("dashboard served",
		zap.Int64("products", snap.CountOverallProducts),
		zap.Int("categories", len(snap.FormattedCategories)),
		zap.Int("brands", len(snap.FormattedBrands)))

	apiresp.JSON(w, http.StatusOK, snap)
}
