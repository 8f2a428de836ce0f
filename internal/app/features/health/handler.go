// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler reports whether the service can reach its database.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

type report struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
}

// Serve handles GET /health: 200 with {"status":"ok","database":"connected"}
// when a primary answers a ping, otherwise 503 with status "error".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	start := time.Now()
	err := h.Client.Ping(ctx, readpref.Primary())
	rep := report{LatencyMS: time.Since(start).Milliseconds()}

	if err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		rep.Status = "error"
		rep.Database = "disconnected"
		rep.Message = "Database unavailable"
		apiresp.JSON(w, http.StatusServiceUnavailable, rep)
		return
	}

	rep.Status = "ok"
	rep.Database = "connected"
	apiresp.JSON(w, http.StatusOK, rep)
}
