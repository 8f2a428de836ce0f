// internal/app/features/products/handler.go
package products

import (
	"errors"
	"net/http"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Products *productstore.Store
	Images   storage.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, images storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Products: productstore.New(db),
		Images:   images,
		Log:      logger,
	}
}

// productID reads the {id} URL parameter. On failure it has already written
// a 400 response.
func productID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.Error(w, http.StatusBadRequest, "invalid product id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// storeError maps store errors onto responses.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, productstore.ErrNotFound):
		apiresp.Error(w, http.StatusNotFound, "product not found")
	case errors.Is(err, productstore.ErrInvalid):
		apiresp.Error(w, http.StatusBadRequest, err.Error())
	default:
		apiresp.ServerError(w, r, h.Log, msg, err)
	}
}
