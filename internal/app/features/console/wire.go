// internal/app/features/console/wire.go
package console

import (
	"net/http"

	productstore "github.com/dalemusser/storeadmin/internal/app/store/products"
	"github.com/dalemusser/storeadmin/internal/app/store/queries/dashboardqueries"
	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/routetable"
	"github.com/dalemusser/storeadmin/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewHandler builds the console over the standard route table with loaders
// backed by the Mongo stores.
func NewHandler(db *mongo.Database, googleEnabled bool, notFound http.HandlerFunc, logger *zap.Logger) *Handler {
	products := productstore.New(db)
	users := userstore.New(db)
	product := ProductLoader(products)

	return &Handler{
		Table: routetable.Console,
		Loaders: map[string]Loader{
			routetable.ViewDashboard:     SnapshotLoader(dashboardqueries.New(products, users)),
			routetable.ViewProductList:   ProductListLoader(products),
			routetable.ViewProductDetail: product,
			routetable.ViewProductUpdate: product,
			routetable.ViewAdminProfile:  ProfileLoader(users),
		},
		GoogleEnabled: googleEnabled,
		NotFound:      notFound,
		Render:        viewdata.Render,
		Log:           logger,
	}
}
