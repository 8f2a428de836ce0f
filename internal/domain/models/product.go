// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry managed from the admin console.
//
// Field names match the documents the storefront already writes, so the
// bson and json keys are camelCase rather than the snake_case used for users.
// Category, Subcategory and BrandName are the dashboard grouping keys.
// NameCI is the folded name used for search and sorting.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"productName" json:"productName"`
	NameCI      string             `bson:"productName_ci" json:"-"`
	Description string             `bson:"productDescription,omitempty" json:"productDescription,omitempty"`
	Category    string             `bson:"productCategory" json:"productCategory"`
	Subcategory string             `bson:"productSubcategory" json:"productSubcategory"`
	BrandName   string             `bson:"productBrandName" json:"productBrandName"`
	Price       float64            `bson:"productPrice" json:"productPrice"`
	Stock       int                `bson:"productStock" json:"productStock"`
	Images      []string           `bson:"productImages,omitempty" json:"productImages,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
