package productstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/storeadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Grouping results. A nil key stands for documents where the field is null
// or absent; Mongo groups both under null.

// CategoryCount is one category and how many products carry it.
type CategoryCount struct {
	Category *string `bson:"_id"`
	Count    int     `bson:"count"`
}

// SubcategoryKey is the compound key a subcategory bucket is grouped on.
type SubcategoryKey struct {
	Category    *string `bson:"category"`
	Subcategory *string `bson:"subcategory"`
}

// SubcategoryBucket holds the products sharing a (category, subcategory) pair.
type SubcategoryBucket struct {
	Key      SubcategoryKey   `bson:"_id"`
	Count    int              `bson:"count"`
	Products []models.Product `bson:"products"`
}

// BrandBucket holds the products sharing a brand.
type BrandBucket struct {
	Brand    *string          `bson:"_id"`
	Count    int              `bson:"count"`
	Products []models.Product `bson:"products"`
}

// memberOrder keeps each bucket's products in a stable order.
var memberOrder = bson.D{{Key: "$sort", Value: bson.D{
	{Key: "productName_ci", Value: 1},
	{Key: "_id", Value: 1},
}}}

// nullable turns an absent field into null so absent and null group together.
func nullable(field string) bson.M {
	return bson.M{"$ifNull": bson.A{"$" + field, nil}}
}

// Count returns the number of product documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountByCategory groups products by category, counts only.
func (s *Store) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nullable("productCategory"),
			"count": bson.M{"$sum": 1},
		}}},
	}
	var out []CategoryCount
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("group products by category: %w", err)
	}
	return out, nil
}

// GroupBySubcategory groups products on (category, subcategory) with their
// members. Grouping on the pair keeps every bucket inside one category.
func (s *Store) GroupBySubcategory(ctx context.Context) ([]SubcategoryBucket, error) {
	pipeline := mongo.Pipeline{
		memberOrder,
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"category":    nullable("productCategory"),
				"subcategory": nullable("productSubcategory"),
			},
			"count":    bson.M{"$sum": 1},
			"products": bson.M{"$push": "$$ROOT"},
		}}},
	}
	var out []SubcategoryBucket
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("group products by subcategory: %w", err)
	}
	return out, nil
}

// GroupByBrand groups products by brand with their members.
func (s *Store) GroupByBrand(ctx context.Context) ([]BrandBucket, error) {
	pipeline := mongo.Pipeline{
		memberOrder,
		{{Key: "$group", Value: bson.M{
			"_id":      nullable("productBrandName"),
			"count":    bson.M{"$sum": 1},
			"products": bson.M{"$push": "$$ROOT"},
		}}},
	}
	var out []BrandBucket
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("group products by brand: %w", err)
	}
	return out, nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := s.c.Aggregate(ctx, pipeline, aggregateOptions())
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

// aggregateOptions lets $group spill to disk; pushing whole documents can
// pass the 100 MB per-stage memory limit on a large catalog.
func aggregateOptions() *options.AggregateOptions {
	return options.Aggregate().SetAllowDiskUse(true)
}
