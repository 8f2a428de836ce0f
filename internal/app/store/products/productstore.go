package productstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/storeadmin/internal/app/system/paging"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no product has the given id.
	ErrNotFound = errors.New("product not found")
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid product")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// SortFields maps public sort names to stored fields.
var SortFields = map[string]string{
	"name":      "productName_ci",
	"price":     "productPrice",
	"stock":     "productStock",
	"category":  "productCategory",
	"brand":     "productBrandName",
	"createdAt": "createdAt",
}

// DefaultSort orders by folded name.
var DefaultSort = paging.Sort{Field: "productName_ci"}

// Validate checks the fields every stored product must carry.
func Validate(p models.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: productName is required", ErrInvalid)
	case strings.TrimSpace(p.Category) == "":
		return fmt.Errorf("%w: productCategory is required", ErrInvalid)
	case strings.TrimSpace(p.Subcategory) == "":
		return fmt.Errorf("%w: productSubcategory is required", ErrInvalid)
	case strings.TrimSpace(p.BrandName) == "":
		return fmt.Errorf("%w: productBrandName is required", ErrInvalid)
	case p.Price < 0:
		return fmt.Errorf("%w: productPrice must not be negative", ErrInvalid)
	case p.Stock < 0:
		return fmt.Errorf("%w: productStock must not be negative", ErrInvalid)
	}
	return nil
}

func normalizeProduct(p *models.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.NameCI = text.Fold(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Subcategory = strings.TrimSpace(p.Subcategory)
	p.BrandName = strings.TrimSpace(p.BrandName)
	p.Description = htmlsanitize.Sanitize(p.Description)
}

// Create validates p, assigns an id and timestamps, and inserts it.
func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	normalizeProduct(&p)
	if err := Validate(p); err != nil {
		return models.Product{}, err
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// GetByID loads one product.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListFilter narrows List. Empty fields do not filter.
type ListFilter struct {
	Category    string
	Subcategory string
	Brand       string
	Query       string // case- and accent-insensitive substring of the name
}

func (f ListFilter) doc() bson.M {
	m := bson.M{}
	if f.Category != "" {
		m["productCategory"] = f.Category
	}
	if f.Subcategory != "" {
		m["productSubcategory"] = f.Subcategory
	}
	if f.Brand != "" {
		m["productBrandName"] = f.Brand
	}
	if q := text.Fold(f.Query); q != "" {
		m["productName_ci"] = primitive.Regex{Pattern: regexp.QuoteMeta(q)}
	}
	return m
}

// List returns one page of products matching f and the total match count.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page, sort paging.Sort) ([]models.Product, int64, error) {
	filter := f.doc()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	find := page.Apply(options.Find().SetSort(sort.Doc()))
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Product, 0, page.Size)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return out, total, nil
}

// Update is a partial update; nil fields are left alone.
type Update struct {
	Name        *string
	Description *string
	Category    *string
	Subcategory *string
	BrandName   *string
	Price       *float64
	Stock       *int
	Images      *[]string
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Category == nil &&
		u.Subcategory == nil && u.BrandName == nil && u.Price == nil &&
		u.Stock == nil && u.Images == nil
}

func (u Update) apply(p *models.Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Subcategory != nil {
		p.Subcategory = *u.Subcategory
	}
	if u.BrandName != nil {
		p.BrandName = *u.BrandName
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Images != nil {
		p.Images = *u.Images
	}
}

// Update applies upd to the product and returns the stored result. The
// merged product must still pass Validate.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Product, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return cur, nil
	}

	next := *cur
	upd.apply(&next)
	normalizeProduct(&next)
	if err := Validate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"productName":        next.Name,
		"productName_ci":     next.NameCI,
		"productDescription": next.Description,
		"productCategory":    next.Category,
		"productSubcategory": next.Subcategory,
		"productBrandName":   next.BrandName,
		"productPrice":       next.Price,
		"productStock":       next.Stock,
		"updatedAt":          next.UpdatedAt,
	}
	if upd.Images != nil {
		set["productImages"] = next.Images
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &next, nil
}

// AddImage appends url to the product's images.
func (s *Store) AddImage(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"productImages": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add product image: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Distinct lists the distinct non-empty values of a grouping field, for
// filter pickers.
func (s *Store) Distinct(ctx context.Context, field string) ([]string, error) {
	switch field {
	case "productCategory", "productSubcategory", "productBrandName":
	default:
		return nil, fmt.Errorf("distinct: field %q not allowed", field)
	}
	vals, err := s.c.Distinct(ctx, field, bson.M{field: bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out, nil
}
