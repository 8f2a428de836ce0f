package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProduct inserts a product in the given category, subcategory and brand.
func (f *Fixtures) CreateProduct(ctx context.Context, name, category, subcategory, brand string) models.Product {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Category:    category,
		Subcategory: subcategory,
		BrandName:   brand,
		Price:       19.99,
		Stock:       10,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("products").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test product: %v", err)
	}
	return p
}

// CreateRawProduct inserts doc as-is, for documents the typed model cannot
// express (missing grouping fields).
func (f *Fixtures) CreateRawProduct(ctx context.Context, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection("products").InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create raw test product: %v", err)
	}
}

// TestPassword is the password given to fixture users.
const TestPassword = "correct-horse-battery"

// CreateUser inserts an active password user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		AuthMethod:   models.AuthMethodPassword,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin inserts an active admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateCustomer inserts an active customer.
func (f *Fixtures) CreateCustomer(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleCustomer)
}

// DisableUser marks a fixture user disabled.
func (f *Fixtures) DisableUser(ctx context.Context, id primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.StatusDisabled}})
	if err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
}
