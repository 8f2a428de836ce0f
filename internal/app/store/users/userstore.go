package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/system/normalize"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"customer"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errBadAuthMethod  = errors.New(`auth_method must be "password"|"google"`)
	errNoEmail        = errors.New("email is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	u.AuthMethod = normalize.AuthMethod(u.AuthMethod)
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	if u.AuthMethod == "" {
		u.AuthMethod = models.AuthMethodPassword
	}

	if u.Email == "" {
		return models.User{}, errNoEmail
	}
	switch u.Role {
	case models.RoleAdmin, models.RoleCustomer:
	default:
		return models.User{}, errBadRole
	}
	switch u.Status {
	case models.StatusActive, models.StatusDisabled:
	default:
		return models.User{}, errBadStatus
	}
	if !models.IsValidAuthMethod(u.AuthMethod) {
		return models.User{}, errBadAuthMethod
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Count returns the number of user documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// SetPassword stores a new bcrypt hash and switches the user to password
// sign-in.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.set(ctx, id, bson.M{
		"password_hash": hash,
		"auth_method":   models.AuthMethodPassword,
	})
}

// Promote makes the user an active admin.
func (s *Store) Promote(ctx context.Context, id primitive.ObjectID) error {
	return s.set(ctx, id, bson.M{
		"role":   models.RoleAdmin,
		"status": models.StatusActive,
	})
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return s.set(ctx, id, bson.M{"last_login_at": at.UTC()})
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
