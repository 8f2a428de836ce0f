// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents console admins and storefront customers.
//
// NOTE:
//   - PasswordHash is a bcrypt hash and is never serialized to JSON.
//   - Only role "admin" may sign in to the console.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // admin | customer
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Statuses
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)
