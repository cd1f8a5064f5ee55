package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "nutritrack/internal/errors"
)

// User represents an authenticated user in the system.
type User struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username          string             `json:"username" bson:"username"`
	Email             string             `json:"email" bson:"email"`
	HashedPassword    string             `json:"-" bson:"hashed_password"` // Never expose in JSON
	FirstName         string             `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName          string             `json:"last_name,omitempty" bson:"last_name,omitempty"`
	IsActive          bool               `json:"is_active" bson:"is_active"`
	IsVerified        bool               `json:"is_verified" bson:"is_verified"`
	VerificationToken string             `json:"-" bson:"verification_token,omitempty"`
	Roles             []string           `json:"roles" bson:"roles"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// ValidateUsername enforces the username format at construction time:
// at least 3 characters, letters/digits/underscores/hyphens only.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters long", apperrors.ErrValidation)
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return fmt.Errorf("%w: username must contain only alphanumeric characters, underscores, or hyphens", apperrors.ErrValidation)
		}
	}
	return nil
}

// UserUpdate is a typed partial update applied field-by-field to a User.
// Nil fields are left untouched.
type UserUpdate struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}
