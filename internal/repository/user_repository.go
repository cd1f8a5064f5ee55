package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nutritrack/internal/db"
	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
)

// UserRepository defines user persistence operations against the document store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a new user repository.
func NewUserRepository(database *mongo.Database) UserRepository {
	return &userRepository{col: database.Collection(db.UsersCollection)}
}

// Create inserts a new user document. A unique-index violation on username
// or email is reported as ErrUserExists so callers can refetch.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrUserExists
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByUsername finds a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByEmail finds a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByVerificationToken finds a user holding the given email verification token.
func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"verification_token": token})
}

// Save replaces the stored document with the in-memory state (last write wins).
func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	return err
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
