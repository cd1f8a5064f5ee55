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

// NutritionRepository defines persistence operations for profiles, meals,
// daily trackers and extractions.
type NutritionRepository interface {
	FindProfile(ctx context.Context, userID string) (*model.NutritionProfile, error)
	InsertProfile(ctx context.Context, profile *model.NutritionProfile) error
	SaveProfile(ctx context.Context, profile *model.NutritionProfile) error

	InsertMeal(ctx context.Context, meal *model.Meal) error
	FindMeal(ctx context.Context, mealID string) (*model.Meal, error)

	FindTrackerByDay(ctx context.Context, userID string, day time.Time) (*model.NutritionTracker, error)
	InsertTracker(ctx context.Context, tracker *model.NutritionTracker) error
	SaveTracker(ctx context.Context, tracker *model.NutritionTracker) error

	InsertExtraction(ctx context.Context, extraction *model.NutritionExtraction) error
	FindExtraction(ctx context.Context, extractionID string) (*model.NutritionExtraction, error)
	SaveExtraction(ctx context.Context, extraction *model.NutritionExtraction) error
}

type nutritionRepository struct {
	profiles    *mongo.Collection
	meals       *mongo.Collection
	trackers    *mongo.Collection
	extractions *mongo.Collection
}

// NewNutritionRepository creates a new nutrition repository.
func NewNutritionRepository(database *mongo.Database) NutritionRepository {
	return &nutritionRepository{
		profiles:    database.Collection(db.ProfilesCollection),
		meals:       database.Collection(db.MealsCollection),
		trackers:    database.Collection(db.TrackersCollection),
		extractions: database.Collection(db.ExtractionsCollection),
	}
}

// FindProfile returns the user's nutrition profile.
func (r *nutritionRepository) FindProfile(ctx context.Context, userID string) (*model.NutritionProfile, error) {
	var profile model.NutritionProfile
	if err := r.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// InsertProfile creates a new profile document.
func (r *nutritionRepository) InsertProfile(ctx context.Context, profile *model.NutritionProfile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	res, err := r.profiles.InsertOne(ctx, profile)
	if err != nil {
		return err
	}
	setObjectID(&profile.ID, res)
	return nil
}

// SaveProfile replaces the stored profile with the in-memory state.
func (r *nutritionRepository) SaveProfile(ctx context.Context, profile *model.NutritionProfile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.profiles.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	return err
}

// InsertMeal creates a new meal document.
func (r *nutritionRepository) InsertMeal(ctx context.Context, meal *model.Meal) error {
	res, err := r.meals.InsertOne(ctx, meal)
	if err != nil {
		return err
	}
	setObjectID(&meal.ID, res)
	return nil
}

// FindMeal finds a meal by its natural identifier.
func (r *nutritionRepository) FindMeal(ctx context.Context, mealID string) (*model.Meal, error) {
	var meal model.Meal
	if err := r.meals.FindOne(ctx, bson.M{"meal_id": mealID}).Decode(&meal); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &meal, nil
}

// FindTrackerByDay returns the user's tracker whose date falls inside the
// calendar day containing the given instant, local midnight to midnight.
func (r *nutritionRepository) FindTrackerByDay(ctx context.Context, userID string, day time.Time) (*model.NutritionTracker, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": start, "$lt": end},
	}

	var tracker model.NutritionTracker
	if err := r.trackers.FindOne(ctx, filter).Decode(&tracker); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &tracker, nil
}

// InsertTracker creates a new daily tracker document.
func (r *nutritionRepository) InsertTracker(ctx context.Context, tracker *model.NutritionTracker) error {
	res, err := r.trackers.InsertOne(ctx, tracker)
	if err != nil {
		return err
	}
	setObjectID(&tracker.ID, res)
	return nil
}

// SaveTracker replaces the stored tracker with the in-memory state.
// Tracker mutation is last-write-wins: there is no optimistic or pessimistic
// concurrency control at this layer.
func (r *nutritionRepository) SaveTracker(ctx context.Context, tracker *model.NutritionTracker) error {
	_, err := r.trackers.ReplaceOne(ctx, bson.M{"_id": tracker.ID}, tracker)
	return err
}

// InsertExtraction creates a new extraction document.
func (r *nutritionRepository) InsertExtraction(ctx context.Context, extraction *model.NutritionExtraction) error {
	res, err := r.extractions.InsertOne(ctx, extraction)
	if err != nil {
		return err
	}
	setObjectID(&extraction.ID, res)
	return nil
}

// FindExtraction finds an extraction by its natural identifier.
func (r *nutritionRepository) FindExtraction(ctx context.Context, extractionID string) (*model.NutritionExtraction, error) {
	var extraction model.NutritionExtraction
	if err := r.extractions.FindOne(ctx, bson.M{"extraction_id": extractionID}).Decode(&extraction); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &extraction, nil
}

// SaveExtraction replaces the stored extraction with the in-memory state.
func (r *nutritionRepository) SaveExtraction(ctx context.Context, extraction *model.NutritionExtraction) error {
	_, err := r.extractions.ReplaceOne(ctx, bson.M{"_id": extraction.ID}, extraction)
	return err
}

func setObjectID(dst *primitive.ObjectID, res *mongo.InsertOneResult) {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		*dst = oid
	}
}
