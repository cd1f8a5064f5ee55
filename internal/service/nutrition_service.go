package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutritrack/internal/cache"
	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
	"nutritrack/internal/repository"
)

const (
	profileCacheTTL = 5 * time.Minute
	summaryCacheTTL = time.Minute
)

// DailySummary combines a day's aggregate intake with the profile's
// calorie-need estimates and goals.
type DailySummary struct {
	Date             string               `json:"date"`
	Totals           model.NutrientTotals `json:"totals"`
	MealCount        int                  `json:"meal_count"`
	WaterIntakeML    int                  `json:"water_intake_ml"`
	BMR              *float64             `json:"bmr,omitempty"`
	TDEE             *float64             `json:"tdee,omitempty"`
	DailyCalorieGoal *int                 `json:"daily_calorie_goal,omitempty"`
	MacroGoals       map[string]float64   `json:"macronutrient_goals,omitempty"`
}

// NutritionService handles profiles, extraction workflow and daily tracking.
type NutritionService interface {
	UpsertProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.NutritionProfile, error)
	GetProfile(ctx context.Context, userID string) (*model.NutritionProfile, error)

	ExtractFromMessage(ctx context.Context, userID, message string) (*model.NutritionExtraction, *model.Meal, error)
	ConfirmExtraction(ctx context.Context, extractionID string) (bool, *model.NutritionExtraction, error)
	RejectExtraction(ctx context.Context, extractionID string) (bool, *model.NutritionExtraction, error)

	GetDailyTracker(ctx context.Context, userID string, day time.Time) (*model.NutritionTracker, error)
	AddWaterIntake(ctx context.Context, userID string, ml int) (*model.NutritionTracker, error)
	DailySummary(ctx context.Context, userID string, day time.Time) (*DailySummary, error)
}

type nutritionService struct {
	repo  repository.NutritionRepository
	cache *cache.Client
}

// NewNutritionService builds a NutritionService with repository and cache.
func NewNutritionService(repo repository.NutritionRepository, cache *cache.Client) NutritionService {
	return &nutritionService{repo: repo, cache: cache}
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}

func summaryCacheKey(userID string, day time.Time) string {
	return fmt.Sprintf("summary:%s:%s", userID, day.Format("2006-01-02"))
}

// UpsertProfile creates or updates the user's nutrition profile with an
// explicit field-by-field merge. Macro goals are validated before apply.
func (s *nutritionService) UpsertProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.NutritionProfile, error) {
	if err := model.ValidateMacroGoals(upd.MacronutrientGoals); err != nil {
		return nil, err
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	switch {
	case err == nil:
		applyProfileUpdate(profile, upd)
		if err := s.repo.SaveProfile(ctx, profile); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		profile = &model.NutritionProfile{UserID: userID}
		applyProfileUpdate(profile, upd)
		if err := s.repo.InsertProfile(ctx, profile); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.cache.Delete(ctx, profileCacheKey(userID))
	// Only today's summary key is dropped here; a summary cached for
	// another day keeps the old BMR/TDEE until summaryCacheTTL expires.
	s.cache.Delete(ctx, summaryCacheKey(userID, time.Now()))
	return profile, nil
}

func applyProfileUpdate(profile *model.NutritionProfile, upd model.ProfileUpdate) {
	if upd.Age != nil {
		profile.Age = upd.Age
	}
	if upd.Gender != nil {
		profile.Gender = upd.Gender
	}
	if upd.WeightKg != nil {
		profile.WeightKg = upd.WeightKg
	}
	if upd.HeightCm != nil {
		profile.HeightCm = upd.HeightCm
	}
	if upd.ActivityLevel != nil {
		profile.ActivityLevel = upd.ActivityLevel
	}
	if upd.DailyCalorieGoal != nil {
		profile.DailyCalorieGoal = upd.DailyCalorieGoal
	}
	if upd.MacronutrientGoals != nil {
		profile.MacronutrientGoals = upd.MacronutrientGoals
	}
	if upd.DietaryRestrictions != nil {
		profile.DietaryRestrictions = upd.DietaryRestrictions
	}
}

// GetProfile returns the user's nutrition profile, reading through the cache.
func (s *nutritionService) GetProfile(ctx context.Context, userID string) (*model.NutritionProfile, error) {
	var cached model.NutritionProfile
	if s.cache.GetJSON(ctx, profileCacheKey(userID), &cached) {
		return &cached, nil
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, profileCacheKey(userID), profile, profileCacheTTL)
	return profile, nil
}

// ExtractFromMessage records a pending nutrition extraction for the message.
// The produced meal is a fixed placeholder until the real extraction model
// replaces it.
func (s *nutritionService) ExtractFromMessage(ctx context.Context, userID, message string) (*model.NutritionExtraction, *model.Meal, error) {
	meal := &model.Meal{
		MealID:   uuid.New().String(),
		UserID:   userID,
		MealName: "Sample Meal",
		FoodEntries: []model.FoodEntry{
			{
				Name:     "Sample Food",
				Calories: 100,
				Protein:  10,
				Carbs:    20,
				Fat:      5,
				Quantity: 1.0,
				Notes:    "Sample food entry",
			},
		},
		MealTime: time.Now(),
	}
	if err := s.repo.InsertMeal(ctx, meal); err != nil {
		return nil, nil, fmt.Errorf("insert meal: %w", err)
	}

	extraction := &model.NutritionExtraction{
		ExtractionID:    uuid.New().String(),
		UserID:          userID,
		OriginalMessage: message,
		MealID:          meal.MealID,
		ConfidenceScore: 0.85,
		Status:          model.ExtractionPending,
		CreatedAt:       time.Now(),
	}
	if err := s.repo.InsertExtraction(ctx, extraction); err != nil {
		return nil, nil, fmt.Errorf("insert extraction: %w", err)
	}

	return extraction, meal, nil
}

// ConfirmExtraction marks a pending extraction confirmed and appends its meal
// to the day's tracker, creating the tracker if the day has none. The day is
// the extraction's creation date, local midnight to midnight.
//
// An unknown id returns (false, nil); an extraction that is no longer pending
// returns (false, record) without touching the tracker, so re-confirming
// cannot append the meal twice.
func (s *nutritionService) ConfirmExtraction(ctx context.Context, extractionID string) (bool, *model.NutritionExtraction, error) {
	extraction, err := s.repo.FindExtraction(ctx, extractionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}

	if extraction.Status != model.ExtractionPending {
		return false, extraction, nil
	}

	extraction.Status = model.ExtractionConfirmed
	if err := s.repo.SaveExtraction(ctx, extraction); err != nil {
		return false, nil, err
	}

	if extraction.MealID != "" {
		meal, err := s.repo.FindMeal(ctx, extraction.MealID)
		if err != nil {
			return false, nil, fmt.Errorf("fetch extracted meal: %w", err)
		}

		tracker, err := s.findOrCreateTracker(ctx, extraction.UserID, extraction.CreatedAt)
		if err != nil {
			return false, nil, err
		}

		tracker.AddMeal(*meal)
		if err := s.repo.SaveTracker(ctx, tracker); err != nil {
			return false, nil, err
		}

		s.cache.Delete(ctx, summaryCacheKey(extraction.UserID, extraction.CreatedAt))
	}

	return true, extraction, nil
}

// RejectExtraction marks a pending extraction rejected. Only the status
// changes; the tracker is never touched. Rejecting a non-pending extraction
// is a safe no-op returning the unchanged record.
func (s *nutritionService) RejectExtraction(ctx context.Context, extractionID string) (bool, *model.NutritionExtraction, error) {
	extraction, err := s.repo.FindExtraction(ctx, extractionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}

	if extraction.Status != model.ExtractionPending {
		return false, extraction, nil
	}

	extraction.Status = model.ExtractionRejected
	if err := s.repo.SaveExtraction(ctx, extraction); err != nil {
		return false, nil, err
	}
	return true, extraction, nil
}

// GetDailyTracker returns the user's tracker for the calendar day containing
// the given instant, creating an empty one if none exists.
func (s *nutritionService) GetDailyTracker(ctx context.Context, userID string, day time.Time) (*model.NutritionTracker, error) {
	return s.findOrCreateTracker(ctx, userID, day)
}

// AddWaterIntake adds to today's water counter.
func (s *nutritionService) AddWaterIntake(ctx context.Context, userID string, ml int) (*model.NutritionTracker, error) {
	tracker, err := s.findOrCreateTracker(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	tracker.WaterIntakeML += ml
	if err := s.repo.SaveTracker(ctx, tracker); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, summaryCacheKey(userID, time.Now()))
	return tracker, nil
}

// DailySummary aggregates the day's tracker with the profile's BMR/TDEE and
// goals, reading through the cache. A missing profile leaves the estimate
// fields unset.
func (s *nutritionService) DailySummary(ctx context.Context, userID string, day time.Time) (*DailySummary, error) {
	key := summaryCacheKey(userID, day)
	var cached DailySummary
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	tracker, err := s.findOrCreateTracker(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:          day.Format("2006-01-02"),
		Totals:        tracker.DailyTotals(),
		MealCount:     len(tracker.Meals),
		WaterIntakeML: tracker.WaterIntakeML,
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err == nil {
		if bmr, ok := profile.BMR(); ok {
			summary.BMR = &bmr
		}
		if tdee, ok := profile.TDEE(); ok {
			summary.TDEE = &tdee
		}
		summary.DailyCalorieGoal = profile.DailyCalorieGoal
		summary.MacroGoals = profile.MacronutrientGoals
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, summary, summaryCacheTTL)
	return summary, nil
}

func (s *nutritionService) findOrCreateTracker(ctx context.Context, userID string, day time.Time) (*model.NutritionTracker, error) {
	tracker, err := s.repo.FindTrackerByDay(ctx, userID, day)
	if err == nil {
		return tracker, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	tracker = &model.NutritionTracker{
		UserID: userID,
		Date:   day,
		Meals:  []model.Meal{},
	}
	if err := s.repo.InsertTracker(ctx, tracker); err != nil {
		return nil, err
	}
	return tracker, nil
}
