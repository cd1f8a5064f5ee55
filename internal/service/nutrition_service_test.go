package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
)

// MockNutritionRepository is a mock implementation of NutritionRepository.
type MockNutritionRepository struct {
	mock.Mock
}

func (m *MockNutritionRepository) FindProfile(ctx context.Context, userID string) (*model.NutritionProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NutritionProfile), args.Error(1)
}

func (m *MockNutritionRepository) InsertProfile(ctx context.Context, profile *model.NutritionProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockNutritionRepository) SaveProfile(ctx context.Context, profile *model.NutritionProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockNutritionRepository) InsertMeal(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockNutritionRepository) FindMeal(ctx context.Context, mealID string) (*model.Meal, error) {
	args := m.Called(ctx, mealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockNutritionRepository) FindTrackerByDay(ctx context.Context, userID string, day time.Time) (*model.NutritionTracker, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NutritionTracker), args.Error(1)
}

func (m *MockNutritionRepository) InsertTracker(ctx context.Context, tracker *model.NutritionTracker) error {
	args := m.Called(ctx, tracker)
	return args.Error(0)
}

func (m *MockNutritionRepository) SaveTracker(ctx context.Context, tracker *model.NutritionTracker) error {
	args := m.Called(ctx, tracker)
	return args.Error(0)
}

func (m *MockNutritionRepository) InsertExtraction(ctx context.Context, extraction *model.NutritionExtraction) error {
	args := m.Called(ctx, extraction)
	return args.Error(0)
}

func (m *MockNutritionRepository) FindExtraction(ctx context.Context, extractionID string) (*model.NutritionExtraction, error) {
	args := m.Called(ctx, extractionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NutritionExtraction), args.Error(1)
}

func (m *MockNutritionRepository) SaveExtraction(ctx context.Context, extraction *model.NutritionExtraction) error {
	args := m.Called(ctx, extraction)
	return args.Error(0)
}

func intp(v int) *int                                      { return &v }
func floatp(v float64) *float64                            { return &v }
func genderp(v model.Gender) *model.Gender                 { return &v }
func activityp(v model.ActivityLevel) *model.ActivityLevel { return &v }

func TestNutritionService_UpsertProfile(t *testing.T) {
	t.Run("creates a profile when none exists", func(t *testing.T) {
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindProfile", mock.Anything, "alice").Return(nil, apperrors.ErrNotFound)
		mockRepo.On("InsertProfile", mock.Anything, mock.MatchedBy(func(p *model.NutritionProfile) bool {
			return p.UserID == "alice" && p.Age != nil && *p.Age == 30
		})).Return(nil)

		service := NewNutritionService(mockRepo, nil)
		profile, err := service.UpsertProfile(context.Background(), "alice", model.ProfileUpdate{Age: intp(30)})

		assert.NoError(t, err)
		assert.Equal(t, "alice", profile.UserID)
		assert.Equal(t, 30, *profile.Age)
		mockRepo.AssertExpectations(t)
	})

	t.Run("merges into an existing profile", func(t *testing.T) {
		existing := &model.NutritionProfile{
			UserID:   "alice",
			Age:      intp(30),
			WeightKg: floatp(70),
		}
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindProfile", mock.Anything, "alice").Return(existing, nil)
		mockRepo.On("SaveProfile", mock.Anything, existing).Return(nil)

		service := NewNutritionService(mockRepo, nil)
		profile, err := service.UpsertProfile(context.Background(), "alice", model.ProfileUpdate{WeightKg: floatp(72.5)})

		assert.NoError(t, err)
		// Untouched fields survive the partial update.
		assert.Equal(t, 30, *profile.Age)
		assert.Equal(t, 72.5, *profile.WeightKg)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects macro goals that do not sum to 100", func(t *testing.T) {
		mockRepo := new(MockNutritionRepository)

		service := NewNutritionService(mockRepo, nil)
		_, err := service.UpsertProfile(context.Background(), "alice", model.ProfileUpdate{
			MacronutrientGoals: map[string]float64{"protein": 50, "carbs": 30},
		})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		mockRepo.AssertNotCalled(t, "FindProfile", mock.Anything, mock.Anything)
	})
}

func TestNutritionService_GetProfile(t *testing.T) {
	mockRepo := new(MockNutritionRepository)
	mockRepo.On("FindProfile", mock.Anything, "alice").
		Return(&model.NutritionProfile{UserID: "alice"}, nil)

	service := NewNutritionService(mockRepo, nil)
	profile, err := service.GetProfile(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, "alice", profile.UserID)
	mockRepo.AssertExpectations(t)
}

func TestNutritionService_ExtractFromMessage(t *testing.T) {
	mockRepo := new(MockNutritionRepository)
	mockRepo.On("InsertMeal", mock.Anything, mock.AnythingOfType("*model.Meal")).Return(nil)
	mockRepo.On("InsertExtraction", mock.Anything, mock.AnythingOfType("*model.NutritionExtraction")).Return(nil)

	service := NewNutritionService(mockRepo, nil)
	extraction, meal, err := service.ExtractFromMessage(context.Background(), "alice", "I ate a sandwich")

	assert.NoError(t, err)
	assert.Equal(t, "alice", extraction.UserID)
	assert.Equal(t, "I ate a sandwich", extraction.OriginalMessage)
	assert.Equal(t, model.ExtractionPending, extraction.Status)
	assert.Equal(t, 0.85, extraction.ConfidenceScore)
	assert.NotEmpty(t, extraction.ExtractionID)
	assert.Equal(t, meal.MealID, extraction.MealID)
	assert.Equal(t, "alice", meal.UserID)
	assert.Len(t, meal.FoodEntries, 1)
	mockRepo.AssertExpectations(t)
}

func TestNutritionService_ConfirmExtraction(t *testing.T) {
	t.Run("pending extraction appends its meal to the day's tracker", func(t *testing.T) {
		meal := &model.Meal{MealID: "meal-1", UserID: "alice"}
		extraction := &model.NutritionExtraction{
			ExtractionID: "ext-1",
			UserID:       "alice",
			MealID:       "meal-1",
			Status:       model.ExtractionPending,
			CreatedAt:    time.Now(),
		}

		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ext-1").Return(extraction, nil)
		mockRepo.On("SaveExtraction", mock.Anything, extraction).Return(nil)
		mockRepo.On("FindMeal", mock.Anything, "meal-1").Return(meal, nil)
		mockRepo.On("FindTrackerByDay", mock.Anything, "alice", extraction.CreatedAt).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("InsertTracker", mock.Anything, mock.AnythingOfType("*model.NutritionTracker")).Return(nil)
		mockRepo.On("SaveTracker", mock.Anything, mock.MatchedBy(func(tr *model.NutritionTracker) bool {
			return tr.UserID == "alice" && len(tr.Meals) == 1 && tr.Meals[0].MealID == "meal-1"
		})).Return(nil)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.ConfirmExtraction(context.Background(), "ext-1")

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, model.ExtractionConfirmed, result.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("confirming twice does not append the meal again", func(t *testing.T) {
		extraction := &model.NutritionExtraction{
			ExtractionID: "ext-1",
			UserID:       "alice",
			MealID:       "meal-1",
			Status:       model.ExtractionConfirmed,
		}

		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ext-1").Return(extraction, nil)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.ConfirmExtraction(context.Background(), "ext-1")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, model.ExtractionConfirmed, result.Status)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "SaveExtraction", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "SaveTracker", mock.Anything, mock.Anything)
	})

	t.Run("rejected extraction cannot be confirmed", func(t *testing.T) {
		extraction := &model.NutritionExtraction{
			ExtractionID: "ext-1",
			Status:       model.ExtractionRejected,
		}

		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ext-1").Return(extraction, nil)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.ConfirmExtraction(context.Background(), "ext-1")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, model.ExtractionRejected, result.Status)
		mockRepo.AssertNotCalled(t, "SaveExtraction", mock.Anything, mock.Anything)
	})

	t.Run("unknown extraction id", func(t *testing.T) {
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.ConfirmExtraction(context.Background(), "ghost")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, result)
	})
}

func TestNutritionService_RejectExtraction(t *testing.T) {
	t.Run("pending extraction is rejected without touching the tracker", func(t *testing.T) {
		extraction := &model.NutritionExtraction{
			ExtractionID: "ext-1",
			UserID:       "alice",
			MealID:       "meal-1",
			Status:       model.ExtractionPending,
		}

		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ext-1").Return(extraction, nil)
		mockRepo.On("SaveExtraction", mock.Anything, extraction).Return(nil)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.RejectExtraction(context.Background(), "ext-1")

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, model.ExtractionRejected, result.Status)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "FindMeal", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "SaveTracker", mock.Anything, mock.Anything)
	})

	t.Run("rejecting twice is a no-op", func(t *testing.T) {
		extraction := &model.NutritionExtraction{
			ExtractionID: "ext-1",
			Status:       model.ExtractionRejected,
		}

		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ext-1").Return(extraction, nil)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.RejectExtraction(context.Background(), "ext-1")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, model.ExtractionRejected, result.Status)
		mockRepo.AssertNotCalled(t, "SaveExtraction", mock.Anything, mock.Anything)
	})

	t.Run("unknown extraction id", func(t *testing.T) {
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindExtraction", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

		service := NewNutritionService(mockRepo, nil)
		ok, result, err := service.RejectExtraction(context.Background(), "ghost")

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, result)
	})
}

func TestNutritionService_GetDailyTracker(t *testing.T) {
	day := time.Date(2025, 6, 15, 10, 30, 0, 0, time.Local)

	t.Run("returns the existing tracker", func(t *testing.T) {
		existing := &model.NutritionTracker{UserID: "alice", Date: day}
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindTrackerByDay", mock.Anything, "alice", day).Return(existing, nil)

		service := NewNutritionService(mockRepo, nil)
		tracker, err := service.GetDailyTracker(context.Background(), "alice", day)

		assert.NoError(t, err)
		assert.Same(t, existing, tracker)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "InsertTracker", mock.Anything, mock.Anything)
	})

	t.Run("creates an empty tracker for a fresh day", func(t *testing.T) {
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindTrackerByDay", mock.Anything, "alice", day).Return(nil, apperrors.ErrNotFound)
		mockRepo.On("InsertTracker", mock.Anything, mock.MatchedBy(func(tr *model.NutritionTracker) bool {
			return tr.UserID == "alice" && len(tr.Meals) == 0 && tr.WaterIntakeML == 0
		})).Return(nil)

		service := NewNutritionService(mockRepo, nil)
		tracker, err := service.GetDailyTracker(context.Background(), "alice", day)

		assert.NoError(t, err)
		assert.Equal(t, "alice", tracker.UserID)
		assert.Empty(t, tracker.Meals)
		mockRepo.AssertExpectations(t)
	})
}

func TestNutritionService_AddWaterIntake(t *testing.T) {
	existing := &model.NutritionTracker{UserID: "alice", WaterIntakeML: 500}
	mockRepo := new(MockNutritionRepository)
	mockRepo.On("FindTrackerByDay", mock.Anything, "alice", mock.AnythingOfType("time.Time")).Return(existing, nil)
	mockRepo.On("SaveTracker", mock.Anything, existing).Return(nil)

	service := NewNutritionService(mockRepo, nil)
	tracker, err := service.AddWaterIntake(context.Background(), "alice", 250)

	assert.NoError(t, err)
	assert.Equal(t, 750, tracker.WaterIntakeML)
	mockRepo.AssertExpectations(t)
}

func TestNutritionService_DailySummary(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	tracker := &model.NutritionTracker{
		UserID:        "alice",
		Date:          day,
		WaterIntakeML: 1500,
		Meals: []model.Meal{
			{FoodEntries: []model.FoodEntry{{Calories: 400, Protein: 20, Carbs: 50, Fat: 10, Quantity: 1}}},
			{FoodEntries: []model.FoodEntry{{Calories: 300, Protein: 25, Carbs: 30, Fat: 8, Quantity: 2}}},
		},
	}

	t.Run("with a complete profile", func(t *testing.T) {
		profile := &model.NutritionProfile{
			UserID:           "alice",
			Age:              intp(30),
			Gender:           genderp(model.GenderMale),
			WeightKg:         floatp(70),
			HeightCm:         floatp(175),
			ActivityLevel:    activityp(model.ActivitySedentary),
			DailyCalorieGoal: intp(2200),
		}
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindTrackerByDay", mock.Anything, "alice", day).Return(tracker, nil)
		mockRepo.On("FindProfile", mock.Anything, "alice").Return(profile, nil)

		service := NewNutritionService(mockRepo, nil)
		summary, err := service.DailySummary(context.Background(), "alice", day)

		assert.NoError(t, err)
		assert.Equal(t, "2025-06-15", summary.Date)
		assert.Equal(t, 2, summary.MealCount)
		assert.Equal(t, 1500, summary.WaterIntakeML)
		assert.InDelta(t, 1000, summary.Totals.Calories, 1e-9) // 400 + 300*2
		assert.InDelta(t, 70, summary.Totals.Protein, 1e-9)
		assert.NotNil(t, summary.BMR)
		assert.InDelta(t, 1648.75, *summary.BMR, 1e-9)
		assert.NotNil(t, summary.TDEE)
		assert.InDelta(t, 1648.75*1.2, *summary.TDEE, 1e-9)
		assert.Equal(t, 2200, *summary.DailyCalorieGoal)
		mockRepo.AssertExpectations(t)
	})

	t.Run("without a profile the estimates stay unset", func(t *testing.T) {
		mockRepo := new(MockNutritionRepository)
		mockRepo.On("FindTrackerByDay", mock.Anything, "alice", day).Return(tracker, nil)
		mockRepo.On("FindProfile", mock.Anything, "alice").Return(nil, apperrors.ErrNotFound)

		service := NewNutritionService(mockRepo, nil)
		summary, err := service.DailySummary(context.Background(), "alice", day)

		assert.NoError(t, err)
		assert.Nil(t, summary.BMR)
		assert.Nil(t, summary.TDEE)
		assert.Nil(t, summary.DailyCalorieGoal)
		mockRepo.AssertExpectations(t)
	})
}
