package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "nutritrack/internal/errors"
)

// Gender is the biometric gender used by the BMR formula.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// ActivityLevel scales BMR into TDEE.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// Multiplier returns the TDEE multiplier for the activity level.
// ok is false for unknown levels.
func (a ActivityLevel) Multiplier() (float64, bool) {
	switch a {
	case ActivitySedentary:
		return 1.2, true
	case ActivityLightlyActive:
		return 1.375, true
	case ActivityModeratelyActive:
		return 1.55, true
	case ActivityVeryActive:
		return 1.725, true
	case ActivityExtremelyActive:
		return 1.9, true
	default:
		return 0, false
	}
}

// NutritionProfile holds a user's biometrics and nutrition goals.
// One profile exists per user, keyed by user_id.
type NutritionProfile struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID              string             `json:"user_id" bson:"user_id"`
	Age                 *int               `json:"age,omitempty" bson:"age,omitempty"`
	Gender              *Gender            `json:"gender,omitempty" bson:"gender,omitempty"`
	WeightKg            *float64           `json:"weight_kg,omitempty" bson:"weight_kg,omitempty"`
	HeightCm            *float64           `json:"height_cm,omitempty" bson:"height_cm,omitempty"`
	ActivityLevel       *ActivityLevel     `json:"activity_level,omitempty" bson:"activity_level,omitempty"`
	DailyCalorieGoal    *int               `json:"daily_calorie_goal,omitempty" bson:"daily_calorie_goal,omitempty"`
	MacronutrientGoals  map[string]float64 `json:"macronutrient_goals,omitempty" bson:"macronutrient_goals,omitempty"`
	DietaryRestrictions []string           `json:"dietary_restrictions,omitempty" bson:"dietary_restrictions,omitempty"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// ValidateMacroGoals checks that macronutrient percentages sum to 100%,
// allowing one point of rounding slack either way. A nil map is valid.
func ValidateMacroGoals(goals map[string]float64) error {
	if goals == nil {
		return nil
	}
	var total float64
	for _, v := range goals {
		total += v
	}
	if total < 99.0 || total > 101.0 {
		return fmt.Errorf("%w: macronutrient percentages must sum to 100%%, got %.1f%%", apperrors.ErrValidation, total)
	}
	return nil
}

// BMR calculates Basal Metabolic Rate using the Mifflin-St Jeor equation.
// ok is false when weight, height, age or gender is missing.
func (p *NutritionProfile) BMR() (float64, bool) {
	if p.WeightKg == nil || p.HeightCm == nil || p.Age == nil || p.Gender == nil {
		return 0, false
	}
	base := 10*(*p.WeightKg) + 6.25*(*p.HeightCm) - 5*float64(*p.Age)
	if *p.Gender == GenderMale {
		return base + 5, true
	}
	// Female formula approximates non-male genders, as in the source data.
	return base - 161, true
}

// TDEE calculates Total Daily Energy Expenditure from BMR and activity level.
// ok is false when BMR is unavailable or the activity level is missing.
func (p *NutritionProfile) TDEE() (float64, bool) {
	bmr, ok := p.BMR()
	if !ok || p.ActivityLevel == nil {
		return 0, false
	}
	mult, ok := p.ActivityLevel.Multiplier()
	if !ok {
		return 0, false
	}
	return bmr * mult, true
}

// ProfileUpdate is a typed partial update for a NutritionProfile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Age                 *int               `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	Gender              *Gender            `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	WeightKg            *float64           `json:"weight_kg,omitempty" validate:"omitempty,gte=0"`
	HeightCm            *float64           `json:"height_cm,omitempty" validate:"omitempty,gte=0"`
	ActivityLevel       *ActivityLevel     `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary lightly_active moderately_active very_active extremely_active"`
	DailyCalorieGoal    *int               `json:"daily_calorie_goal,omitempty" validate:"omitempty,gte=0"`
	MacronutrientGoals  map[string]float64 `json:"macronutrient_goals,omitempty"`
	DietaryRestrictions []string           `json:"dietary_restrictions,omitempty"`
}

// FoodEntry is a single food item inside a meal.
type FoodEntry struct {
	Name     string  `json:"name" bson:"name"`
	Calories float64 `json:"calories" bson:"calories"`
	Protein  float64 `json:"protein" bson:"protein"`
	Carbs    float64 `json:"carbs" bson:"carbs"`
	Fat      float64 `json:"fat" bson:"fat"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	Notes    string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// NutrientTotals is the per-field nutrient aggregate for a meal or a day.
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (t *NutrientTotals) add(other NutrientTotals) {
	t.Calories += other.Calories
	t.Protein += other.Protein
	t.Carbs += other.Carbs
	t.Fat += other.Fat
}

// Meal is an ordered list of food entries logged by a user.
type Meal struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	MealID      string             `json:"meal_id" bson:"meal_id"`
	UserID      string             `json:"user_id" bson:"user_id"`
	MealName    string             `json:"meal_name" bson:"meal_name"`
	FoodEntries []FoodEntry        `json:"food_entries" bson:"food_entries"`
	MealTime    time.Time          `json:"meal_time" bson:"meal_time"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Totals sums entry values scaled by quantity across the meal.
func (m *Meal) Totals() NutrientTotals {
	var totals NutrientTotals
	for _, e := range m.FoodEntries {
		totals.Calories += e.Calories * e.Quantity
		totals.Protein += e.Protein * e.Quantity
		totals.Carbs += e.Carbs * e.Quantity
		totals.Fat += e.Fat * e.Quantity
	}
	return totals
}

// NutritionTracker records one user's food intake for one calendar day.
type NutritionTracker struct {
	ID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"`
	Date          time.Time          `json:"date" bson:"date"`
	Meals         []Meal             `json:"meals" bson:"meals"`
	WaterIntakeML int                `json:"water_intake_ml" bson:"water_intake_ml"`
}

// AddMeal appends a meal to the tracker.
func (t *NutritionTracker) AddMeal(meal Meal) {
	t.Meals = append(t.Meals, meal)
}

// DailyTotals sums the contained meals' totals.
func (t *NutritionTracker) DailyTotals() NutrientTotals {
	var totals NutrientTotals
	for i := range t.Meals {
		totals.add(t.Meals[i].Totals())
	}
	return totals
}

// ExtractionStatus is the lifecycle state of a nutrition extraction.
// Only a pending extraction may transition; confirmed and rejected are final.
type ExtractionStatus string

const (
	ExtractionPending   ExtractionStatus = "pending"
	ExtractionConfirmed ExtractionStatus = "confirmed"
	ExtractionRejected  ExtractionStatus = "rejected"
)

// NutritionExtraction maps a raw user message to a proposed meal awaiting
// confirmation before it becomes part of the permanent record.
type NutritionExtraction struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ExtractionID    string             `json:"extraction_id" bson:"extraction_id"`
	UserID          string             `json:"user_id" bson:"user_id"`
	OriginalMessage string             `json:"original_message" bson:"original_message"`
	MealID          string             `json:"meal_id" bson:"meal_id"`
	ConfidenceScore float64            `json:"confidence_score" bson:"confidence_score"`
	Status          ExtractionStatus   `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}
