package profiles

import "time"

// ProfileDTO is the API view of the user profile.
type ProfileDTO struct {
	Name             string    `json:"name"`
	HeightCm         float64   `json:"height_cm"`
	WeightKg         float64   `json:"weight_kg"`
	GoalWeightKg     float64   `json:"goal_weight_kg"`
	BirthDate        string    `json:"birth_date"`
	Gender           string    `json:"gender"`
	ActivityLevel    string    `json:"activity_level"`
	BMRFormula       string    `json:"bmr_formula"`
	DailyCalorieGoal float64   `json:"daily_calorie_goal"`
	DailyProteinGoal float64   `json:"daily_protein_goal"`
	DailyCarbsGoal   float64   `json:"daily_carbs_goal"`
	DailyFatGoal     float64   `json:"daily_fat_goal"`
	DailyWaterCups   float64   `json:"daily_water_cups"`
	IsDefault        bool      `json:"is_default"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// SaveProfileRequest is the body of PUT /v1/profile.
type SaveProfileRequest struct {
	Name             string  `json:"name" validate:"required,max=100"`
	HeightCm         float64 `json:"height_cm" validate:"gt=0,lte=300"`
	WeightKg         float64 `json:"weight_kg" validate:"gt=0,lte=700"`
	GoalWeightKg     float64 `json:"goal_weight_kg" validate:"gte=0,lte=700"`
	BirthDate        string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender           string  `json:"gender" validate:"required,oneof=male female other"`
	ActivityLevel    string  `json:"activity_level" validate:"required"`
	BMRFormula       string  `json:"bmr_formula,omitempty" validate:"omitempty,oneof=mifflin harris_benedict"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal" validate:"gte=0,lte=10000"`
	DailyProteinGoal float64 `json:"daily_protein_goal" validate:"gte=0,lte=1000"`
	DailyCarbsGoal   float64 `json:"daily_carbs_goal" validate:"gte=0,lte=2000"`
	DailyFatGoal     float64 `json:"daily_fat_goal" validate:"gte=0,lte=1000"`
	DailyWaterCups   float64 `json:"daily_water_cups" validate:"gte=0,lte=50"`
}

// PatchProfileRequest updates single settings; nil fields are left alone.
type PatchProfileRequest struct {
	DailyCalorieGoal *float64 `json:"daily_calorie_goal,omitempty" validate:"omitempty,gte=0,lte=10000"`
	GoalWeightKg     *float64 `json:"goal_weight_kg,omitempty" validate:"omitempty,gte=0,lte=700"`
	ActivityLevel    *string  `json:"activity_level,omitempty"`
	BMRFormula       *string  `json:"bmr_formula,omitempty" validate:"omitempty,oneof=mifflin harris_benedict"`
}

// EnergyResponse is the body of GET /v1/profile/energy.
type EnergyResponse struct {
	Age                int     `json:"age"`
	Formula            string  `json:"formula"`
	BMR                float64 `json:"bmr"`
	ActivityLevel      string  `json:"activity_level"`
	ActivityMultiplier float64 `json:"activity_multiplier"`
	TDEE               float64 `json:"tdee"`
}
