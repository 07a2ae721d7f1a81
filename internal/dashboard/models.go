package dashboard

import (
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/units"
)

type InsightType string

const (
	InsightNutrition InsightType = "NUTRITION"
	InsightHydration InsightType = "HYDRATION"
	InsightExercise  InsightType = "EXERCISE"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Insight is a rule-based hint shown on the dashboard. ID is stable per rule.
type Insight struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        InsightType `json:"type"`
	Priority    Priority    `json:"priority"`
}

// State is the dashboard for one day.
type State struct {
	Date             time.Time
	CaloriesConsumed float64
	CaloriesGoal     float64
	CaloriesBurned   float64
	Protein          float64
	Carbs            float64
	Fat              float64
	ProteinGoal      float64
	CarbsGoal        float64
	FatGoal          float64
	WaterOz          float64
	WaterGoalOz      float64
	ExerciseMinutes  int
	LatestWeightKg   *float64
	ActiveGoals      int
	Insights         []Insight
	IsLoading        bool
	Error            string
	UpdatedAt        time.Time
}

// WaterCups counts whole cups.
func (s State) WaterCups() int {
	return int(units.OzToCups(s.WaterOz))
}

// MARK: - HTTP

// DashboardResponse is the response for GET /v1/dashboard
type DashboardResponse struct {
	Date             string    `json:"date"`
	CaloriesConsumed float64   `json:"calories_consumed"`
	CaloriesGoal     float64   `json:"calories_goal"`
	CaloriesBurned   float64   `json:"calories_burned"`
	Macros           Macros    `json:"macros"`
	WaterOz          float64   `json:"water_oz"`
	WaterGoalOz      float64   `json:"water_goal_oz"`
	WaterCups        int       `json:"water_cups"`
	ExerciseMinutes  int       `json:"exercise_minutes"`
	LatestWeightKg   *float64  `json:"latest_weight_kg,omitempty"`
	ActiveGoals      int       `json:"active_goals"`
	Insights         []Insight `json:"insights"`
	IsLoading        bool      `json:"is_loading"`
	Error            string    `json:"error,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Macros struct {
	ProteinG     float64 `json:"protein_g"`
	ProteinGoalG float64 `json:"protein_goal_g"`
	CarbsG       float64 `json:"carbs_g"`
	CarbsGoalG   float64 `json:"carbs_goal_g"`
	FatG         float64 `json:"fat_g"`
	FatGoalG     float64 `json:"fat_goal_g"`
}

// AddWaterRequest is the body of POST /v1/dashboard/water. An empty unit means oz.
type AddWaterRequest struct {
	Amount float64 `json:"amount" validate:"gt=0,lte=5000"`
	Unit   string  `json:"unit" validate:"omitempty,waterunit"`
}

// QuickFoodRequest is the body of POST /v1/dashboard/quick-food.
type QuickFoodRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Calories float64 `json:"calories" validate:"gte=0,lte=10000"`
	MealType string  `json:"meal_type" validate:"omitempty,mealtype"`
}

func toResponse(s State) DashboardResponse {
	insights := s.Insights
	if insights == nil {
		insights = []Insight{}
	}
	return DashboardResponse{
		Date:             codec.FormatDay(s.Date),
		CaloriesConsumed: units.Round(s.CaloriesConsumed, 1),
		CaloriesGoal:     s.CaloriesGoal,
		CaloriesBurned:   units.Round(s.CaloriesBurned, 1),
		Macros: Macros{
			ProteinG:     units.Round(s.Protein, 1),
			ProteinGoalG: s.ProteinGoal,
			CarbsG:       units.Round(s.Carbs, 1),
			CarbsGoalG:   s.CarbsGoal,
			FatG:         units.Round(s.Fat, 1),
			FatGoalG:     s.FatGoal,
		},
		WaterOz:         units.Round(s.WaterOz, 1),
		WaterGoalOz:     s.WaterGoalOz,
		WaterCups:       s.WaterCups(),
		ExerciseMinutes: s.ExerciseMinutes,
		LatestWeightKg:  s.LatestWeightKg,
		ActiveGoals:     s.ActiveGoals,
		Insights:        insights,
		IsLoading:       s.IsLoading,
		Error:           s.Error,
		UpdatedAt:       s.UpdatedAt,
	}
}
