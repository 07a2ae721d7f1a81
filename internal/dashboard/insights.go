package dashboard

import (
	"fmt"
	"time"
)

const (
	HydrationTargetOz  = 64.0
	MiddayMinimumOz    = 24.0
	DefaultCalorieGoal = 2200.0
	MovementTargetMin  = 30
)

// Insights evaluates the dashboard rules against s at time now.
//
//   - water under the water goal (64 oz without one): hydration alert, HIGH
//     below 30% of the goal or below 3 cups from noon on, otherwise MEDIUM
//   - calories over the goal (2200 without one): MEDIUM
//   - under 30 exercise minutes: LOW
//   - protein under half the goal from 18:00 on: LOW
func Insights(s State, now time.Time) []Insight {
	out := []Insight{}

	waterGoal := s.WaterGoalOz
	if waterGoal <= 0 {
		waterGoal = HydrationTargetOz
	}
	if s.WaterOz < waterGoal {
		pct := 0
		if s.WaterOz > 0 {
			pct = int(s.WaterOz / waterGoal * 100)
		}
		priority := PriorityMedium
		if pct < 30 || (now.Hour() >= 12 && s.WaterOz < MiddayMinimumOz) {
			priority = PriorityHigh
		}
		out = append(out, Insight{
			ID:          "hydration",
			Title:       "Hydration Alert",
			Description: fmt.Sprintf("You're %d%% below your daily water goal", 100-pct),
			Type:        InsightHydration,
			Priority:    priority,
		})
	}

	goal := s.CaloriesGoal
	if goal <= 0 {
		goal = DefaultCalorieGoal
	}
	if s.CaloriesConsumed > goal {
		out = append(out, Insight{
			ID:          "calories",
			Title:       "Calorie Alert",
			Description: "You've exceeded your daily calorie goal",
			Type:        InsightNutrition,
			Priority:    PriorityMedium,
		})
	}

	if s.ExerciseMinutes < MovementTargetMin {
		out = append(out, Insight{
			ID:          "movement",
			Title:       "Movement Reminder",
			Description: fmt.Sprintf("Time to get moving! Only %d minutes to reach your goal", MovementTargetMin-s.ExerciseMinutes),
			Type:        InsightExercise,
			Priority:    PriorityLow,
		})
	}

	if now.Hour() >= 18 && s.ProteinGoal > 0 && s.Protein < s.ProteinGoal/2 {
		out = append(out, Insight{
			ID:          "protein",
			Title:       "Protein Check",
			Description: fmt.Sprintf("%.0f g of %.0f g protein so far today", s.Protein, s.ProteinGoal),
			Type:        InsightNutrition,
			Priority:    PriorityLow,
		})
	}

	return out
}
