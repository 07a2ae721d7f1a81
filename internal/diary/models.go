package diary

import (
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/exercise"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
)

// State is everything logged on the selected day.
type State struct {
	SelectedDate    time.Time
	Meals           map[storage.MealType][]storage.FoodEntry
	Totals          foods.Totals
	CaloriesGoal    float64
	Water           []storage.WaterEntry
	WaterOz         float64
	WaterGoalCups   float64
	Exercises       []storage.ExerciseEntry
	ExerciseMinutes int
	CaloriesBurned  float64
	Supplements     []storage.SupplementEntry
	IsLoading       bool
	Error           string
}

// WaterCups counts whole cups.
func (s State) WaterCups() int {
	return int(units.OzToCups(s.WaterOz))
}

// DiaryResponse is the response for GET /v1/diary
type DiaryResponse struct {
	Date            string                          `json:"date"`
	Meals           map[string][]foods.FoodEntryDTO `json:"meals"`
	Totals          foods.TotalsDTO                 `json:"totals"`
	CaloriesGoal    float64                         `json:"calories_goal"`
	Water           []intakes.WaterIntakeDTO        `json:"water"`
	WaterOz         float64                         `json:"water_oz"`
	WaterCups       int                             `json:"water_cups"`
	WaterGoalCups   float64                         `json:"water_goal_cups"`
	Exercises       []exercise.ExerciseDTO          `json:"exercises"`
	ExerciseMinutes int                             `json:"exercise_minutes"`
	CaloriesBurned  float64                         `json:"calories_burned"`
	Supplements     []intakes.SupplementDTO         `json:"supplements"`
	Error           string                          `json:"error,omitempty"`
}

func toResponse(s State) DiaryResponse {
	resp := DiaryResponse{
		Date:            codec.FormatDay(s.SelectedDate),
		Meals:           make(map[string][]foods.FoodEntryDTO, len(storage.MealTypes)),
		Totals:          foods.ToTotalsDTO(s.Totals),
		CaloriesGoal:    s.CaloriesGoal,
		Water:           make([]intakes.WaterIntakeDTO, 0, len(s.Water)),
		WaterOz:         units.Round(s.WaterOz, 1),
		WaterCups:       s.WaterCups(),
		WaterGoalCups:   s.WaterGoalCups,
		Exercises:       make([]exercise.ExerciseDTO, 0, len(s.Exercises)),
		ExerciseMinutes: s.ExerciseMinutes,
		CaloriesBurned:  units.Round(s.CaloriesBurned, 1),
		Supplements:     make([]intakes.SupplementDTO, 0, len(s.Supplements)),
		Error:           s.Error,
	}
	for _, m := range storage.MealTypes {
		entries := s.Meals[m]
		dtos := make([]foods.FoodEntryDTO, 0, len(entries))
		for _, e := range entries {
			dtos = append(dtos, foods.ToEntryDTO(e))
		}
		resp.Meals[string(m)] = dtos
	}
	for _, e := range s.Water {
		resp.Water = append(resp.Water, intakes.ToWaterDTO(e))
	}
	for _, e := range s.Exercises {
		resp.Exercises = append(resp.Exercises, exercise.ToDTO(e))
	}
	for _, e := range s.Supplements {
		resp.Supplements = append(resp.Supplements, intakes.ToSupplementDTO(e))
	}
	return resp
}
