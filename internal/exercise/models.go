package exercise

import (
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// DayMinutes is one bar of the weekly chart.
type DayMinutes struct {
	Date    time.Time
	Minutes int
}

// WeeklyStats covers seven consecutive days starting at Start.
type WeeklyStats struct {
	Start        time.Time
	Days         []DayMinutes
	TotalMinutes int
}

// MonthlyStats covers the calendar month containing Month.
type MonthlyStats struct {
	Month                    time.Time
	TotalMinutes             int
	TotalCalories            float64
	TotalWorkouts            int
	AverageMinutesPerWorkout float64
}

type CreateExerciseRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Category        string  `json:"category" validate:"omitempty,oneof=cardio strength flexibility sports other"`
	Type            string  `json:"type,omitempty"`
	Date            string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DurationMinutes int     `json:"duration_minutes" validate:"gte=0,lte=1440"`
	CaloriesBurned  float64 `json:"calories_burned" validate:"gte=0"`
	Intensity       string  `json:"intensity,omitempty" validate:"omitempty,oneof=low moderate high"`
	Notes           string  `json:"notes,omitempty" validate:"max=1000"`
}

type ExerciseDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Type            string    `json:"type,omitempty"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	CaloriesBurned  float64   `json:"calories_burned"`
	Intensity       string    `json:"intensity,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

type ExercisesResponse struct {
	Exercises     []ExerciseDTO `json:"exercises"`
	TotalMinutes  int           `json:"total_minutes"`
	TotalCalories float64       `json:"total_calories"`
}

type DayMinutesDTO struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type WeeklyStatsDTO struct {
	Start        string          `json:"start"`
	Days         []DayMinutesDTO `json:"days"`
	TotalMinutes int             `json:"total_minutes"`
}

type MonthlyStatsDTO struct {
	Month                    string  `json:"month"`
	TotalMinutes             int     `json:"total_minutes"`
	TotalCalories            float64 `json:"total_calories"`
	TotalWorkouts            int     `json:"total_workouts"`
	AverageMinutesPerWorkout float64 `json:"average_minutes_per_workout"`
}

func ToDTO(e storage.ExerciseEntry) ExerciseDTO {
	return ExerciseDTO{
		ID:              e.ID,
		Name:            e.Name,
		Category:        e.Category,
		Type:            e.Type,
		Date:            e.Date,
		DurationMinutes: e.DurationMinutes,
		CaloriesBurned:  e.CaloriesBurned,
		Intensity:       e.Intensity,
		Notes:           e.Notes,
	}
}
