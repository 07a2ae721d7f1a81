package exercise

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

var ErrInvalidEntry = errors.New("invalid exercise entry")

type Service struct {
	exercises storage.ExerciseStorage
	now       func() time.Time
}

func NewService(exercises storage.ExerciseStorage) *Service {
	return &Service{exercises: exercises, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func checkEntry(e *storage.ExerciseEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if e.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidEntry)
	}
	if e.CaloriesBurned < 0 {
		return fmt.Errorf("%w: calories burned must not be negative", ErrInvalidEntry)
	}
	return nil
}

func (s *Service) AddExercise(ctx context.Context, e *storage.ExerciseEntry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	if e.Category == "" {
		e.Category = "other"
	}
	return s.exercises.InsertExercise(ctx, e)
}

// UpdateExercise returns storage.ErrNotFound for an unknown id.
func (s *Service) UpdateExercise(ctx context.Context, e *storage.ExerciseEntry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	existing, err := s.exercises.GetExercise(ctx, e.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return storage.ErrNotFound
	}
	if e.Date.IsZero() {
		e.Date = existing.Date
	}
	e.CreatedAt = existing.CreatedAt
	return s.exercises.UpdateExercise(ctx, e)
}

func (s *Service) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	return s.exercises.DeleteExercise(ctx, id)
}

func (s *Service) GetExercise(ctx context.Context, id uuid.UUID) (*storage.ExerciseEntry, error) {
	return s.exercises.GetExercise(ctx, id)
}

func (s *Service) ExercisesForDate(ctx context.Context, day time.Time) ([]storage.ExerciseEntry, error) {
	list, err := s.exercises.ListExercisesByDate(ctx, day)
	if err != nil {
		log.Printf("WARN exercise: list date=%s: %v", codec.FormatDay(day), err)
		return []storage.ExerciseEntry{}, err
	}
	return list, nil
}

func (s *Service) ExercisesByCategory(ctx context.Context, category string) ([]storage.ExerciseEntry, error) {
	list, err := s.exercises.ListExercisesByCategory(ctx, category)
	if err != nil {
		log.Printf("WARN exercise: list category=%s: %v", category, err)
		return []storage.ExerciseEntry{}, err
	}
	return list, nil
}

// MinutesForDate returns the day's total duration.
func (s *Service) MinutesForDate(ctx context.Context, day time.Time) (int, error) {
	from, to := codec.DayBounds(day)
	n, err := s.exercises.SumDurationInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN exercise: sum minutes date=%s: %v", codec.FormatDay(day), err)
		return 0, err
	}
	return n, nil
}

func (s *Service) CaloriesBurnedForDate(ctx context.Context, day time.Time) (float64, error) {
	from, to := codec.DayBounds(day)
	v, err := s.exercises.SumCaloriesBurnedInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN exercise: sum calories date=%s: %v", codec.FormatDay(day), err)
		return 0, err
	}
	return v, nil
}

// WeeklyStats returns minutes per day for the seven days starting at start.
// Days without exercise are reported with zero minutes.
func (s *Service) WeeklyStats(ctx context.Context, start time.Time) (WeeklyStats, error) {
	from := codec.StartOfDay(start)
	to := from.AddDate(0, 0, 7)

	stats := WeeklyStats{Start: from, Days: make([]DayMinutes, 7)}
	for i := range stats.Days {
		stats.Days[i].Date = from.AddDate(0, 0, i)
	}

	list, err := s.exercises.ListExercisesInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN exercise: weekly stats start=%s: %v", codec.FormatDay(from), err)
		return stats, err
	}
	for _, e := range list {
		day := codec.StartOfDay(e.Date)
		for i := range stats.Days {
			if stats.Days[i].Date.Equal(day) {
				stats.Days[i].Minutes += e.DurationMinutes
				break
			}
		}
		stats.TotalMinutes += e.DurationMinutes
	}
	return stats, nil
}

// MonthlyStats folds the calendar month containing month. The average is
// zero when there are no workouts.
func (s *Service) MonthlyStats(ctx context.Context, month time.Time) (MonthlyStats, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	to := from.AddDate(0, 1, 0)

	stats := MonthlyStats{Month: from}
	list, err := s.exercises.ListExercisesInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN exercise: monthly stats month=%s: %v", from.Format("2006-01"), err)
		return stats, err
	}
	for _, e := range list {
		stats.TotalMinutes += e.DurationMinutes
		stats.TotalCalories += e.CaloriesBurned
	}
	stats.TotalWorkouts = len(list)
	if stats.TotalWorkouts > 0 {
		stats.AverageMinutesPerWorkout = float64(stats.TotalMinutes) / float64(stats.TotalWorkouts)
	}
	return stats, nil
}
