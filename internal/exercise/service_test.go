package exercise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
	"github.com/google/uuid"
)

var testNow = time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)

func setupTestService() *Service {
	return NewService(memory.New().Exercises()).WithClock(func() time.Time { return testNow })
}

func on(day int) time.Time {
	return time.Date(2024, 3, day, 7, 30, 0, 0, time.Local)
}

func TestWeeklyStats(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	for _, e := range []*storage.ExerciseEntry{
		{Name: "Run", Date: on(11), DurationMinutes: 30},
		{Name: "Lift", Date: on(11), DurationMinutes: 45},
		{Name: "Yoga", Date: on(14), DurationMinutes: 20},
		{Name: "Outside", Date: on(18), DurationMinutes: 60},
	} {
		if err := svc.AddExercise(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	stats, err := svc.WeeklyStats(ctx, on(11))
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(stats.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(stats.Days))
	}
	want := []int{75, 0, 0, 20, 0, 0, 0}
	for i, d := range stats.Days {
		if d.Minutes != want[i] {
			t.Errorf("day %d: expected %d minutes, got %d", i, want[i], d.Minutes)
		}
	}
	if stats.TotalMinutes != 95 {
		t.Errorf("expected 95 total minutes, got %d", stats.TotalMinutes)
	}
}

func TestMonthlyStats(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	empty, err := svc.MonthlyStats(ctx, on(1))
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if empty.TotalWorkouts != 0 || empty.AverageMinutesPerWorkout != 0 {
		t.Errorf("expected zero stats for empty month, got %+v", empty)
	}

	for _, e := range []*storage.ExerciseEntry{
		{Name: "Run", Date: on(2), DurationMinutes: 30, CaloriesBurned: 300},
		{Name: "Swim", Date: on(20), DurationMinutes: 60, CaloriesBurned: 500},
		{Name: "April", Date: time.Date(2024, 4, 1, 8, 0, 0, 0, time.Local), DurationMinutes: 90},
	} {
		if err := svc.AddExercise(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	stats, err := svc.MonthlyStats(ctx, on(15))
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if stats.TotalWorkouts != 2 || stats.TotalMinutes != 90 || stats.TotalCalories != 800 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.AverageMinutesPerWorkout != 45 {
		t.Errorf("expected average 45, got %v", stats.AverageMinutesPerWorkout)
	}
}

func TestDayAggregates(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()
	svc.AddExercise(ctx, &storage.ExerciseEntry{Name: "Walk", DurationMinutes: 25, CaloriesBurned: 100})
	svc.AddExercise(ctx, &storage.ExerciseEntry{Name: "Bike", DurationMinutes: 15, CaloriesBurned: 150})

	minutes, _ := svc.MinutesForDate(ctx, testNow)
	if minutes != 40 {
		t.Errorf("expected 40 minutes, got %d", minutes)
	}
	burned, _ := svc.CaloriesBurnedForDate(ctx, testNow)
	if burned != 250 {
		t.Errorf("expected 250 calories, got %v", burned)
	}
}

func TestUpdateMissingExercise(t *testing.T) {
	svc := setupTestService()
	err := svc.UpdateExercise(context.Background(), &storage.ExerciseEntry{ID: uuid.New(), Name: "Ghost"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExerciseHandlers(t *testing.T) {
	handler := NewHandlers(setupTestService())

	body, _ := json.Marshal(CreateExerciseRequest{Name: "Morning Run", Category: "cardio", DurationMinutes: 30, CaloriesBurned: 280})
	req := httptest.NewRequest("POST", "/v1/exercises", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	body, _ = json.Marshal(CreateExerciseRequest{Name: "Bad", Category: "chess"})
	req = httptest.NewRequest("POST", "/v1/exercises", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown category, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/exercises?date=2024-03-15", nil)
	w = httptest.NewRecorder()
	handler.HandleList(w, req)
	var list ExercisesResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Exercises) != 1 || list.TotalMinutes != 30 {
		t.Errorf("unexpected list %+v", list)
	}

	req = httptest.NewRequest("GET", "/v1/exercises/stats/weekly?start=2024-03-09", nil)
	w = httptest.NewRecorder()
	handler.HandleWeeklyStats(w, req)
	var weekly WeeklyStatsDTO
	json.NewDecoder(w.Body).Decode(&weekly)
	if len(weekly.Days) != 7 || weekly.Days[6].Date != "2024-03-15" || weekly.Days[6].Minutes != 30 {
		t.Errorf("unexpected weekly stats %+v", weekly)
	}

	req = httptest.NewRequest("GET", "/v1/exercises/stats/monthly?month=2024-03", nil)
	w = httptest.NewRecorder()
	handler.HandleMonthlyStats(w, req)
	var monthly MonthlyStatsDTO
	json.NewDecoder(w.Body).Decode(&monthly)
	if monthly.TotalWorkouts != 1 || monthly.AverageMinutesPerWorkout != 30 {
		t.Errorf("unexpected monthly stats %+v", monthly)
	}
}
