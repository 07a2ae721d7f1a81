package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/exercise"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/goals"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/profiles"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
	"github.com/fdg312/health-diary/internal/weight"
)

var testNow = time.Date(2024, 3, 15, 13, 0, 0, 0, time.Local)

type fixture struct {
	model    *Model
	foods    *foods.Service
	water    *intakes.Service
	exercise *exercise.Service
	weights  *weight.Service
	goals    *goals.Service
}

func setup() fixture {
	store := memory.New()
	clock := func() time.Time { return testNow }
	f := fixture{
		foods:    foods.NewService(store.Foods(), store.CustomFoods(), nil).WithClock(clock),
		water:    intakes.NewService(store.Water(), store.Supplements()).WithClock(clock),
		exercise: exercise.NewService(store.Exercises()).WithClock(clock),
		weights:  weight.NewService(store.Weights()).WithClock(clock),
		goals:    goals.NewService(store.Goals()).WithClock(clock),
	}
	f.model = NewModel(f.foods, f.water, f.exercise, profiles.NewService(store.Profile()).WithClock(clock)).
		WithWeights(f.weights).
		WithGoals(f.goals).
		WithClock(clock)
	return f
}

func TestRefreshEmptyDay(t *testing.T) {
	f := setup()

	s, err := f.model.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s.CaloriesGoal != DefaultCalorieGoal || s.WaterGoalOz != 64 || s.ProteinGoal != 50 {
		t.Errorf("unexpected goals %+v", s)
	}
	if s.LatestWeightKg != nil || s.ActiveGoals != 0 || s.IsLoading || s.Error != "" {
		t.Errorf("unexpected state %+v", s)
	}
	if h := find(s.Insights, "hydration"); h == nil || h.Priority != PriorityHigh {
		t.Errorf("expected HIGH hydration insight, got %+v", s.Insights)
	}
	if find(s.Insights, "movement") == nil {
		t.Errorf("expected movement insight, got %+v", s.Insights)
	}
	if !s.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)) {
		t.Errorf("expected today, got %v", s.Date)
	}
}

func TestCommandsUpdateState(t *testing.T) {
	ctx := context.Background()
	f := setup()

	f.exercise.AddExercise(ctx, &storage.ExerciseEntry{Name: "Run", DurationMinutes: 40, CaloriesBurned: 350})
	f.weights.AddWeight(ctx, &storage.WeightEntry{Weight: 74.5})
	f.goals.CreateGoal(ctx, &storage.Goal{Type: storage.GoalWater, Title: "Drink", TargetValue: 64})

	states, cancel := f.model.Subscribe()
	defer cancel()
	<-states

	if _, err := f.model.AddWater(ctx, 16, "oz"); err != nil {
		t.Fatalf("add water: %v", err)
	}
	s, err := f.model.AddWater(ctx, 1, "cup")
	if err != nil {
		t.Fatalf("add cup: %v", err)
	}
	if s.WaterOz != 24 || s.WaterCups() != 3 {
		t.Errorf("expected 24 oz / 3 cups, got %v / %d", s.WaterOz, s.WaterCups())
	}

	s, err = f.model.LogQuickFood(ctx, "Bagel", 2300, "")
	if err != nil {
		t.Fatalf("quick food: %v", err)
	}
	if s.CaloriesConsumed != 2300 || find(s.Insights, "calories") == nil {
		t.Errorf("expected calorie alert at 2300 kcal, got %+v", s)
	}
	if find(s.Insights, "movement") != nil {
		t.Errorf("40 exercise minutes must not raise a movement insight")
	}
	if s.ExerciseMinutes != 40 || s.CaloriesBurned != 350 || s.ActiveGoals != 1 {
		t.Errorf("unexpected activity %+v", s)
	}
	if s.LatestWeightKg == nil || *s.LatestWeightKg != 74.5 {
		t.Errorf("expected latest weight 74.5, got %v", s.LatestWeightKg)
	}

	entries, _ := f.foods.FoodsForDate(ctx, testNow)
	if len(entries) != 1 || entries[0].MealType != storage.MealSnack {
		t.Errorf("expected one snack, got %+v", entries)
	}

	latest := <-states
	if latest.CaloriesConsumed != 2300 {
		t.Errorf("subscriber expected newest state, got %+v", latest)
	}
}

func TestCommandErrorRecorded(t *testing.T) {
	f := setup()

	s, err := f.model.AddWater(context.Background(), -1, "oz")
	if !errors.Is(err, intakes.ErrInvalidIntake) {
		t.Fatalf("expected ErrInvalidIntake, got %v", err)
	}
	if !strings.HasPrefix(s.Error, "Failed to add water") || f.model.State().Error != s.Error {
		t.Errorf("expected error in state, got %q", s.Error)
	}

	s, err = f.model.Refresh(context.Background())
	if err != nil || s.Error != "" {
		t.Errorf("expected refresh to clear the error, got %q err=%v", s.Error, err)
	}
}

type brokenWater struct{}

func (brokenWater) WaterOzForDate(context.Context, time.Time) (float64, error) {
	return 0, errors.New("disk unavailable")
}

func (brokenWater) AddWater(context.Context, float64, string) (*storage.WaterEntry, error) {
	return nil, errors.New("disk unavailable")
}

func TestRefreshReadFailure(t *testing.T) {
	f := setup()
	m := NewModel(f.foods, brokenWater{}, f.exercise, profiles.NewService(memory.New().Profile())).
		WithClock(func() time.Time { return testNow })

	f.foods.AddFood(context.Background(), &storage.FoodEntry{Name: "Toast", MealType: storage.MealBreakfast, ServingCount: 1, Calories: 90})

	s, err := m.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if !strings.HasPrefix(s.Error, "Failed to load dashboard") {
		t.Errorf("unexpected error message %q", s.Error)
	}
	if s.CaloriesConsumed != 90 || s.WaterOz != 0 {
		t.Errorf("expected the readable figures to load, got %+v", s)
	}
}
