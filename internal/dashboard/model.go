package dashboard

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/fdg312/health-diary/internal/viewstate"
)

// FoodSource is the part of the food diary the dashboard reads and writes.
type FoodSource interface {
	TotalsForDate(ctx context.Context, day time.Time) (foods.Totals, error)
	AddFood(ctx context.Context, e *storage.FoodEntry) error
}

type WaterSource interface {
	WaterOzForDate(ctx context.Context, day time.Time) (float64, error)
	AddWater(ctx context.Context, amount float64, unit string) (*storage.WaterEntry, error)
}

type ExerciseSource interface {
	MinutesForDate(ctx context.Context, day time.Time) (int, error)
	CaloriesBurnedForDate(ctx context.Context, day time.Time) (float64, error)
}

type ProfileSource interface {
	Profile(ctx context.Context) (storage.UserProfile, bool, error)
}

type WeightSource interface {
	Latest(ctx context.Context) (*storage.WeightEntry, error)
}

type GoalSource interface {
	CountActive(ctx context.Context) (int, error)
}

// Model is the today view. Commands write through the sources and then
// reload. A failed write is returned and recorded in State.Error; a failed
// reload is only recorded.
type Model struct {
	foods    FoodSource
	water    WaterSource
	exercise ExerciseSource
	profiles ProfileSource
	weights  WeightSource
	goals    GoalSource
	now      func() time.Time
	state    *viewstate.Store[State]
}

func NewModel(foods FoodSource, water WaterSource, exercise ExerciseSource, profiles ProfileSource) *Model {
	return &Model{
		foods:    foods,
		water:    water,
		exercise: exercise,
		profiles: profiles,
		now:      time.Now,
		state:    viewstate.New(State{CaloriesGoal: DefaultCalorieGoal, WaterGoalOz: HydrationTargetOz}),
	}
}

// WithWeights adds the latest weight to the dashboard.
func (m *Model) WithWeights(weights WeightSource) *Model {
	m.weights = weights
	return m
}

// WithGoals adds the active goal count to the dashboard.
func (m *Model) WithGoals(goals GoalSource) *Model {
	m.goals = goals
	return m
}

func (m *Model) WithClock(now func() time.Time) *Model {
	m.now = now
	return m
}

// State returns the current snapshot.
func (m *Model) State() State {
	return m.state.Get()
}

// Subscribe streams every new state, starting with the current one.
func (m *Model) Subscribe() (<-chan State, func()) {
	return m.state.Subscribe()
}

// Close ends all subscriptions.
func (m *Model) Close() {
	m.state.Close()
}

// Refresh reloads today's figures and insights.
func (m *Model) Refresh(ctx context.Context) (State, error) {
	m.state.Update(func(s State) State {
		s.IsLoading = true
		return s
	})

	now := m.now()
	next, err := m.load(ctx, now)
	if err != nil {
		log.Printf("WARN dashboard: refresh date=%s: %v", codec.FormatDay(now), err)
		next.Error = "Failed to load dashboard: " + err.Error()
	}
	m.state.Set(next)
	return next, err
}

func (m *Model) load(ctx context.Context, now time.Time) (State, error) {
	day := codec.StartOfDay(now)
	s := State{Date: day, UpdatedAt: now}
	var errs []error

	p, isDefault, err := m.profiles.Profile(ctx)
	errs = append(errs, err)
	s.CaloriesGoal = p.DailyCalorieGoal
	if isDefault || s.CaloriesGoal <= 0 {
		s.CaloriesGoal = DefaultCalorieGoal
	}
	s.ProteinGoal = p.DailyProteinGoal
	s.CarbsGoal = p.DailyCarbsGoal
	s.FatGoal = p.DailyFatGoal
	s.WaterGoalOz = units.CupsToOz(p.DailyWaterCups)
	if s.WaterGoalOz <= 0 {
		s.WaterGoalOz = HydrationTargetOz
	}

	totals, err := m.foods.TotalsForDate(ctx, day)
	errs = append(errs, err)
	s.CaloriesConsumed = totals.Calories
	s.Protein = totals.Protein
	s.Carbs = totals.Carbs
	s.Fat = totals.Fat

	s.WaterOz, err = m.water.WaterOzForDate(ctx, day)
	errs = append(errs, err)

	s.ExerciseMinutes, err = m.exercise.MinutesForDate(ctx, day)
	errs = append(errs, err)
	s.CaloriesBurned, err = m.exercise.CaloriesBurnedForDate(ctx, day)
	errs = append(errs, err)

	if m.weights != nil {
		latest, err := m.weights.Latest(ctx)
		errs = append(errs, err)
		if latest != nil {
			kg := latest.Weight
			s.LatestWeightKg = &kg
		}
	}

	if m.goals != nil {
		s.ActiveGoals, err = m.goals.CountActive(ctx)
		errs = append(errs, err)
	}

	s.Insights = Insights(s, now)
	return s, errors.Join(errs...)
}

// AddWater logs water at the current time.
func (m *Model) AddWater(ctx context.Context, amount float64, unit string) (State, error) {
	if _, err := m.water.AddWater(ctx, amount, unit); err != nil {
		return m.fail("Failed to add water", err), err
	}
	st, _ := m.Refresh(ctx)
	return st, nil
}

// LogQuickFood logs a single serving of name with only its calories known.
// An empty meal type logs a snack.
func (m *Model) LogQuickFood(ctx context.Context, name string, calories float64, meal storage.MealType) (State, error) {
	if meal == "" {
		meal = storage.MealSnack
	}
	e := &storage.FoodEntry{
		Name:         name,
		MealType:     meal,
		ServingSize:  1,
		ServingUnit:  "serving",
		ServingCount: 1,
		Calories:     calories,
		Date:         m.now(),
	}
	if err := m.foods.AddFood(ctx, e); err != nil {
		return m.fail("Failed to log food", err), err
	}
	st, _ := m.Refresh(ctx)
	return st, nil
}

func (m *Model) fail(msg string, err error) State {
	log.Printf("WARN dashboard: %s: %v", msg, err)
	return m.state.Update(func(s State) State {
		s.IsLoading = false
		s.Error = msg + ": " + err.Error()
		return s
	})
}
