package diary

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/fdg312/health-diary/internal/viewstate"
	"github.com/google/uuid"
)

type FoodSource interface {
	FoodsForDate(ctx context.Context, day time.Time) ([]storage.FoodEntry, error)
	AddFood(ctx context.Context, e *storage.FoodEntry) error
	DeleteFood(ctx context.Context, id uuid.UUID) error
}

type IntakeSource interface {
	Daily(ctx context.Context, day time.Time) (intakes.Daily, error)
	AddWaterEntry(ctx context.Context, e *storage.WaterEntry) error
	RemoveLastWater(ctx context.Context, day time.Time) (bool, error)
}

type ExerciseSource interface {
	ExercisesForDate(ctx context.Context, day time.Time) ([]storage.ExerciseEntry, error)
	AddExercise(ctx context.Context, e *storage.ExerciseEntry) error
	DeleteExercise(ctx context.Context, id uuid.UUID) error
}

type ProfileSource interface {
	Profile(ctx context.Context) (storage.UserProfile, bool, error)
}

// Model is the diary of one selected day. Entries added without a date land
// on the selected day at the current clock time.
type Model struct {
	foods    FoodSource
	intakes  IntakeSource
	exercise ExerciseSource
	profiles ProfileSource
	now      func() time.Time
	state    *viewstate.Store[State]
}

func NewModel(foods FoodSource, intakes IntakeSource, exercise ExerciseSource, profiles ProfileSource) *Model {
	return &Model{
		foods:    foods,
		intakes:  intakes,
		exercise: exercise,
		profiles: profiles,
		now:      time.Now,
		state:    viewstate.New(State{}),
	}
}

func (m *Model) WithClock(now func() time.Time) *Model {
	m.now = now
	return m
}

func (m *Model) State() State {
	return m.state.Get()
}

func (m *Model) Subscribe() (<-chan State, func()) {
	return m.state.Subscribe()
}

func (m *Model) Close() {
	m.state.Close()
}

// MARK: - Navigation

func (m *Model) SelectDate(ctx context.Context, day time.Time) (State, error) {
	return m.show(ctx, codec.StartOfDay(day))
}

func (m *Model) PreviousDay(ctx context.Context) (State, error) {
	return m.show(ctx, m.selected().AddDate(0, 0, -1))
}

func (m *Model) NextDay(ctx context.Context) (State, error) {
	return m.show(ctx, m.selected().AddDate(0, 0, 1))
}

func (m *Model) Today(ctx context.Context) (State, error) {
	return m.show(ctx, codec.StartOfDay(m.now()))
}

// Reload refreshes the selected day.
func (m *Model) Reload(ctx context.Context) (State, error) {
	return m.show(ctx, m.selected())
}

// MARK: - Commands

func (m *Model) AddFood(ctx context.Context, e *storage.FoodEntry) (State, error) {
	if e.Date.IsZero() {
		e.Date = m.stamp()
	}
	if err := m.foods.AddFood(ctx, e); err != nil {
		return m.fail("Failed to add food", err), err
	}
	return m.reload(ctx), nil
}

func (m *Model) DeleteFood(ctx context.Context, id uuid.UUID) (State, error) {
	if err := m.foods.DeleteFood(ctx, id); err != nil {
		return m.fail("Failed to delete food", err), err
	}
	return m.reload(ctx), nil
}

// AddWaterCup logs one 8 oz cup.
func (m *Model) AddWaterCup(ctx context.Context) (State, error) {
	e := &storage.WaterEntry{Amount: intakes.CupOz, Unit: units.WaterOz, Timestamp: m.stamp()}
	if err := m.intakes.AddWaterEntry(ctx, e); err != nil {
		return m.fail("Failed to add water", err), err
	}
	return m.reload(ctx), nil
}

// RemoveLastWater deletes the newest water entry of the selected day. An
// empty day is left as is.
func (m *Model) RemoveLastWater(ctx context.Context) (State, error) {
	removed, err := m.intakes.RemoveLastWater(ctx, m.selected())
	if err != nil {
		return m.fail("Failed to remove water", err), err
	}
	if !removed {
		return m.State(), nil
	}
	return m.reload(ctx), nil
}

func (m *Model) AddExercise(ctx context.Context, e *storage.ExerciseEntry) (State, error) {
	if e.Date.IsZero() {
		e.Date = m.stamp()
	}
	if err := m.exercise.AddExercise(ctx, e); err != nil {
		return m.fail("Failed to add exercise", err), err
	}
	return m.reload(ctx), nil
}

func (m *Model) DeleteExercise(ctx context.Context, id uuid.UUID) (State, error) {
	if err := m.exercise.DeleteExercise(ctx, id); err != nil {
		return m.fail("Failed to delete exercise", err), err
	}
	return m.reload(ctx), nil
}

// MARK: - Loading

// Load builds the state of day without changing the selection.
func (m *Model) Load(ctx context.Context, day time.Time) (State, error) {
	day = codec.StartOfDay(day)
	s := State{SelectedDate: day}
	var errs []error

	entries, err := m.foods.FoodsForDate(ctx, day)
	errs = append(errs, err)
	s.Meals = foods.GroupByMeal(entries)
	s.Totals = foods.ComputeTotals(entries)

	daily, err := m.intakes.Daily(ctx, day)
	errs = append(errs, err)
	s.Water = daily.Water
	s.WaterOz = daily.WaterOz
	s.Supplements = daily.Supplements

	s.Exercises, err = m.exercise.ExercisesForDate(ctx, day)
	errs = append(errs, err)
	for _, e := range s.Exercises {
		s.ExerciseMinutes += e.DurationMinutes
		s.CaloriesBurned += e.CaloriesBurned
	}

	p, _, err := m.profiles.Profile(ctx)
	errs = append(errs, err)
	s.CaloriesGoal = p.DailyCalorieGoal
	s.WaterGoalCups = p.DailyWaterCups

	if err := errors.Join(errs...); err != nil {
		log.Printf("WARN diary: load date=%s: %v", codec.FormatDay(day), err)
		s.Error = "Failed to load diary: " + err.Error()
		return s, err
	}
	return s, nil
}

func (m *Model) show(ctx context.Context, day time.Time) (State, error) {
	m.state.Update(func(s State) State {
		s.SelectedDate = day
		s.IsLoading = true
		return s
	})
	s, err := m.Load(ctx, day)
	m.state.Set(s)
	return s, err
}

func (m *Model) reload(ctx context.Context) State {
	s, _ := m.show(ctx, m.selected())
	return s
}

// selected defaults to today before the first load.
func (m *Model) selected() time.Time {
	if d := m.state.Get().SelectedDate; !d.IsZero() {
		return d
	}
	return codec.StartOfDay(m.now())
}

// stamp is now when today is selected, otherwise the current clock time on
// the selected day.
func (m *Model) stamp() time.Time {
	now := m.now()
	return codec.OnDay(m.selected(), now)
}

func (m *Model) fail(msg string, err error) State {
	log.Printf("WARN diary: %s: %v", msg, err)
	return m.state.Update(func(s State) State {
		s.IsLoading = false
		s.Error = msg + ": " + err.Error()
		return s
	})
}
