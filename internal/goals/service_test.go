package goals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
	"github.com/google/uuid"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

func setupTestService() *Service {
	return NewService(memory.New().Goals()).WithClock(func() time.Time { return testNow })
}

func newGoal(t storage.GoalType, target float64) *storage.Goal {
	return &storage.Goal{Type: t, Title: string(t) + " goal", TargetValue: target}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		current, target float64
		want            int
	}{
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{15, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{-4, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Progress(tt.current, tt.target); got != tt.want {
			t.Errorf("Progress(%v, %v) = %d, want %d", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestCreateGoalDefaults(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	g := newGoal(storage.GoalWater, 64)
	if err := svc.CreateGoal(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.ID == uuid.Nil || !g.IsActive || g.IsCompleted {
		t.Errorf("unexpected state %+v", g)
	}
	if g.Unit != "oz" {
		t.Errorf("expected default unit oz, got %q", g.Unit)
	}
	if !g.StartDate.Equal(codec.StartOfDay(testNow)) {
		t.Errorf("expected start date today, got %v", g.StartDate)
	}

	if err := svc.CreateGoal(ctx, newGoal("BOGUS", 1)); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("expected ErrInvalidGoal for unknown type, got %v", err)
	}
	if err := svc.CreateGoal(ctx, newGoal(storage.GoalSteps, 0)); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("expected ErrInvalidGoal for zero target, got %v", err)
	}
}

func TestUpdateProgressCompletes(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	g := newGoal(storage.GoalExercise, 10)
	svc.CreateGoal(ctx, g)

	if err := svc.UpdateProgress(ctx, g.ID, 10); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	got, _ := svc.GetGoal(ctx, g.ID)
	if got.Progress != 100 || !got.IsCompleted {
		t.Fatalf("expected completed at 100, got %+v", got)
	}
	if got.CompletedDate == nil || !got.CompletedDate.Equal(codec.StartOfDay(testNow)) {
		t.Errorf("expected completed date today, got %v", got.CompletedDate)
	}

	if err := svc.UpdateProgress(ctx, g.ID, 4); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	got, _ = svc.GetGoal(ctx, g.ID)
	if got.Progress != 40 || got.IsCompleted || got.CompletedDate != nil {
		t.Errorf("expected progress 40 and not completed, got %+v", got)
	}
}

func TestUpdateProgressMissingGoal(t *testing.T) {
	svc := setupTestService()
	if err := svc.UpdateProgress(context.Background(), uuid.New(), 5); err != nil {
		t.Errorf("expected no error for missing goal, got %v", err)
	}
}

func TestUpdateGoalMissing(t *testing.T) {
	svc := setupTestService()
	g := newGoal(storage.GoalCalories, 2000)
	g.ID = uuid.New()
	if err := svc.UpdateGoal(context.Background(), g); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkCompleteAndReactivate(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	g := newGoal(storage.GoalSteps, 10000)
	g.CurrentValue = 2500
	svc.CreateGoal(ctx, g)

	if err := svc.MarkComplete(ctx, g.ID); err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	got, _ := svc.GetGoal(ctx, g.ID)
	if !got.IsCompleted || got.IsActive || got.Progress != 100 {
		t.Fatalf("expected completed and inactive, got %+v", got)
	}
	if got.Progress != Progress(got.CurrentValue, got.TargetValue) {
		t.Errorf("progress %d does not match %v/%v", got.Progress, got.CurrentValue, got.TargetValue)
	}
	if got.CompletedDate == nil || !got.CompletedDate.Equal(codec.StartOfDay(testNow)) {
		t.Errorf("expected completed date today, got %v", got.CompletedDate)
	}

	deadline := codec.StartOfDay(testNow).AddDate(0, 1, 0)
	if err := svc.Reactivate(ctx, g.ID, &deadline); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	got, _ = svc.GetGoal(ctx, g.ID)
	if got.IsCompleted || !got.IsActive || got.Progress != 0 || got.CurrentValue != 0 {
		t.Errorf("expected reset active goal, got %+v", got)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Errorf("expected new deadline, got %v", got.Deadline)
	}
	if got.Progress != Progress(got.CurrentValue, got.TargetValue) || got.CompletedDate != nil {
		t.Errorf("expected derived progress and no completed date, got %+v", got)
	}
}

func TestMarkCompleteKeepsProgressDerived(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	tests := []struct {
		name    string
		current float64
		target  float64
	}{
		{"partial", 3, 10},
		{"already past target", 12, 10},
		{"zero target", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &storage.Goal{
				ID:           uuid.New(),
				Type:         storage.GoalExercise,
				Title:        tt.name,
				TargetValue:  tt.target,
				CurrentValue: tt.current,
				IsActive:     true,
			}
			if err := svc.goals.SaveGoal(ctx, g); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := svc.MarkComplete(ctx, g.ID); err != nil {
				t.Fatalf("mark complete: %v", err)
			}
			got, _ := svc.GetGoal(ctx, g.ID)
			if !got.IsCompleted || got.IsActive {
				t.Errorf("expected completed and inactive, got %+v", got)
			}
			if got.Progress != Progress(got.CurrentValue, got.TargetValue) {
				t.Errorf("progress %d does not match %v/%v", got.Progress, got.CurrentValue, got.TargetValue)
			}
		})
	}
}

func TestStatisticsAndUpcoming(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()
	today := codec.StartOfDay(testNow)

	day := func(offset int) *time.Time {
		d := today.AddDate(0, 0, offset)
		return &d
	}

	overdue := newGoal(storage.GoalWeightLoss, 5)
	overdue.Deadline = day(-2)
	soon := newGoal(storage.GoalWater, 64)
	soon.Deadline = day(3)
	sooner := newGoal(storage.GoalExercise, 30)
	sooner.Deadline = day(0)
	later := newGoal(storage.GoalCalories, 2000)
	later.Deadline = day(30)
	done := newGoal(storage.GoalNutrition, 100)

	for _, g := range []*storage.Goal{overdue, soon, sooner, later, done} {
		if err := svc.CreateGoal(ctx, g); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	svc.MarkComplete(ctx, done.ID)

	st, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{Total: 5, Active: 4, Completed: 1, Overdue: 1}
	if st != want {
		t.Errorf("expected %+v, got %+v", want, st)
	}

	upcoming, err := svc.UpcomingDeadlines(ctx, 7)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != sooner.ID || upcoming[1].ID != soon.ID {
		t.Errorf("expected [sooner soon], got %+v", upcoming)
	}

	n, _ := svc.CountActive(ctx)
	if n != 4 {
		t.Errorf("expected 4 active goals, got %d", n)
	}
}

type fakeTotals struct {
	calories float64
	waterOz  float64
	minutes  int
}

func (f fakeTotals) CaloriesForDate(context.Context, time.Time) (float64, error) {
	return f.calories, nil
}

func (f fakeTotals) WaterOzForDate(context.Context, time.Time) (float64, error) {
	return f.waterOz, nil
}

func (f fakeTotals) MinutesForDate(context.Context, time.Time) (int, error) {
	return f.minutes, nil
}

func TestSyncProgress(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	calories := newGoal(storage.GoalCalories, 2000)
	water := newGoal(storage.GoalWater, 8)
	water.Unit = "cups"
	exercise := newGoal(storage.GoalExercise, 30)
	steps := newGoal(storage.GoalSteps, 10000)
	for _, g := range []*storage.Goal{calories, water, exercise, steps} {
		svc.CreateGoal(ctx, g)
	}

	src := fakeTotals{calories: 1500, waterOz: 32, minutes: 45}
	n, err := svc.SyncProgress(ctx, Sources{Calories: src, Water: src, Exercise: src}, testNow)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 updated goals, got %d", n)
	}

	got, _ := svc.GetGoal(ctx, calories.ID)
	if got.CurrentValue != 1500 || got.Progress != 75 {
		t.Errorf("calories: got %v / %d", got.CurrentValue, got.Progress)
	}
	got, _ = svc.GetGoal(ctx, water.ID)
	if got.CurrentValue != 4 || got.Progress != 50 {
		t.Errorf("water: got %v / %d", got.CurrentValue, got.Progress)
	}
	got, _ = svc.GetGoal(ctx, exercise.ID)
	if !got.IsCompleted || got.Progress != 100 {
		t.Errorf("exercise: expected completed, got %+v", got)
	}
	got, _ = svc.GetGoal(ctx, steps.ID)
	if got.CurrentValue != 0 {
		t.Errorf("steps should be untouched, got %v", got.CurrentValue)
	}

	n, _ = svc.SyncProgress(ctx, Sources{Calories: src, Water: src, Exercise: src}, testNow)
	if n != 0 {
		t.Errorf("expected no changes on second sync, got %d", n)
	}
}
