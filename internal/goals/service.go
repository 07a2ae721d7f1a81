package goals

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/google/uuid"
)

var ErrInvalidGoal = errors.New("invalid goal")

// DefaultDeadlineWindow is the look-ahead of UpcomingDeadlines in days.
const DefaultDeadlineWindow = 7

// Stats counts goals by state.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

type Service struct {
	goals storage.GoalStorage
	now   func() time.Time
}

func NewService(goals storage.GoalStorage) *Service {
	return &Service{goals: goals, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Progress is round(current/target × 100) clamped to [0, 100]. A target that
// is not positive yields 0.
func Progress(current, target float64) int {
	if target <= 0 {
		return 0
	}
	p := math.Round(current / target * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

func checkGoal(g *storage.Goal) error {
	if !g.Type.Valid() {
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidGoal, g.Type)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGoal)
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("%w: target value must be positive", ErrInvalidGoal)
	}
	return nil
}

// applyProgress recomputes progress and completion from the values. The
// completion date is set only on the transition to completed and cleared when
// progress drops below 100.
func (s *Service) applyProgress(g *storage.Goal) {
	wasCompleted := g.IsCompleted
	g.Progress = Progress(g.CurrentValue, g.TargetValue)
	g.IsCompleted = g.Progress >= 100
	switch {
	case g.IsCompleted && !wasCompleted:
		today := codec.StartOfDay(s.now())
		g.CompletedDate = &today
	case !g.IsCompleted:
		g.CompletedDate = nil
	}
}

// CreateGoal stores a new active goal.
func (s *Service) CreateGoal(ctx context.Context, g *storage.Goal) error {
	if err := checkGoal(g); err != nil {
		return err
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.StartDate.IsZero() {
		g.StartDate = codec.StartOfDay(s.now())
	}
	if g.Unit == "" {
		g.Unit = PresentationFor(g.Type).DefaultUnit
	}
	g.IsActive = true
	g.IsCompleted = false
	g.CompletedDate = nil
	s.applyProgress(g)
	return s.goals.SaveGoal(ctx, g)
}

// UpdateGoal replaces title, values and dates of an existing goal.
func (s *Service) UpdateGoal(ctx context.Context, g *storage.Goal) error {
	if err := checkGoal(g); err != nil {
		return err
	}
	existing, err := s.goals.GetGoal(ctx, g.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return storage.ErrNotFound
	}
	g.CreatedAt = existing.CreatedAt
	g.IsActive = existing.IsActive
	g.IsCompleted = existing.IsCompleted
	g.CompletedDate = existing.CompletedDate
	if g.StartDate.IsZero() {
		g.StartDate = existing.StartDate
	}
	s.applyProgress(g)
	return s.goals.UpdateGoal(ctx, g)
}

func (s *Service) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return s.goals.DeleteGoal(ctx, id)
}

func (s *Service) GetGoal(ctx context.Context, id uuid.UUID) (*storage.Goal, error) {
	return s.goals.GetGoal(ctx, id)
}

func (s *Service) ListGoals(ctx context.Context) ([]storage.Goal, error) {
	list, err := s.goals.ListGoals(ctx)
	return s.logList("list", list, err)
}

func (s *Service) ActiveGoals(ctx context.Context) ([]storage.Goal, error) {
	list, err := s.goals.ListActiveGoals(ctx)
	return s.logList("list active", list, err)
}

func (s *Service) CompletedGoals(ctx context.Context) ([]storage.Goal, error) {
	list, err := s.goals.ListCompletedGoals(ctx)
	return s.logList("list completed", list, err)
}

func (s *Service) GoalsByType(ctx context.Context, t storage.GoalType) ([]storage.Goal, error) {
	list, err := s.goals.ListGoalsByType(ctx, t)
	return s.logList("list by type", list, err)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	n, err := s.goals.CountActiveGoals(ctx)
	if err != nil {
		log.Printf("WARN goals: count active: %v", err)
		return 0, err
	}
	return n, nil
}

func (s *Service) logList(op string, list []storage.Goal, err error) ([]storage.Goal, error) {
	if err != nil {
		log.Printf("WARN goals: %s: %v", op, err)
		return []storage.Goal{}, err
	}
	return list, nil
}

// UpdateProgress records a new current value. An unknown id is ignored.
func (s *Service) UpdateProgress(ctx context.Context, id uuid.UUID, current float64) error {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}
	g.CurrentValue = current
	s.applyProgress(g)
	return s.goals.UpdateGoal(ctx, g)
}

// MarkComplete completes and deactivates a goal by raising its current value
// to the target. A goal without a positive target is flagged completed with
// zero progress.
func (s *Service) MarkComplete(ctx context.Context, id uuid.UUID) error {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil || g == nil {
		return err
	}
	if g.CurrentValue < g.TargetValue {
		g.CurrentValue = g.TargetValue
	}
	s.applyProgress(g)
	if !g.IsCompleted {
		today := codec.StartOfDay(s.now())
		g.IsCompleted = true
		g.CompletedDate = &today
	}
	g.IsActive = false
	return s.goals.UpdateGoal(ctx, g)
}

// Reactivate resets a goal to zero progress with a new deadline.
func (s *Service) Reactivate(ctx context.Context, id uuid.UUID, deadline *time.Time) error {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil || g == nil {
		return err
	}
	g.IsActive = true
	g.CurrentValue = 0
	g.Deadline = deadline
	s.applyProgress(g)
	return s.goals.UpdateGoal(ctx, g)
}

// Statistics counts all goals. A goal is overdue when it is active and its
// deadline is before today.
func (s *Service) Statistics(ctx context.Context) (Stats, error) {
	list, err := s.ListGoals(ctx)
	if err != nil {
		return Stats{}, err
	}
	today := codec.StartOfDay(s.now())
	st := Stats{Total: len(list)}
	for _, g := range list {
		if g.IsActive && !g.IsCompleted {
			st.Active++
			if g.Deadline != nil && g.Deadline.Before(today) {
				st.Overdue++
			}
		}
		if g.IsCompleted {
			st.Completed++
		}
	}
	return st, nil
}

// UpcomingDeadlines returns active goals due within days, soonest first.
func (s *Service) UpcomingDeadlines(ctx context.Context, days int) ([]storage.Goal, error) {
	if days <= 0 {
		days = DefaultDeadlineWindow
	}
	active, err := s.ActiveGoals(ctx)
	if err != nil {
		return active, err
	}
	today := codec.StartOfDay(s.now())
	limit := today.AddDate(0, 0, days+1)

	out := make([]storage.Goal, 0, len(active))
	for _, g := range active {
		if g.Deadline == nil {
			continue
		}
		if !g.Deadline.Before(today) && g.Deadline.Before(limit) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	return out, nil
}

// CalorieSource, WaterSource and ExerciseSource supply today's totals for
// SyncProgress.
type CalorieSource interface {
	CaloriesForDate(ctx context.Context, day time.Time) (float64, error)
}

type WaterSource interface {
	WaterOzForDate(ctx context.Context, day time.Time) (float64, error)
}

type ExerciseSource interface {
	MinutesForDate(ctx context.Context, day time.Time) (int, error)
}

// Sources is what SyncProgress reads. Nil members are skipped.
type Sources struct {
	Calories CalorieSource
	Water    WaterSource
	Exercise ExerciseSource
}

// SyncProgress refreshes daily goals (calories, water, exercise) from the
// diary totals of day and returns how many goals were updated.
func (s *Service) SyncProgress(ctx context.Context, src Sources, day time.Time) (int, error) {
	active, err := s.ActiveGoals(ctx)
	if err != nil {
		return 0, err
	}

	var (
		updated int
		errs    []error
	)
	for _, g := range active {
		current, ok, err := currentValue(ctx, src, g, day)
		if err != nil {
			errs = append(errs, fmt.Errorf("goal %s: %w", g.ID, err))
			continue
		}
		if !ok || current == g.CurrentValue {
			continue
		}
		if err := s.UpdateProgress(ctx, g.ID, current); err != nil {
			errs = append(errs, fmt.Errorf("goal %s: %w", g.ID, err))
			continue
		}
		updated++
	}
	return updated, errors.Join(errs...)
}

func currentValue(ctx context.Context, src Sources, g storage.Goal, day time.Time) (float64, bool, error) {
	switch g.Type {
	case storage.GoalCalories:
		if src.Calories == nil {
			return 0, false, nil
		}
		v, err := src.Calories.CaloriesForDate(ctx, day)
		return v, err == nil, err
	case storage.GoalWater:
		if src.Water == nil {
			return 0, false, nil
		}
		oz, err := src.Water.WaterOzForDate(ctx, day)
		if err != nil {
			return 0, false, err
		}
		switch strings.ToLower(g.Unit) {
		case "cup", "cups":
			return units.Round(units.OzToCups(oz), 2), true, nil
		case "ml":
			return units.Round(units.OzToMl(oz), 0), true, nil
		}
		return oz, true, nil
	case storage.GoalExercise:
		if src.Exercise == nil {
			return 0, false, nil
		}
		m, err := src.Exercise.MinutesForDate(ctx, day)
		return float64(m), err == nil, err
	}
	return 0, false, nil
}
