package mealplans

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

var ErrInvalidPlan = errors.New("invalid meal plan")

// Service handles meal plans and grocery lists.
type Service struct {
	plans   storage.MealPlanStorage
	lists   storage.GroceryListStorage
	recipes storage.RecipeStorage
	now     func() time.Time
}

// NewService creates a new meal plans service.
func NewService(plans storage.MealPlanStorage, lists storage.GroceryListStorage, recipes storage.RecipeStorage) *Service {
	return &Service{plans: plans, lists: lists, recipes: recipes, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// fillFromRecipe validates the plan and, when it points at a recipe, takes the
// name and calories (per serving × servings) from it.
func (s *Service) fillFromRecipe(ctx context.Context, p *storage.MealPlan) error {
	if !p.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidPlan, p.MealType)
	}
	if p.Servings < 0 || p.Calories < 0 {
		return fmt.Errorf("%w: servings and calories must not be negative", ErrInvalidPlan)
	}
	if p.Servings == 0 {
		p.Servings = 1
	}
	if p.RecipeID != nil {
		r, err := s.recipes.GetRecipe(ctx, *p.RecipeID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: recipe %s does not exist", ErrInvalidPlan, *p.RecipeID)
		}
		if strings.TrimSpace(p.Name) == "" {
			p.Name = r.Name
		}
		if p.Calories == 0 {
			p.Calories = r.Calories * p.Servings
		}
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name or recipe is required", ErrInvalidPlan)
	}
	return nil
}

func (s *Service) AddMealPlan(ctx context.Context, p *storage.MealPlan) error {
	if err := s.fillFromRecipe(ctx, p); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Date.IsZero() {
		p.Date = codec.StartOfDay(s.now())
	}
	return s.plans.InsertMealPlan(ctx, p)
}

// UpdateMealPlan replaces a plan; an unknown id is a no-op.
func (s *Service) UpdateMealPlan(ctx context.Context, p *storage.MealPlan) error {
	if err := s.fillFromRecipe(ctx, p); err != nil {
		return err
	}
	return s.plans.UpdateMealPlan(ctx, p)
}

func (s *Service) DeleteMealPlan(ctx context.Context, id uuid.UUID) error {
	return s.plans.DeleteMealPlan(ctx, id)
}

func (s *Service) ClearDate(ctx context.Context, day time.Time) error {
	return s.plans.DeleteMealPlansForDate(ctx, day)
}

func (s *Service) PlansForDate(ctx context.Context, day time.Time) ([]storage.MealPlan, error) {
	list, err := s.plans.ListMealPlansByDate(ctx, day)
	if err != nil {
		log.Printf("WARN mealplans: list date=%s: %v", codec.FormatDay(day), err)
		return []storage.MealPlan{}, err
	}
	return list, nil
}

// PlansInRange returns plans from the start of from through the end of to,
// oldest first.
func (s *Service) PlansInRange(ctx context.Context, from, to time.Time) ([]storage.MealPlan, error) {
	start := codec.StartOfDay(from)
	end := codec.StartOfDay(to).AddDate(0, 0, 1)
	if !end.After(start) {
		return nil, fmt.Errorf("%w: range end is before its start", ErrInvalidPlan)
	}
	list, err := s.plans.ListMealPlansInRange(ctx, start, end)
	if err != nil {
		log.Printf("WARN mealplans: list range from=%s to=%s: %v", codec.FormatDay(from), codec.FormatDay(to), err)
		return []storage.MealPlan{}, err
	}
	return list, nil
}

// PlannedCalories sums the calories planned for day.
func (s *Service) PlannedCalories(ctx context.Context, day time.Time) (float64, error) {
	list, err := s.PlansForDate(ctx, day)
	var total float64
	for _, p := range list {
		total += p.Calories
	}
	return total, err
}

// MARK: - Grocery lists

func checkList(l *storage.GroceryList) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: grocery list name is required", ErrInvalidPlan)
	}
	for _, it := range l.Items {
		if it = strings.TrimSpace(it); it == "" {
			continue
		}
		if err := codec.CheckListItem(it); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
	}
	return nil
}

func (s *Service) CreateGroceryList(ctx context.Context, l *storage.GroceryList) error {
	if err := checkList(l); err != nil {
		return err
	}
	l.Name = strings.TrimSpace(l.Name)
	l.Items = dedupe(l.Items)
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return s.lists.InsertGroceryList(ctx, l)
}

func (s *Service) UpdateGroceryList(ctx context.Context, l *storage.GroceryList) error {
	if err := checkList(l); err != nil {
		return err
	}
	existing, err := s.lists.GetGroceryList(ctx, l.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return storage.ErrNotFound
	}
	l.Name = strings.TrimSpace(l.Name)
	l.Items = dedupe(l.Items)
	l.CreatedAt = existing.CreatedAt
	return s.lists.UpdateGroceryList(ctx, l)
}

func (s *Service) DeleteGroceryList(ctx context.Context, id uuid.UUID) error {
	return s.lists.DeleteGroceryList(ctx, id)
}

func (s *Service) GetGroceryList(ctx context.Context, id uuid.UUID) (*storage.GroceryList, error) {
	return s.lists.GetGroceryList(ctx, id)
}

func (s *Service) ActiveGroceryLists(ctx context.Context) ([]storage.GroceryList, error) {
	return s.groceryLists(ctx, false)
}

func (s *Service) CompletedGroceryLists(ctx context.Context) ([]storage.GroceryList, error) {
	return s.groceryLists(ctx, true)
}

func (s *Service) groceryLists(ctx context.Context, completed bool) ([]storage.GroceryList, error) {
	list, err := s.lists.ListGroceryLists(ctx, completed)
	if err != nil {
		log.Printf("WARN mealplans: list grocery lists completed=%t: %v", completed, err)
		return []storage.GroceryList{}, err
	}
	return list, nil
}

// ToggleGroceryList flips completion and returns the updated list.
func (s *Service) ToggleGroceryList(ctx context.Context, id uuid.UUID) (*storage.GroceryList, error) {
	l, err := s.lists.GetGroceryList(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, storage.ErrNotFound
	}
	l.IsCompleted = !l.IsCompleted
	if err := s.lists.UpdateGroceryList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GenerateGroceryList builds a list from the ingredients of every recipe
// planned between from and to. Ingredients keep first-seen order and are
// de-duplicated case-insensitively.
func (s *Service) GenerateGroceryList(ctx context.Context, name string, from, to time.Time) (*storage.GroceryList, error) {
	plans, err := s.PlansInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var (
		items   []string
		visited = make(map[uuid.UUID]bool)
	)
	for _, p := range plans {
		if p.RecipeID == nil || visited[*p.RecipeID] {
			continue
		}
		visited[*p.RecipeID] = true
		r, err := s.recipes.GetRecipe(ctx, *p.RecipeID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		items = append(items, r.Ingredients...)
	}
	items = dedupe(items)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no planned recipes with ingredients between %s and %s",
			ErrInvalidPlan, codec.FormatDay(from), codec.FormatDay(to))
	}

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Groceries %s to %s", codec.FormatDay(from), codec.FormatDay(to))
	}
	l := &storage.GroceryList{Name: name, Items: items}
	if err := s.CreateGroceryList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		key := strings.ToLower(it)
		if it == "" || seen[key] || codec.CheckListItem(it) != nil {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}
