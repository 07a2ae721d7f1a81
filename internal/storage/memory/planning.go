package memory

import (
	"context"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// RecipesStorage holds recipes in memory.
type RecipesStorage struct {
	t *table[storage.Recipe]
}

func (s *RecipesStorage) SaveRecipe(ctx context.Context, recipe *storage.Recipe) error {
	for _, l := range [][]string{recipe.Ingredients, recipe.Instructions, recipe.Tags} {
		if err := codec.CheckList(l); err != nil {
			return storage.Wrap("save recipe", err)
		}
	}
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	now := time.Now()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now
	s.t.replace(recipe.ID, *recipe)
	return nil
}

func (s *RecipesStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *RecipesStorage) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	r, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *RecipesStorage) ListRecipes(ctx context.Context) ([]storage.Recipe, error) {
	return s.sorted(nil), nil
}

func (s *RecipesStorage) ListFavoriteRecipes(ctx context.Context) ([]storage.Recipe, error) {
	return s.sorted(func(r storage.Recipe) bool { return r.IsFavorite }), nil
}

func (s *RecipesStorage) ListRecipesByCategory(ctx context.Context, category string) ([]storage.Recipe, error) {
	return s.sorted(func(r storage.Recipe) bool { return strings.EqualFold(r.Category, category) }), nil
}

func (s *RecipesStorage) SearchRecipes(ctx context.Context, query string) ([]storage.Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.sorted(func(r storage.Recipe) bool {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Description), q) {
			return true
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}), nil
}

func (s *RecipesStorage) SetRecipeFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	s.t.modify(id, func(r *storage.Recipe) {
		r.IsFavorite = favorite
		r.UpdatedAt = time.Now()
	})
	return nil
}

func (s *RecipesStorage) sorted(pred func(storage.Recipe) bool) []storage.Recipe {
	list := s.t.filter(pred)
	sortByName(list, func(r storage.Recipe) string { return r.Name })
	return list
}

// MealPlansStorage holds meal plans in memory.
type MealPlansStorage struct {
	t *table[storage.MealPlan]
}

func (s *MealPlansStorage) InsertMealPlan(ctx context.Context, plan *storage.MealPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	return s.t.insert(plan.ID, *plan)
}

func (s *MealPlansStorage) UpdateMealPlan(ctx context.Context, plan *storage.MealPlan) error {
	s.t.update(plan.ID, *plan)
	return nil
}

func (s *MealPlansStorage) DeleteMealPlan(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *MealPlansStorage) ListMealPlansByDate(ctx context.Context, day time.Time) ([]storage.MealPlan, error) {
	from, to := codec.DayBounds(day)
	return s.ListMealPlansInRange(ctx, from, to)
}

func (s *MealPlansStorage) ListMealPlansInRange(ctx context.Context, from, to time.Time) ([]storage.MealPlan, error) {
	list := s.t.filter(func(p storage.MealPlan) bool { return inRange(p.Date, from, to) })
	// filter yields newest inserts first; flip so equal dates keep insertion order
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	oldestFirst(list, func(p storage.MealPlan) time.Time { return p.Date })
	return list, nil
}

func (s *MealPlansStorage) DeleteMealPlansForDate(ctx context.Context, day time.Time) error {
	from, to := codec.DayBounds(day)
	s.t.deleteWhere(func(p storage.MealPlan) bool { return inRange(p.Date, from, to) })
	return nil
}

// GroceryListsStorage holds grocery lists in memory.
type GroceryListsStorage struct {
	t *table[storage.GroceryList]
}

func (s *GroceryListsStorage) InsertGroceryList(ctx context.Context, list *storage.GroceryList) error {
	if err := codec.CheckList(list.Items); err != nil {
		return storage.Wrap("insert grocery list", err)
	}
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	now := time.Now()
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}
	list.UpdatedAt = now
	return s.t.insert(list.ID, *list)
}

func (s *GroceryListsStorage) UpdateGroceryList(ctx context.Context, list *storage.GroceryList) error {
	if err := codec.CheckList(list.Items); err != nil {
		return storage.Wrap("update grocery list", err)
	}
	list.UpdatedAt = time.Now()
	s.t.update(list.ID, *list)
	return nil
}

func (s *GroceryListsStorage) DeleteGroceryList(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *GroceryListsStorage) GetGroceryList(ctx context.Context, id uuid.UUID) (*storage.GroceryList, error) {
	l, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (s *GroceryListsStorage) ListGroceryLists(ctx context.Context, completed bool) ([]storage.GroceryList, error) {
	list := s.t.filter(func(l storage.GroceryList) bool { return l.IsCompleted == completed })
	newestFirst(list, func(l storage.GroceryList) time.Time { return l.CreatedAt })
	return list, nil
}

// GoalsStorage holds goals in memory.
type GoalsStorage struct {
	t *table[storage.Goal]
}

func (s *GoalsStorage) SaveGoal(ctx context.Context, goal *storage.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	s.t.replace(goal.ID, *goal)
	return nil
}

func (s *GoalsStorage) UpdateGoal(ctx context.Context, goal *storage.Goal) error {
	goal.UpdatedAt = time.Now()
	s.t.update(goal.ID, *goal)
	return nil
}

func (s *GoalsStorage) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *GoalsStorage) GetGoal(ctx context.Context, id uuid.UUID) (*storage.Goal, error) {
	g, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *GoalsStorage) ListGoals(ctx context.Context) ([]storage.Goal, error) {
	return s.list(nil), nil
}

func (s *GoalsStorage) ListActiveGoals(ctx context.Context) ([]storage.Goal, error) {
	return s.list(func(g storage.Goal) bool { return g.IsActive && !g.IsCompleted }), nil
}

func (s *GoalsStorage) ListCompletedGoals(ctx context.Context) ([]storage.Goal, error) {
	return s.list(func(g storage.Goal) bool { return g.IsCompleted }), nil
}

func (s *GoalsStorage) ListGoalsByType(ctx context.Context, goalType storage.GoalType) ([]storage.Goal, error) {
	return s.list(func(g storage.Goal) bool { return g.Type == goalType }), nil
}

func (s *GoalsStorage) CountActiveGoals(ctx context.Context) (int, error) {
	return len(s.list(func(g storage.Goal) bool { return g.IsActive && !g.IsCompleted })), nil
}

func (s *GoalsStorage) list(pred func(storage.Goal) bool) []storage.Goal {
	list := s.t.filter(pred)
	newestFirst(list, func(g storage.Goal) time.Time { return g.CreatedAt })
	return list
}
