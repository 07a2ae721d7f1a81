package memory

import (
	"context"
	"sync"

	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
)

// MemoryStorage is the in-memory implementation of storage.Store.
type MemoryStorage struct {
	foods        *FoodsStorage
	exercises    *ExercisesStorage
	water        *WaterStorage
	supplements  *SupplementsStorage
	weights      *WeightsStorage
	customFoods  *CustomFoodsStorage
	recipes      *RecipesStorage
	mealPlans    *MealPlansStorage
	groceryLists *GroceryListsStorage
	goals        *GoalsStorage
	profile      *ProfileStorage
	meta         *MetaStorage
	exports      *ExportsStorage
}

// New creates an empty MemoryStorage.
func New() *MemoryStorage {
	return &MemoryStorage{
		foods:        &FoodsStorage{t: newTable(cloneFood)},
		exercises:    &ExercisesStorage{t: newTable[storage.ExerciseEntry](nil)},
		water:        &WaterStorage{t: newTable[storage.WaterEntry](nil)},
		supplements:  &SupplementsStorage{t: newTable(cloneSupplement)},
		weights:      &WeightsStorage{t: newTable[storage.WeightEntry](nil)},
		customFoods:  &CustomFoodsStorage{t: newTable(cloneCustomFood)},
		recipes:      &RecipesStorage{t: newTable(cloneRecipe)},
		mealPlans:    &MealPlansStorage{t: newTable(cloneMealPlan)},
		groceryLists: &GroceryListsStorage{t: newTable(cloneGroceryList)},
		goals:        &GoalsStorage{t: newTable(cloneGoal)},
		profile:      &ProfileStorage{},
		meta:         &MetaStorage{flags: make(map[string]bool)},
		exports:      &ExportsStorage{t: newTable(cloneExport)},
	}
}

func (m *MemoryStorage) Foods() storage.FoodStorage               { return m.foods }
func (m *MemoryStorage) Exercises() storage.ExerciseStorage       { return m.exercises }
func (m *MemoryStorage) Water() storage.WaterStorage              { return m.water }
func (m *MemoryStorage) Supplements() storage.SupplementStorage   { return m.supplements }
func (m *MemoryStorage) Weights() storage.WeightStorage           { return m.weights }
func (m *MemoryStorage) CustomFoods() storage.CustomFoodStorage   { return m.customFoods }
func (m *MemoryStorage) Recipes() storage.RecipeStorage           { return m.recipes }
func (m *MemoryStorage) MealPlans() storage.MealPlanStorage       { return m.mealPlans }
func (m *MemoryStorage) GroceryLists() storage.GroceryListStorage { return m.groceryLists }
func (m *MemoryStorage) Goals() storage.GoalStorage               { return m.goals }
func (m *MemoryStorage) Profile() storage.ProfileStorage          { return m.profile }
func (m *MemoryStorage) Meta() storage.MetaStorage                { return m.meta }
func (m *MemoryStorage) Exports() storage.ExportStorage           { return m.exports }

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	// no-op for memory
	return nil
}

// ProfileStorage keeps the singleton profile.
type ProfileStorage struct {
	mu      sync.RWMutex
	profile *storage.UserProfile
}

func (s *ProfileStorage) GetProfile(ctx context.Context) (*storage.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil, nil
	}
	clone := *s.profile
	return &clone, nil
}

func (s *ProfileStorage) SaveProfile(ctx context.Context, profile *storage.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *profile
	clone.ID = storage.ProfileID
	s.profile = &clone
	return nil
}

// MetaStorage keeps boolean application flags.
type MetaStorage struct {
	mu    sync.RWMutex
	flags map[string]bool
}

func (s *MetaStorage) GetFlag(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[key], nil
}

func (s *MetaStorage) SetFlag(ctx context.Context, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = value
	return nil
}

func clonePanel(p nutrients.Panel) nutrients.Panel {
	out := nutrients.Panel{}
	for n, v := range p.Known {
		out.Set(n, v)
	}
	out.Other = cloneFloatMap(p.Other)
	return out
}

func cloneFood(f storage.FoodEntry) storage.FoodEntry {
	f.Micronutrients = clonePanel(f.Micronutrients)
	return f
}

func cloneSupplement(s storage.SupplementEntry) storage.SupplementEntry {
	s.Nutrients = cloneFloatMap(s.Nutrients)
	return s
}

func cloneCustomFood(f storage.CustomFood) storage.CustomFood {
	f.Micronutrients = clonePanel(f.Micronutrients)
	return f
}

func cloneRecipe(r storage.Recipe) storage.Recipe {
	r.Ingredients = cloneStrings(r.Ingredients)
	r.Instructions = cloneStrings(r.Instructions)
	r.Tags = cloneStrings(r.Tags)
	return r
}

func cloneMealPlan(p storage.MealPlan) storage.MealPlan {
	if p.RecipeID != nil {
		id := *p.RecipeID
		p.RecipeID = &id
	}
	return p
}

func cloneGroceryList(l storage.GroceryList) storage.GroceryList {
	l.Items = cloneStrings(l.Items)
	return l
}

func cloneGoal(g storage.Goal) storage.Goal {
	if g.Deadline != nil {
		d := *g.Deadline
		g.Deadline = &d
	}
	if g.CompletedDate != nil {
		d := *g.CompletedDate
		g.CompletedDate = &d
	}
	return g
}
