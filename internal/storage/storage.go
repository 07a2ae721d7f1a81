package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store aggregates the per-family data-access contracts.
type Store interface {
	Foods() FoodStorage
	Exercises() ExerciseStorage
	Water() WaterStorage
	Supplements() SupplementStorage
	Weights() WeightStorage
	CustomFoods() CustomFoodStorage
	Recipes() RecipeStorage
	MealPlans() MealPlanStorage
	GroceryLists() GroceryListStorage
	Goals() GoalStorage
	Profile() ProfileStorage
	Meta() MetaStorage
	Exports() ExportStorage

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases connections (no-op for memory).
	Close() error
}

// FoodStorage persists food diary entries.
type FoodStorage interface {
	InsertFood(ctx context.Context, entry *FoodEntry) error
	UpdateFood(ctx context.Context, entry *FoodEntry) error
	DeleteFood(ctx context.Context, id uuid.UUID) error
	GetFood(ctx context.Context, id uuid.UUID) (*FoodEntry, error)

	// ListFoodsByDate returns the entries of the calendar day containing day, newest first.
	ListFoodsByDate(ctx context.Context, day time.Time) ([]FoodEntry, error)

	// ListFoodsInRange returns entries with from <= date < to, newest first.
	ListFoodsInRange(ctx context.Context, from, to time.Time) ([]FoodEntry, error)

	// SumCaloriesForDate returns Σ calories × serving_count for the day.
	SumCaloriesForDate(ctx context.Context, day time.Time) (float64, error)

	// SearchFoodHistory returns distinct previously logged names matching query.
	SearchFoodHistory(ctx context.Context, query string, limit int) ([]string, error)

	DeleteFoodsForDate(ctx context.Context, day time.Time) error
}

// ExerciseStorage persists the exercise log.
type ExerciseStorage interface {
	InsertExercise(ctx context.Context, entry *ExerciseEntry) error
	UpdateExercise(ctx context.Context, entry *ExerciseEntry) error
	DeleteExercise(ctx context.Context, id uuid.UUID) error
	GetExercise(ctx context.Context, id uuid.UUID) (*ExerciseEntry, error)
	ListExercisesByDate(ctx context.Context, day time.Time) ([]ExerciseEntry, error)
	ListExercisesInRange(ctx context.Context, from, to time.Time) ([]ExerciseEntry, error)
	ListExercisesByCategory(ctx context.Context, category string) ([]ExerciseEntry, error)

	// SumDurationInRange returns total minutes with from <= date < to.
	SumDurationInRange(ctx context.Context, from, to time.Time) (int, error)
	SumCaloriesBurnedInRange(ctx context.Context, from, to time.Time) (float64, error)
	CountExercisesInRange(ctx context.Context, from, to time.Time) (int, error)
}

// WaterStorage persists water intake.
type WaterStorage interface {
	InsertWater(ctx context.Context, entry *WaterEntry) error
	DeleteWater(ctx context.Context, id uuid.UUID) error

	// ListWaterByDate returns the day's entries, newest first.
	ListWaterByDate(ctx context.Context, day time.Time) ([]WaterEntry, error)
	ListWaterInRange(ctx context.Context, from, to time.Time) ([]WaterEntry, error)

	// SumWaterForDate sums raw amounts for the day regardless of unit.
	SumWaterForDate(ctx context.Context, day time.Time) (float64, error)
	DeleteWaterForDate(ctx context.Context, day time.Time) error
}

// SupplementStorage persists the supplement intake log.
type SupplementStorage interface {
	InsertSupplement(ctx context.Context, entry *SupplementEntry) error
	UpdateSupplement(ctx context.Context, entry *SupplementEntry) error
	DeleteSupplement(ctx context.Context, id uuid.UUID) error
	ListSupplementsByDate(ctx context.Context, day time.Time) ([]SupplementEntry, error)
	ListSupplementsInRange(ctx context.Context, from, to time.Time) ([]SupplementEntry, error)

	// DistinctSupplementNames returns every logged name once, ordered by name.
	DistinctSupplementNames(ctx context.Context) ([]string, error)
}

// WeightStorage persists body weight entries.
type WeightStorage interface {
	InsertWeight(ctx context.Context, entry *WeightEntry) error
	UpdateWeight(ctx context.Context, entry *WeightEntry) error
	DeleteWeight(ctx context.Context, id uuid.UUID) error

	// LatestWeight returns the entry with max(date); later inserts win ties.
	LatestWeight(ctx context.Context) (*WeightEntry, error)

	// WeightOnDate returns the latest entry on the calendar day of day.
	WeightOnDate(ctx context.Context, day time.Time) (*WeightEntry, error)

	// ListWeights returns all entries, newest date first.
	ListWeights(ctx context.Context) ([]WeightEntry, error)
	ListWeightsInRange(ctx context.Context, from, to time.Time) ([]WeightEntry, error)
}

// CustomFoodStorage persists user-defined foods.
type CustomFoodStorage interface {
	InsertCustomFood(ctx context.Context, food *CustomFood) error
	UpdateCustomFood(ctx context.Context, food *CustomFood) error
	DeleteCustomFood(ctx context.Context, id uuid.UUID) error
	GetCustomFood(ctx context.Context, id uuid.UUID) (*CustomFood, error)
	GetCustomFoodByBarcode(ctx context.Context, barcode string) (*CustomFood, error)

	// SearchCustomFoods matches name or brand, ordered by name.
	SearchCustomFoods(ctx context.Context, query string) ([]CustomFood, error)
	ListCustomFoods(ctx context.Context) ([]CustomFood, error)
}

// RecipeStorage persists recipes. SaveRecipe inserts or replaces.
type RecipeStorage interface {
	SaveRecipe(ctx context.Context, recipe *Recipe) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// ListRecipes returns all recipes ordered by name.
	ListRecipes(ctx context.Context) ([]Recipe, error)
	ListFavoriteRecipes(ctx context.Context) ([]Recipe, error)
	ListRecipesByCategory(ctx context.Context, category string) ([]Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]Recipe, error)
	SetRecipeFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
}

// MealPlanStorage persists planned meals.
type MealPlanStorage interface {
	InsertMealPlan(ctx context.Context, plan *MealPlan) error
	UpdateMealPlan(ctx context.Context, plan *MealPlan) error
	DeleteMealPlan(ctx context.Context, id uuid.UUID) error
	ListMealPlansByDate(ctx context.Context, day time.Time) ([]MealPlan, error)

	// ListMealPlansInRange returns plans with from <= date < to, oldest first.
	ListMealPlansInRange(ctx context.Context, from, to time.Time) ([]MealPlan, error)
	DeleteMealPlansForDate(ctx context.Context, day time.Time) error
}

// GroceryListStorage persists shopping lists.
type GroceryListStorage interface {
	InsertGroceryList(ctx context.Context, list *GroceryList) error
	UpdateGroceryList(ctx context.Context, list *GroceryList) error
	DeleteGroceryList(ctx context.Context, id uuid.UUID) error
	GetGroceryList(ctx context.Context, id uuid.UUID) (*GroceryList, error)
	ListGroceryLists(ctx context.Context, completed bool) ([]GroceryList, error)
}

// GoalStorage persists goals. SaveGoal inserts or replaces.
type GoalStorage interface {
	SaveGoal(ctx context.Context, goal *Goal) error
	UpdateGoal(ctx context.Context, goal *Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error)

	// ListGoals returns all goals, newest first.
	ListGoals(ctx context.Context) ([]Goal, error)
	ListActiveGoals(ctx context.Context) ([]Goal, error)
	ListCompletedGoals(ctx context.Context) ([]Goal, error)
	ListGoalsByType(ctx context.Context, goalType GoalType) ([]Goal, error)
	CountActiveGoals(ctx context.Context) (int, error)
}

// ProfileStorage holds the singleton user profile.
type ProfileStorage interface {
	// GetProfile returns nil when no profile has been saved yet.
	GetProfile(ctx context.Context) (*UserProfile, error)

	// SaveProfile inserts or replaces the singleton row.
	SaveProfile(ctx context.Context, profile *UserProfile) error
}

// MetaStorage holds persisted application flags.
type MetaStorage interface {
	GetFlag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
}

// ExportStorage keeps metadata of generated diary exports.
type ExportStorage interface {
	InsertExport(ctx context.Context, meta *ExportMeta) error
	GetExport(ctx context.Context, id uuid.UUID) (*ExportMeta, error)

	// ListExports returns exports newest first.
	ListExports(ctx context.Context, limit, offset int) ([]ExportMeta, error)
	DeleteExport(ctx context.Context, id uuid.UUID) error
}
