package storage

import (
	"time"

	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/google/uuid"
)

// MealType groups food entries in the diary.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists meal types in diary order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// FoodEntry is one logged food. Nutrient fields are per serving.
type FoodEntry struct {
	ID             uuid.UUID
	Name           string
	Brand          string
	Barcode        string
	Date           time.Time
	MealType       MealType
	ServingSize    float64
	ServingUnit    string
	ServingCount   float64
	Calories       float64
	Protein        float64
	Carbs          float64
	Fat            float64
	Micronutrients nutrients.Panel
	CreatedAt      time.Time
}

// TotalCalories returns calories × serving count.
func (f FoodEntry) TotalCalories() float64 {
	return f.Calories * f.ServingCount
}

// ExerciseEntry is one workout or activity.
type ExerciseEntry struct {
	ID              uuid.UUID
	Name            string
	Category        string // cardio, strength, flexibility, sports, other
	Type            string
	Date            time.Time
	DurationMinutes int
	CaloriesBurned  float64
	Intensity       string
	Notes           string
	CreatedAt       time.Time
}

// WaterEntry is one drink of water.
type WaterEntry struct {
	ID        uuid.UUID
	Amount    float64
	Unit      string // oz, ml, cup
	Timestamp time.Time
}

// SupplementEntry is one supplement dose.
type SupplementEntry struct {
	ID          uuid.UUID
	Name        string
	Brand       string
	Date        time.Time
	ServingSize float64
	ServingUnit string
	Nutrients   map[string]float64
	Notes       string
	CreatedAt   time.Time
}

// Panel returns the typed view of Nutrients.
func (s SupplementEntry) Panel() nutrients.Panel {
	return nutrients.FromMap(s.Nutrients)
}

// WeightEntry is one weigh-in, in kilograms.
type WeightEntry struct {
	ID        uuid.UUID
	Weight    float64
	Date      time.Time
	Timestamp time.Time
	Notes     string
}

// CustomFood is a food defined by the user, optionally with a barcode.
type CustomFood struct {
	ID             uuid.UUID
	Name           string
	Brand          string
	Barcode        string
	ServingSize    float64
	ServingUnit    string
	Calories       float64
	Protein        float64
	Carbs          float64
	Fat            float64
	Micronutrients nutrients.Panel
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recipe sources.
const (
	RecipeSourceCustom = "custom"
	RecipeSourceRemote = "remote"
)

// Recipe nutrition values are per serving.
type Recipe struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Category     string
	Servings     int
	PrepMinutes  int
	CookMinutes  int
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Ingredients  []string
	Instructions []string
	Tags         []string
	IsFavorite   bool
	Source       string
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MealPlan is a meal planned for a day.
type MealPlan struct {
	ID        uuid.UUID
	Date      time.Time
	MealType  MealType
	RecipeID  *uuid.UUID
	Name      string
	Servings  float64
	Calories  float64
	Notes     string
	CreatedAt time.Time
}

// GroceryList is a shopping list.
type GroceryList struct {
	ID          uuid.UUID
	Name        string
	Items       []string
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GoalType enumerates goal categories.
type GoalType string

const (
	GoalWeightLoss GoalType = "WEIGHT_LOSS"
	GoalCalories   GoalType = "CALORIES"
	GoalExercise   GoalType = "EXERCISE"
	GoalWater      GoalType = "WATER"
	GoalSteps      GoalType = "STEPS"
	GoalNutrition  GoalType = "NUTRITION"
)

// GoalTypes lists every goal type.
var GoalTypes = []GoalType{GoalWeightLoss, GoalCalories, GoalExercise, GoalWater, GoalSteps, GoalNutrition}

func (g GoalType) Valid() bool {
	for _, t := range GoalTypes {
		if g == t {
			return true
		}
	}
	return false
}

// Goal is a tracked target. Progress is derived from CurrentValue/TargetValue.
type Goal struct {
	ID            uuid.UUID
	Type          GoalType
	Title         string
	Description   string
	TargetValue   float64
	CurrentValue  float64
	Unit          string
	Progress      int
	StartDate     time.Time
	Deadline      *time.Time
	IsActive      bool
	IsCompleted   bool
	CompletedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileID is the fixed identity of the singleton profile row.
const ProfileID = 1

// UserProfile is the single user of the diary.
type UserProfile struct {
	ID               int
	Name             string
	HeightCm         float64
	WeightKg         float64
	GoalWeightKg     float64
	BirthDate        time.Time
	Gender           string // male, female, other
	ActivityLevel    string
	BMRFormula       string // mifflin, harris_benedict
	DailyCalorieGoal float64
	DailyProteinGoal float64
	DailyCarbsGoal   float64
	DailyFatGoal     float64
	DailyWaterCups   float64
	UpdatedAt        time.Time
}

// DefaultProfile returns the profile used before the user saves one.
func DefaultProfile() UserProfile {
	return UserProfile{
		ID:               ProfileID,
		Name:             "User",
		HeightCm:         170,
		WeightKg:         70,
		GoalWeightKg:     65,
		BirthDate:        time.Date(1990, 1, 1, 0, 0, 0, 0, time.Local),
		Gender:           "other",
		ActivityLevel:    "Moderately Active",
		BMRFormula:       "mifflin",
		DailyCalorieGoal: 2000,
		DailyProteinGoal: 50,
		DailyCarbsGoal:   250,
		DailyFatGoal:     65,
		DailyWaterCups:   8,
	}
}

// Export formats.
const (
	ExportCSV = "csv"
	ExportPDF = "pdf"
)

// ExportMeta describes a generated diary export. Data holds the file when no
// object store is configured; otherwise ObjectKey points at the stored copy.
type ExportMeta struct {
	ID        uuid.UUID
	Format    string
	FromDate  time.Time
	ToDate    time.Time
	ObjectKey *string
	SizeBytes int64
	Data      []byte
	CreatedBy string // token subject, empty for anonymous requests
	CreatedAt time.Time
}
