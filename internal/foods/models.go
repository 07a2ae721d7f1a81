package foods

import (
	"time"

	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// Barcode lookup sources.
const (
	SourceLocal         = "local"
	SourceOpenFoodFacts = "openfoodfacts"
)

// Totals is the nutrition sum of a set of entries, serving counts applied.
type Totals struct {
	Calories       float64
	Protein        float64
	Carbs          float64
	Fat            float64
	Micronutrients nutrients.Panel
	Entries        int
}

// BarcodeMatch is the result of a barcode lookup. Remote matches are not
// persisted and carry a nil ID.
type BarcodeMatch struct {
	Source string
	Food   storage.CustomFood
}

// CreateFoodRequest is also used for PUT /v1/foods/{id}.
type CreateFoodRequest struct {
	Name           string             `json:"name" validate:"required,max=200"`
	Brand          string             `json:"brand,omitempty"`
	Barcode        string             `json:"barcode,omitempty"`
	Date           string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MealType       string             `json:"meal_type" validate:"required,mealtype"`
	ServingSize    float64            `json:"serving_size" validate:"gte=0"`
	ServingUnit    string             `json:"serving_unit,omitempty"`
	ServingCount   *float64           `json:"serving_count,omitempty" validate:"omitempty,gte=0"`
	Calories       float64            `json:"calories" validate:"gte=0"`
	Protein        float64            `json:"protein" validate:"gte=0"`
	Carbs          float64            `json:"carbs" validate:"gte=0"`
	Fat            float64            `json:"fat" validate:"gte=0"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
}

// LogCustomFoodRequest logs servings of a saved custom food.
type LogCustomFoodRequest struct {
	CustomFoodID uuid.UUID `json:"custom_food_id"`
	Date         string    `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MealType     string    `json:"meal_type" validate:"required,mealtype"`
	ServingCount float64   `json:"serving_count" validate:"gt=0"`
}

type CreateCustomFoodRequest struct {
	Name           string             `json:"name" validate:"required,max=200"`
	Brand          string             `json:"brand,omitempty"`
	Barcode        string             `json:"barcode,omitempty" validate:"omitempty,max=64"`
	ServingSize    float64            `json:"serving_size" validate:"gte=0"`
	ServingUnit    string             `json:"serving_unit,omitempty"`
	Calories       float64            `json:"calories" validate:"gte=0"`
	Protein        float64            `json:"protein" validate:"gte=0"`
	Carbs          float64            `json:"carbs" validate:"gte=0"`
	Fat            float64            `json:"fat" validate:"gte=0"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
}

type FoodEntryDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Brand          string             `json:"brand,omitempty"`
	Barcode        string             `json:"barcode,omitempty"`
	Date           time.Time          `json:"date"`
	MealType       storage.MealType   `json:"meal_type"`
	ServingSize    float64            `json:"serving_size"`
	ServingUnit    string             `json:"serving_unit"`
	ServingCount   float64            `json:"serving_count"`
	Calories       float64            `json:"calories"`
	Protein        float64            `json:"protein"`
	Carbs          float64            `json:"carbs"`
	Fat            float64            `json:"fat"`
	TotalCalories  float64            `json:"total_calories"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
}

type TotalsDTO struct {
	Calories       float64            `json:"calories"`
	Protein        float64            `json:"protein"`
	Carbs          float64            `json:"carbs"`
	Fat            float64            `json:"fat"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
	Entries        int                `json:"entries"`
}

type DayResponse struct {
	Date   string                              `json:"date"`
	Meals  map[storage.MealType][]FoodEntryDTO `json:"meals"`
	Totals TotalsDTO                           `json:"totals"`
}

type HistoryResponse struct {
	Names []string `json:"names"`
}

type CustomFoodDTO struct {
	ID             uuid.UUID          `json:"id,omitempty"`
	Name           string             `json:"name"`
	Brand          string             `json:"brand,omitempty"`
	Barcode        string             `json:"barcode,omitempty"`
	ServingSize    float64            `json:"serving_size"`
	ServingUnit    string             `json:"serving_unit"`
	Calories       float64            `json:"calories"`
	Protein        float64            `json:"protein"`
	Carbs          float64            `json:"carbs"`
	Fat            float64            `json:"fat"`
	Micronutrients map[string]float64 `json:"micronutrients,omitempty"`
}

type CustomFoodsResponse struct {
	Foods []CustomFoodDTO `json:"foods"`
}

type BarcodeResponse struct {
	Source string        `json:"source"`
	Food   CustomFoodDTO `json:"food"`
}

func ToEntryDTO(e storage.FoodEntry) FoodEntryDTO {
	return FoodEntryDTO{
		ID:             e.ID,
		Name:           e.Name,
		Brand:          e.Brand,
		Barcode:        e.Barcode,
		Date:           e.Date,
		MealType:       e.MealType,
		ServingSize:    e.ServingSize,
		ServingUnit:    e.ServingUnit,
		ServingCount:   e.ServingCount,
		Calories:       e.Calories,
		Protein:        e.Protein,
		Carbs:          e.Carbs,
		Fat:            e.Fat,
		TotalCalories:  e.TotalCalories(),
		Micronutrients: panelMap(e.Micronutrients),
	}
}

func ToTotalsDTO(t Totals) TotalsDTO {
	return TotalsDTO{
		Calories:       t.Calories,
		Protein:        t.Protein,
		Carbs:          t.Carbs,
		Fat:            t.Fat,
		Micronutrients: panelMap(t.Micronutrients),
		Entries:        t.Entries,
	}
}

func toCustomDTO(f storage.CustomFood) CustomFoodDTO {
	return CustomFoodDTO{
		ID:             f.ID,
		Name:           f.Name,
		Brand:          f.Brand,
		Barcode:        f.Barcode,
		ServingSize:    f.ServingSize,
		ServingUnit:    f.ServingUnit,
		Calories:       f.Calories,
		Protein:        f.Protein,
		Carbs:          f.Carbs,
		Fat:            f.Fat,
		Micronutrients: panelMap(f.Micronutrients),
	}
}

func panelMap(p nutrients.Panel) map[string]float64 {
	if p.IsEmpty() {
		return nil
	}
	return p.ToMap()
}
