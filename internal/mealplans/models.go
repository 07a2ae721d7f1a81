package mealplans

import (
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type MealPlanDTO struct {
	ID        uuid.UUID        `json:"id"`
	Date      string           `json:"date"`
	MealType  storage.MealType `json:"meal_type"`
	RecipeID  *uuid.UUID       `json:"recipe_id,omitempty"`
	Name      string           `json:"name"`
	Servings  float64          `json:"servings"`
	Calories  float64          `json:"calories"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type DayPlanResponse struct {
	Date     string        `json:"date"`
	Plans    []MealPlanDTO `json:"plans"`
	Calories float64       `json:"calories"`
}

type RangePlanResponse struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Plans []MealPlanDTO `json:"plans"`
}

type MealPlanRequest struct {
	Date     string     `json:"date" validate:"required,datetime=2006-01-02"`
	MealType string     `json:"meal_type" validate:"required,mealtype"`
	RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
	Name     string     `json:"name,omitempty" validate:"max=200"`
	Servings float64    `json:"servings" validate:"gte=0,lte=100"`
	Calories float64    `json:"calories" validate:"gte=0,lte=10000"`
	Notes    string     `json:"notes,omitempty" validate:"max=1000"`
}

type GroceryListDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Items       []string  `json:"items"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroceryListsResponse struct {
	Lists []GroceryListDTO `json:"lists"`
}

type GroceryListRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Items       []string `json:"items" validate:"dive,required,listitem,max=200"`
	IsCompleted bool     `json:"is_completed"`
}

type GenerateGroceryListRequest struct {
	Name string `json:"name,omitempty" validate:"max=200"`
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}
