package recipes

import (
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

const (
	SourceCustom = "custom"
	SourceRemote = "remote"
)

// DefaultDiscoverLimit caps how many recipes are requested from the remote API.
const DefaultDiscoverLimit = 10

// DiscoverQuery narrows remote discovery. Category also filters local recipes.
type DiscoverQuery struct {
	Category string
	MealPlan string
	Limit    int
}

// Discovery is local recipes followed by remote ones not already saved.
type Discovery struct {
	Recipes       []storage.Recipe
	RemoteFetched bool
}

type SaveRecipeRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description,omitempty" validate:"max=2000"`
	Category     string   `json:"category,omitempty" validate:"max=64"`
	Servings     int      `json:"servings" validate:"gte=0,lte=100"`
	PrepMinutes  int      `json:"prep_minutes" validate:"gte=0"`
	CookMinutes  int      `json:"cook_minutes" validate:"gte=0"`
	Calories     float64  `json:"calories" validate:"gte=0"`
	Protein      float64  `json:"protein" validate:"gte=0"`
	Carbs        float64  `json:"carbs" validate:"gte=0"`
	Fat          float64  `json:"fat" validate:"gte=0"`
	Ingredients  []string `json:"ingredients,omitempty" validate:"dive,required,listitem"`
	Instructions []string `json:"instructions,omitempty" validate:"dive,required,listitem"`
	Tags         []string `json:"tags,omitempty" validate:"dive,required,listitem"`
	IsFavorite   bool     `json:"is_favorite"`
	Source       string   `json:"source,omitempty" validate:"omitempty,oneof=custom remote"`
	ImageURL     string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

type RecipeDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Servings     int       `json:"servings"`
	PrepMinutes  int       `json:"prep_minutes"`
	CookMinutes  int       `json:"cook_minutes"`
	TotalMinutes int       `json:"total_minutes"`
	Calories     float64   `json:"calories"`
	Protein      float64   `json:"protein"`
	Carbs        float64   `json:"carbs"`
	Fat          float64   `json:"fat"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Tags         []string  `json:"tags"`
	IsFavorite   bool      `json:"is_favorite"`
	Source       string    `json:"source"`
	ImageURL     string    `json:"image_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type RecipesResponse struct {
	Recipes []RecipeDTO `json:"recipes"`
}

type DiscoverResponse struct {
	Recipes       []RecipeDTO `json:"recipes"`
	RemoteFetched bool        `json:"remote_fetched"`
}

type FavoriteResponse struct {
	ID         uuid.UUID `json:"id"`
	IsFavorite bool      `json:"is_favorite"`
}

func toDTO(r storage.Recipe) RecipeDTO {
	return RecipeDTO{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Servings:     r.Servings,
		PrepMinutes:  r.PrepMinutes,
		CookMinutes:  r.CookMinutes,
		TotalMinutes: r.PrepMinutes + r.CookMinutes,
		Calories:     r.Calories,
		Protein:      r.Protein,
		Carbs:        r.Carbs,
		Fat:          r.Fat,
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
		Tags:         nonNil(r.Tags),
		IsFavorite:   r.IsFavorite,
		Source:       r.Source,
		ImageURL:     r.ImageURL,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toDTOs(list []storage.Recipe) []RecipeDTO {
	out := make([]RecipeDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toDTO(r))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
