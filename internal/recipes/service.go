package recipes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/remote"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

var ErrInvalidRecipe = errors.New("invalid recipe")

// remoteNamespace derives stable ids for remote recipes so a rediscovered
// recipe maps onto the saved copy.
var remoteNamespace = uuid.MustParse("6f1b6c3e-2a47-4c2e-9a55-0d7f3b8e9c11")

// RemoteSource fetches recipes from the recipe API.
type RemoteSource interface {
	FetchRecipes(ctx context.Context, q remote.RecipeQuery) ([]remote.RemoteRecipe, error)
}

type Service struct {
	recipes storage.RecipeStorage
	remote  RemoteSource
}

// NewService wires the recipe store. remote may be nil; discovery then
// returns local recipes only.
func NewService(recipes storage.RecipeStorage, src RemoteSource) *Service {
	return &Service{recipes: recipes, remote: src}
}

func checkRecipe(r *storage.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if r.Servings < 0 {
		return fmt.Errorf("%w: servings must not be negative", ErrInvalidRecipe)
	}
	if r.Calories < 0 || r.Protein < 0 || r.Carbs < 0 || r.Fat < 0 {
		return fmt.Errorf("%w: nutrition values must not be negative", ErrInvalidRecipe)
	}
	for _, l := range [][]string{r.Ingredients, r.Instructions, r.Tags} {
		if err := codec.CheckList(l); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
		}
	}
	return nil
}

// SaveRecipe inserts or replaces a recipe.
func (s *Service) SaveRecipe(ctx context.Context, r *storage.Recipe) error {
	if err := checkRecipe(r); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Servings == 0 {
		r.Servings = 1
	}
	if r.Source == "" {
		r.Source = SourceCustom
	}
	return s.recipes.SaveRecipe(ctx, r)
}

func (s *Service) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.recipes.DeleteRecipe(ctx, id)
}

func (s *Service) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	return s.recipes.GetRecipe(ctx, id)
}

func (s *Service) ListRecipes(ctx context.Context) ([]storage.Recipe, error) {
	list, err := s.recipes.ListRecipes(ctx)
	return logList("list", list, err)
}

func (s *Service) Favorites(ctx context.Context) ([]storage.Recipe, error) {
	list, err := s.recipes.ListFavoriteRecipes(ctx)
	return logList("favorites", list, err)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]storage.Recipe, error) {
	list, err := s.recipes.ListRecipesByCategory(ctx, category)
	return logList("by category", list, err)
}

// Search matches name, description and tags. An empty query lists all.
func (s *Service) Search(ctx context.Context, query string) ([]storage.Recipe, error) {
	if strings.TrimSpace(query) == "" {
		return s.ListRecipes(ctx)
	}
	list, err := s.recipes.SearchRecipes(ctx, query)
	return logList("search", list, err)
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	r, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return false, err
	}
	if r == nil {
		return false, storage.ErrNotFound
	}
	favorite := !r.IsFavorite
	if err := s.recipes.SetRecipeFavorite(ctx, id, favorite); err != nil {
		return r.IsFavorite, err
	}
	return favorite, nil
}

// Discover merges local recipes with the remote API. Remote recipes whose
// name matches a local one are dropped. A remote failure is logged and the
// local recipes are returned alone.
func (s *Service) Discover(ctx context.Context, q DiscoverQuery) (Discovery, error) {
	var (
		local []storage.Recipe
		err   error
	)
	if q.Category != "" {
		local, err = s.ByCategory(ctx, q.Category)
	} else {
		local, err = s.ListRecipes(ctx)
	}
	if err != nil {
		return Discovery{Recipes: local}, err
	}
	if s.remote == nil {
		return Discovery{Recipes: local}, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultDiscoverLimit
	}
	fetched, err := s.remote.FetchRecipes(ctx, remote.RecipeQuery{MealPlan: q.MealPlan, Category: q.Category, Limit: limit})
	if err != nil {
		log.Printf("WARN recipes.remote: discover category=%q: %v", q.Category, err)
		return Discovery{Recipes: local}, nil
	}

	return Discovery{Recipes: merge(local, fetched), RemoteFetched: true}, nil
}

func merge(local []storage.Recipe, fetched []remote.RemoteRecipe) []storage.Recipe {
	seen := make(map[string]bool, len(local))
	out := make([]storage.Recipe, 0, len(local)+len(fetched))
	for _, r := range local {
		seen[strings.ToLower(r.Name)] = true
		out = append(out, r)
	}
	for _, rr := range fetched {
		key := strings.ToLower(strings.TrimSpace(rr.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, FromRemote(rr))
	}
	return out
}

// FromRemote converts an API recipe. The id is derived from the remote id (or
// name when the API sends none).
func FromRemote(rr remote.RemoteRecipe) storage.Recipe {
	key := rr.ID
	if key == "" {
		key = strings.ToLower(rr.Name)
	}
	servings := rr.Servings
	if servings <= 0 {
		servings = 1
	}
	return storage.Recipe{
		ID:           uuid.NewSHA1(remoteNamespace, []byte(key)),
		Name:         strings.TrimSpace(rr.Name),
		Description:  rr.Description,
		Category:     rr.Category,
		Servings:     servings,
		PrepMinutes:  rr.PrepMinutes,
		CookMinutes:  rr.CookMinutes,
		Calories:     rr.Calories,
		Protein:      rr.Protein,
		Carbs:        rr.Carbs,
		Fat:          rr.Fat,
		Ingredients:  storable(rr.Ingredients),
		Instructions: storable(rr.Instructions),
		Tags:         storable(rr.Tags),
		Source:       SourceRemote,
		ImageURL:     rr.ImageURL,
	}
}

func logList(op string, list []storage.Recipe, err error) ([]storage.Recipe, error) {
	if err != nil {
		log.Printf("WARN recipes: %s: %v", op, err)
		return []storage.Recipe{}, err
	}
	return list, nil
}

// storable trims remote list elements and drops the ones the store cannot
// keep (empty, or colliding with the list separator).
func storable(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if codec.CheckListItem(it) == nil {
			out = append(out, it)
		}
	}
	return out
}
