package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/health-diary/internal/remote"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
	"github.com/google/uuid"
)

type fakeRemote struct {
	recipes []remote.RemoteRecipe
	err     error
	got     remote.RecipeQuery
}

func (f *fakeRemote) FetchRecipes(ctx context.Context, q remote.RecipeQuery) ([]remote.RemoteRecipe, error) {
	f.got = q
	return f.recipes, f.err
}

func seedLocal(t *testing.T, svc *Service) {
	t.Helper()
	for _, r := range []*storage.Recipe{
		{Name: "Overnight Oats", Category: "breakfast", Tags: []string{"quick", "vegetarian"}, Calories: 350},
		{Name: "Salmon with Quinoa", Category: "dinner", Tags: []string{"high-protein"}, Calories: 485},
	} {
		if err := svc.SaveRecipe(context.Background(), r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
}

func TestSaveAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New().Recipes(), nil)
	seedLocal(t, svc)

	all, _ := svc.ListRecipes(ctx)
	if len(all) != 2 || all[0].Name != "Overnight Oats" {
		t.Fatalf("expected recipes ordered by name, got %+v", all)
	}
	if all[0].Servings != 1 || all[0].Source != SourceCustom {
		t.Errorf("expected defaults servings=1 source=custom, got %d %q", all[0].Servings, all[0].Source)
	}

	found, _ := svc.Search(ctx, "PROTEIN")
	if len(found) != 1 || found[0].Name != "Salmon with Quinoa" {
		t.Errorf("expected tag match, got %+v", found)
	}

	if err := svc.SaveRecipe(ctx, &storage.Recipe{Name: "  "}); !errors.Is(err, ErrInvalidRecipe) {
		t.Errorf("expected ErrInvalidRecipe, got %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New().Recipes(), nil)
	seedLocal(t, svc)

	all, _ := svc.ListRecipes(ctx)
	fav, err := svc.ToggleFavorite(ctx, all[1].ID)
	if err != nil || !fav {
		t.Fatalf("expected favorite, got %v err=%v", fav, err)
	}
	favs, _ := svc.Favorites(ctx)
	if len(favs) != 1 || favs[0].ID != all[1].ID {
		t.Errorf("unexpected favorites %+v", favs)
	}

	fav, _ = svc.ToggleFavorite(ctx, all[1].ID)
	if fav {
		t.Error("expected second toggle to clear favorite")
	}

	if _, err := svc.ToggleFavorite(ctx, uuid.New()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRecipeRejectsSeparatorCollisions(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New().Recipes(), nil)

	tests := []struct {
		name string
		r    storage.Recipe
	}{
		{"empty ingredient", storage.Recipe{Name: "Toast", Ingredients: []string{""}}},
		{"pipe at edges", storage.Recipe{Name: "Toast", Instructions: []string{"a|", "|b"}}},
		{"separator inside tag", storage.Recipe{Name: "Toast", Tags: []string{"quick|||easy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.r
			if err := svc.SaveRecipe(ctx, &r); !errors.Is(err, ErrInvalidRecipe) {
				t.Errorf("expected ErrInvalidRecipe, got %v", err)
			}
		})
	}
	if all, _ := svc.ListRecipes(ctx); len(all) != 0 {
		t.Errorf("expected nothing saved, got %d", len(all))
	}
}

func TestFromRemoteDropsUnstorableItems(t *testing.T) {
	r := FromRemote(remote.RemoteRecipe{Name: "Soup", Ingredients: []string{" lentils ", "", "|||", "salt|"}})
	if len(r.Ingredients) != 1 || r.Ingredients[0] != "lentils" {
		t.Errorf("expected [lentils], got %q", r.Ingredients)
	}
}

func TestDiscoverMergesRemote(t *testing.T) {
	ctx := context.Background()
	src := &fakeRemote{recipes: []remote.RemoteRecipe{
		{ID: "r1", Name: "salmon with quinoa"},
		{ID: "r2", Name: "Green Smoothie", Servings: 2, Ingredients: []string{"spinach", "banana"}},
	}}
	svc := NewService(memory.New().Recipes(), src)
	seedLocal(t, svc)

	d, err := svc.Discover(ctx, DiscoverQuery{MealPlan: "balanced"})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if !d.RemoteFetched || len(d.Recipes) != 3 {
		t.Fatalf("expected 2 local + 1 remote, got %+v", d)
	}
	last := d.Recipes[2]
	if last.Name != "Green Smoothie" || last.Source != SourceRemote || last.Servings != 2 {
		t.Errorf("unexpected remote recipe %+v", last)
	}
	if src.got.Limit != DefaultDiscoverLimit || src.got.MealPlan != "balanced" {
		t.Errorf("unexpected query %+v", src.got)
	}

	again := FromRemote(remote.RemoteRecipe{ID: "r2", Name: "Green Smoothie"})
	if again.ID != last.ID {
		t.Error("expected stable id for the same remote recipe")
	}
}

func TestDiscoverFallsBackToLocal(t *testing.T) {
	src := &fakeRemote{err: &remote.FetchError{Source: "recipes", StatusCode: 503, Err: errors.New("unavailable")}}
	svc := NewService(memory.New().Recipes(), src)
	seedLocal(t, svc)

	d, err := svc.Discover(context.Background(), DiscoverQuery{Category: "dinner"})
	if err != nil {
		t.Fatalf("expected no error on remote failure, got %v", err)
	}
	if d.RemoteFetched || len(d.Recipes) != 1 || d.Recipes[0].Name != "Salmon with Quinoa" {
		t.Errorf("expected local dinner recipe only, got %+v", d)
	}
}

func TestRecipeHandlers(t *testing.T) {
	handler := NewHandlers(NewService(memory.New().Recipes(), nil))

	body := []byte(`{"name":"Greek Salad","category":"lunch","servings":2,"calories":220,"ingredients":["tomato","feta"]}`)
	req := httptest.NewRequest("POST", "/v1/recipes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var created RecipeDTO
	json.NewDecoder(w.Body).Decode(&created)

	req = httptest.NewRequest("POST", "/v1/recipes/"+created.ID.String()+"/favorite", nil)
	req.SetPathValue("id", created.ID.String())
	w = httptest.NewRecorder()
	handler.HandleToggleFavorite(w, req)
	var fav FavoriteResponse
	json.NewDecoder(w.Body).Decode(&fav)
	if !fav.IsFavorite {
		t.Error("expected recipe to become favorite")
	}

	req = httptest.NewRequest("GET", "/v1/recipes?favorites=true", nil)
	w = httptest.NewRecorder()
	handler.HandleList(w, req)
	var list RecipesResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Recipes) != 1 || len(list.Recipes[0].Ingredients) != 2 {
		t.Errorf("unexpected favorites %+v", list.Recipes)
	}

	missing := uuid.New().String()
	req = httptest.NewRequest("PUT", "/v1/recipes/"+missing, bytes.NewReader(body))
	req.SetPathValue("id", missing)
	w = httptest.NewRecorder()
	handler.HandleUpdate(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/recipes/discover?limit=0", nil)
	w = httptest.NewRecorder()
	handler.HandleDiscover(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
