package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/health-diary/internal/nutrients"
)

func TestLookupBarcodeParsesProduct(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "product_name": "Yogurt Cup",
    "brands": "Brand Co",
    "serving_quantity": 170,
    "serving_quantity_unit": "g",
    "nutriments": {
      "energy-kcal_serving": 120,
      "proteins_serving": 10,
      "carbohydrates_serving": 15,
      "fat_serving": 2,
      "sodium_100g": 0.05,
      "calcium_100g": 0.12
    }
  }
}`))
	}))
	defer ts.Close()

	c := &FoodFactsClient{BaseURL: ts.URL, UserAgent: "health-diary-test", HTTPClient: ts.Client()}
	p, err := c.LookupBarcode(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("LookupBarcode: %v", err)
	}
	if gotPath != "/api/v2/product/12345678.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != "health-diary-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if p.Name != "Yogurt Cup" || p.Calories != 120 || p.Protein != 10 || p.ServingSize != 170 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if v, ok := p.Micronutrients.Get(nutrients.Sodium); !ok || v != 50 {
		t.Errorf("sodium = %v (%v), want 50 mg", v, ok)
	}
	if v, ok := p.Micronutrients.Get(nutrients.Calcium); !ok || v != 120 {
		t.Errorf("calcium = %v (%v), want 120 mg", v, ok)
	}
}

func TestLookupBarcodeNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	}))
	defer ts.Close()

	c := &FoodFactsClient{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.LookupBarcode(context.Background(), "000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Source != "openfoodfacts" {
		t.Errorf("expected FetchError from openfoodfacts, got %T", err)
	}
}

func TestLookupBarcodeServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &FoodFactsClient{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.LookupBarcode(context.Background(), "123")
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want FetchError with 502", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server error must not look like not found")
	}
}

func TestFetchRecipes(t *testing.T) {
	var got RecipeQuery
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recipes" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success": true, "recipes": [
			{"id": "r1", "name": "Lentil Soup", "calories": 310, "ingredients": ["lentils", "carrot"], "tags": ["vegan"]}
		]}`))
	}))
	defer ts.Close()

	c := &RecipeClient{BaseURL: ts.URL, HTTPClient: ts.Client()}
	recipes, err := c.FetchRecipes(context.Background(), RecipeQuery{Category: "dinner"})
	if err != nil {
		t.Fatalf("FetchRecipes: %v", err)
	}
	if got.Category != "dinner" || got.Limit != 10 {
		t.Errorf("request body = %+v", got)
	}
	if len(recipes) != 1 || recipes[0].Name != "Lentil Soup" || len(recipes[0].Ingredients) != 2 {
		t.Errorf("recipes = %+v", recipes)
	}
}

func TestFetchRecipesUnsuccessful(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "quota exceeded"}`))
	}))
	defer ts.Close()

	c := &RecipeClient{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.FetchRecipes(context.Background(), RecipeQuery{})
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Source != "recipes" {
		t.Fatalf("err = %v, want recipes FetchError", err)
	}
}

func TestRecipeClientDisabled(t *testing.T) {
	var c *RecipeClient
	if c.Enabled() {
		t.Fatal("nil client must be disabled")
	}
	if _, err := (&RecipeClient{}).FetchRecipes(context.Background(), RecipeQuery{}); err == nil {
		t.Fatal("expected error without base URL")
	}
}
