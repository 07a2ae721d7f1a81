package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RecipeQuery is the request body of POST {base}/recipes.
type RecipeQuery struct {
	MealPlan string `json:"mealPlan,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit"`
}

// RemoteRecipe is one suggestion returned by the recipe API.
type RemoteRecipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Servings     int      `json:"servings"`
	PrepMinutes  int      `json:"prepTime"`
	CookMinutes  int      `json:"cookTime"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
	ImageURL     string   `json:"imageUrl"`
}

type recipeResponse struct {
	Success bool           `json:"success"`
	Recipes []RemoteRecipe `json:"recipes"`
	Message string         `json:"message,omitempty"`
}

// RecipeClient calls the optional recipe suggestion API.
type RecipeClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

func NewRecipeClient(baseURL, userAgent string, timeoutSeconds int) *RecipeClient {
	c := &RecipeClient{BaseURL: baseURL, UserAgent: userAgent}
	if timeoutSeconds > 0 {
		c.HTTPClient = &http.Client{Timeout: secondsToDuration(timeoutSeconds)}
	}
	return c
}

// Enabled reports whether a base URL is configured.
func (c *RecipeClient) Enabled() bool {
	return c != nil && strings.TrimSpace(c.BaseURL) != ""
}

// FetchRecipes posts q and returns the suggested recipes. A response with
// success=false is a FetchError.
func (c *RecipeClient) FetchRecipes(ctx context.Context, q RecipeQuery) ([]RemoteRecipe, error) {
	if !c.Enabled() {
		return nil, c.fail(0, fmt.Errorf("recipe API is not configured"))
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("encode request: %w", err))
	}
	u := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/") + "/recipes"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httpClientOrDefault(c.HTTPClient).Do(req)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	var parsed recipeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "success=false"
		}
		return nil, c.fail(resp.StatusCode, fmt.Errorf("recipe API: %s", msg))
	}
	if parsed.Recipes == nil {
		parsed.Recipes = []RemoteRecipe{}
	}
	return parsed.Recipes, nil
}

func (c *RecipeClient) fail(status int, err error) error {
	return &FetchError{Source: "recipes", StatusCode: status, Err: err}
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
