package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fdg312/health-diary/internal/nutrients"
)

const defaultFoodFactsURL = "https://world.openfoodfacts.org"

// Product is a packaged food as reported by OpenFoodFacts, per serving.
type Product struct {
	Barcode        string
	Name           string
	Brand          string
	ServingSize    float64
	ServingUnit    string
	Calories       float64
	Protein        float64
	Carbs          float64
	Fat            float64
	Micronutrients nutrients.Panel
}

// FoodFactsClient looks products up by barcode.
type FoodFactsClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

func NewFoodFactsClient(baseURL, userAgent string, timeoutSeconds int) *FoodFactsClient {
	c := &FoodFactsClient{BaseURL: baseURL, UserAgent: userAgent}
	if timeoutSeconds > 0 {
		c.HTTPClient = &http.Client{Timeout: secondsToDuration(timeoutSeconds)}
	}
	return c
}

// LookupBarcode returns ErrNotFound (wrapped in a FetchError) when the
// product database has no usable entry for barcode.
func (c *FoodFactsClient) LookupBarcode(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, c.fail(0, ErrNotFound)
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultFoodFactsURL
	}

	u := fmt.Sprintf("%s/api/v2/product/%s.json", base, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("create request: %w", err))
	}
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
	if resp.StatusCode == http.StatusNotFound {
		return nil, c.fail(resp.StatusCode, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return nil, c.fail(resp.StatusCode, ErrNotFound)
	}

	p := parsed.Product
	size, unit := parseServing(p)
	panel := parseMicronutrients(p.Nutriments)
	if fiber := nutrientValue(p.Nutriments, "fiber"); fiber > 0 {
		panel.Set(nutrients.Fiber, fiber)
	}
	if sugar := nutrientValue(p.Nutriments, "sugars"); sugar > 0 {
		panel.Set(nutrients.Sugar, sugar)
	}
	if sodium := nutrientValue(p.Nutriments, "sodium"); sodium > 0 {
		panel.Set(nutrients.Sodium, sodium*1000)
	}

	return &Product{
		Barcode:        barcode,
		Name:           strings.TrimSpace(p.ProductName),
		Brand:          strings.TrimSpace(p.Brands),
		ServingSize:    size,
		ServingUnit:    unit,
		Calories:       nutrientValue(p.Nutriments, "energy-kcal"),
		Protein:        nutrientValue(p.Nutriments, "proteins"),
		Carbs:          nutrientValue(p.Nutriments, "carbohydrates"),
		Fat:            nutrientValue(p.Nutriments, "fat"),
		Micronutrients: panel,
	}, nil
}

func (c *FoodFactsClient) fail(status int, err error) error {
	return &FetchError{Source: "openfoodfacts", StatusCode: status, Err: err}
}

// nutrientValue prefers the per-serving figure and falls back to per 100 g.
func nutrientValue(n map[string]any, base string) float64 {
	for _, key := range []string{base + "_serving", base + "_100g"} {
		if v, ok := parseFloatAny(n[key]); ok {
			return v
		}
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseMicronutrients keeps the vitamins and minerals the diary knows about.
// OpenFoodFacts reports them in grams; the panel uses each nutrient's unit.
func parseMicronutrients(n map[string]any) nutrients.Panel {
	panel := nutrients.Panel{}
	for key := range n {
		if !strings.HasSuffix(key, "_100g") {
			continue
		}
		base := strings.TrimSuffix(strings.ToLower(key), "_100g")
		nt, ok := nutrients.Lookup(base)
		if !ok {
			continue
		}
		switch nt {
		case nutrients.Fiber, nutrients.Sugar, nutrients.Sodium:
			continue
		}
		grams := nutrientValue(n, base)
		if grams <= 0 {
			continue
		}
		panel.Set(nt, gramsTo(nt.Unit(), grams))
	}
	return panel
}

func gramsTo(unit string, grams float64) float64 {
	switch unit {
	case "mg":
		return grams * 1e3
	case "mcg":
		return grams * 1e6
	}
	return grams
}

func parseServing(p offProduct) (float64, string) {
	if p.ServingQuantity > 0 {
		unit := strings.TrimSpace(p.ServingQuantityUnit)
		if unit == "" {
			unit = "g"
		}
		return p.ServingQuantity, unit
	}
	if parts := strings.Fields(strings.TrimSpace(p.ServingSize)); len(parts) >= 2 {
		if val, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", ""), 64); err == nil && val > 0 {
			return val, parts[1]
		}
	}
	return 100, "g"
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}
