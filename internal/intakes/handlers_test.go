package intakes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
)

var testNow = time.Date(2024, 3, 15, 15, 0, 0, 0, time.Local)

func setupTestService() *Service {
	store := memory.New()
	return NewService(store.Water(), store.Supplements()).WithClock(func() time.Time { return testNow })
}

func TestWaterTotals(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	for i, oz := range []float64{8, 12, 16} {
		e := &storage.WaterEntry{Amount: oz, Unit: "oz", Timestamp: testNow.Add(time.Duration(i) * time.Minute)}
		if err := svc.AddWaterEntry(ctx, e); err != nil {
			t.Fatalf("add water: %v", err)
		}
	}
	if err := svc.AddWaterEntry(ctx, &storage.WaterEntry{Amount: 50, Timestamp: testNow.AddDate(0, 0, -1)}); err != nil {
		t.Fatalf("add water: %v", err)
	}

	total, err := svc.WaterOzForDate(ctx, testNow)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 36 {
		t.Errorf("expected 36 oz, got %v", total)
	}
}

func TestWaterUnitsNormalizeToOz(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	svc.AddWater(ctx, 1, "cup")
	svc.AddWater(ctx, 29.5735, "ml")

	total, _ := svc.WaterOzForDate(ctx, testNow)
	if math.Abs(total-9) > 1e-6 {
		t.Errorf("expected 9 oz, got %v", total)
	}

	if _, err := svc.AddWater(ctx, 1, "gallon"); err == nil {
		t.Error("expected error for unknown unit")
	}
	if _, err := svc.AddWater(ctx, 0, "oz"); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestRemoveLastWater(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	removed, err := svc.RemoveLastWater(ctx, testNow)
	if err != nil || removed {
		t.Fatalf("expected nothing removed on empty day, got removed=%v err=%v", removed, err)
	}

	svc.AddWaterEntry(ctx, &storage.WaterEntry{Amount: 8, Timestamp: testNow.Add(-time.Hour)})
	svc.AddWaterEntry(ctx, &storage.WaterEntry{Amount: 16, Timestamp: testNow})

	removed, err = svc.RemoveLastWater(ctx, testNow)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	entries, _ := svc.WaterForDate(ctx, testNow)
	if len(entries) != 1 || entries[0].Amount != 8 {
		t.Errorf("expected the 8 oz entry to remain, got %+v", entries)
	}
}

func TestSupplementNamesAndNutrients(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	for _, s := range []*storage.SupplementEntry{
		{Name: "Vitamin D", Nutrients: map[string]float64{"vitamin_d": 25}},
		{Name: "Vitamin C", Nutrients: map[string]float64{"vitamin_c": 500}},
		{Name: "Vitamin D", Nutrients: map[string]float64{"vitamin_d": 25}, Date: testNow.AddDate(0, 0, -1)},
	} {
		if err := svc.AddSupplement(ctx, s); err != nil {
			t.Fatalf("add supplement: %v", err)
		}
	}

	names, err := svc.SupplementNames(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "Vitamin C" || names[1] != "Vitamin D" {
		t.Errorf("expected [Vitamin C Vitamin D], got %v", names)
	}

	daily, err := svc.Daily(ctx, testNow)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(daily.Supplements) != 2 {
		t.Errorf("expected 2 supplements today, got %d", len(daily.Supplements))
	}
	if v, ok := daily.SupplementNutrients.Get(nutrients.VitaminD); !ok || v != 25 {
		t.Errorf("expected vitamin D 25, got %v", v)
	}
}

func TestSupplementNutrientNameWithDelimiter(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	if err := svc.AddSupplement(ctx, &storage.SupplementEntry{Name: "Vitamin D", Nutrients: map[string]float64{"vitamin_d": 25}}); err != nil {
		t.Fatalf("add supplement: %v", err)
	}
	for _, key := range []string{"EPA:DHA", "omega;3", " "} {
		err := svc.AddSupplement(ctx, &storage.SupplementEntry{Name: "Fish Oil", Nutrients: map[string]float64{key: 600}})
		if !errors.Is(err, ErrInvalidIntake) {
			t.Errorf("nutrient %q: expected ErrInvalidIntake, got %v", key, err)
		}
	}

	list, err := svc.SupplementsForDate(ctx, testNow)
	if err != nil || len(list) != 1 || list[0].Name != "Vitamin D" {
		t.Errorf("expected only Vitamin D today, got %v, %v", list, err)
	}
}

func TestSupplementsHandlers(t *testing.T) {
	handler := NewHandlers(setupTestService())

	t.Run("CreateAndList", func(t *testing.T) {
		body, _ := json.Marshal(CreateSupplementRequest{
			Name:      "Vitamin D3",
			Nutrients: map[string]float64{"vitamin_d": 50},
		})
		req := httptest.NewRequest("POST", "/v1/supplements", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleCreateSupplement(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
		}

		listReq := httptest.NewRequest("GET", "/v1/supplements?date=2024-03-15", nil)
		listW := httptest.NewRecorder()
		handler.HandleListSupplements(listW, listReq)

		var resp SupplementsResponse
		json.NewDecoder(listW.Body).Decode(&resp)
		if len(resp.Supplements) != 1 || resp.Supplements[0].Name != "Vitamin D3" {
			t.Errorf("unexpected supplements %+v", resp.Supplements)
		}
	})

	t.Run("RejectsNegativeNutrient", func(t *testing.T) {
		body, _ := json.Marshal(CreateSupplementRequest{
			Name:      "Broken",
			Nutrients: map[string]float64{"iron": -1},
		})
		req := httptest.NewRequest("POST", "/v1/supplements", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleCreateSupplement(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestWaterHandlers(t *testing.T) {
	handler := NewHandlers(setupTestService())

	for _, body := range []string{`{"amount": 8}`, `{"amount": 1, "unit": "cup"}`} {
		req := httptest.NewRequest("POST", "/v1/intakes/water", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		handler.HandleAddWater(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest("POST", "/v1/intakes/water", bytes.NewReader([]byte(`{"amount": 1, "unit": "gallon"}`)))
	w := httptest.NewRecorder()
	handler.HandleAddWater(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown unit, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/intakes/daily?date=2024-03-15", nil)
	w = httptest.NewRecorder()
	handler.HandleGetIntakesDaily(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var daily IntakesDailyResponse
	json.NewDecoder(w.Body).Decode(&daily)
	if daily.WaterTotalOz != 16 || daily.WaterCups != 2 {
		t.Errorf("expected 16 oz / 2 cups, got %v / %v", daily.WaterTotalOz, daily.WaterCups)
	}

	req = httptest.NewRequest("DELETE", "/v1/intakes/water/last?date=2024-03-15", nil)
	w = httptest.NewRecorder()
	handler.HandleRemoveLastWater(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
}
