package nutrition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/profiles"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

type fixture struct {
	svc      *Service
	profiles *profiles.Service
	foods    *foods.Service
	intakes  *intakes.Service
}

func setup() fixture {
	store := memory.New()
	clock := func() time.Time { return testNow }
	f := fixture{
		profiles: profiles.NewService(store.Profile()).WithClock(clock),
		foods:    foods.NewService(store.Foods(), store.CustomFoods(), nil).WithClock(clock),
		intakes:  intakes.NewService(store.Water(), store.Supplements()).WithClock(clock),
	}
	f.svc = NewService(f.profiles, f.foods, f.intakes).WithClock(clock)
	return f
}

func TestTargetsFor(t *testing.T) {
	p := storage.DefaultProfile()
	got := TargetsFor(p, testNow)
	want := Targets{CaloriesKcal: 2000, ProteinG: 50, CarbsG: 250, FatG: 65, WaterOz: 64}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	p.DailyCalorieGoal = 0
	p.DailyProteinGoal = 0
	p.DailyCarbsGoal = 0
	p.DailyFatGoal = 0
	p.DailyWaterCups = 0
	p.Gender = "male"
	p.WeightKg = 75
	p.HeightCm = 180
	p.BirthDate = time.Date(1994, 1, 1, 0, 0, 0, 0, time.Local)
	p.ActivityLevel = "Moderate"

	got = TargetsFor(p, testNow)
	if got.CaloriesKcal != 2682 {
		t.Errorf("expected TDEE fallback 2682, got %v", got.CaloriesKcal)
	}
	if got.ProteinG != 201 || got.CarbsG != 268 || got.FatG != 89 {
		t.Errorf("unexpected macro split %+v", got)
	}
	if got.WaterOz != DefaultWaterOz {
		t.Errorf("expected default water %d, got %v", DefaultWaterOz, got.WaterOz)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	f := setup()

	f.foods.AddFood(ctx, &storage.FoodEntry{Name: "Oatmeal", MealType: storage.MealBreakfast, Calories: 300, Protein: 10, Carbs: 50, Fat: 5, ServingCount: 1, Date: testNow})
	f.foods.AddFood(ctx, &storage.FoodEntry{Name: "Chicken", MealType: storage.MealLunch, Calories: 250, Protein: 15, Carbs: 0, Fat: 10, ServingCount: 2, Date: testNow})
	f.intakes.AddWater(ctx, 32, "oz")

	sum, err := f.svc.Summary(ctx, testNow)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Consumed.Calories != 800 || sum.Consumed.Protein != 40 {
		t.Errorf("unexpected consumed %+v", sum.Consumed)
	}
	if sum.RemainingCalories() != 1200 {
		t.Errorf("expected 1200 remaining, got %v", sum.RemainingCalories())
	}
	if sum.WaterOz != 32 {
		t.Errorf("expected 32 oz, got %v", sum.WaterOz)
	}

	resp := toSummaryResponse(sum)
	if resp.Calories.Percent != 40 || resp.Protein.Percent != 80 || resp.Water.Percent != 50 {
		t.Errorf("unexpected percents %+v", resp)
	}
}

func TestNutritionHandlers(t *testing.T) {
	f := setup()
	handler := NewHandler(f.svc)

	req := httptest.NewRequest("GET", "/v1/nutrition/targets", nil)
	w := httptest.NewRecorder()
	handler.HandleGetTargets(w, req)

	var targets GetTargetsResponse
	json.NewDecoder(w.Body).Decode(&targets)
	if !targets.IsDefault || targets.Targets.CaloriesKcal != 2000 {
		t.Errorf("unexpected targets %+v", targets)
	}

	req = httptest.NewRequest("GET", "/v1/nutrition/summary?date=bad", nil)
	w = httptest.NewRecorder()
	handler.HandleGetSummary(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/nutrition/summary?date=2024-03-15", nil)
	w = httptest.NewRecorder()
	handler.HandleGetSummary(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp SummaryResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Date != "2024-03-15" || resp.Entries != 0 || resp.RemainingCalories != 2000 {
		t.Errorf("unexpected summary %+v", resp)
	}
}
