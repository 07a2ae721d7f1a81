package foods

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/remote"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
	"github.com/google/uuid"
)

type fakeBarcodes struct {
	products map[string]*remote.Product
	err      error
	calls    int
}

func (f *fakeBarcodes) LookupBarcode(ctx context.Context, barcode string) (*remote.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[barcode]
	if !ok {
		return nil, &remote.FetchError{Source: "openfoodfacts", StatusCode: 404, Err: remote.ErrNotFound}
	}
	return p, nil
}

var testNow = time.Date(2024, 3, 15, 13, 0, 0, 0, time.Local)

func newTestService(barcodes BarcodeSource) *Service {
	store := memory.New()
	return NewService(store.Foods(), store.CustomFoods(), barcodes).WithClock(func() time.Time { return testNow })
}

func TestComputeTotals(t *testing.T) {
	var fiber nutrients.Panel
	fiber.Set(nutrients.Fiber, 3)

	entries := []storage.FoodEntry{
		{Name: "Toast", Calories: 200, Protein: 6, ServingCount: 1, Micronutrients: fiber},
		{Name: "Soup", Calories: 300, Protein: 10, ServingCount: 2},
	}
	totals := ComputeTotals(entries)

	if totals.Calories != 800 {
		t.Errorf("expected 800 calories, got %v", totals.Calories)
	}
	if totals.Protein != 26 {
		t.Errorf("expected 26 protein, got %v", totals.Protein)
	}
	if totals.Entries != 2 {
		t.Errorf("expected 2 entries, got %d", totals.Entries)
	}
	if v, ok := totals.Micronutrients.Get(nutrients.Fiber); !ok || v != 3 {
		t.Errorf("expected fiber 3, got %v (defined=%v)", v, ok)
	}
	if _, ok := totals.Micronutrients.Get(nutrients.Sodium); ok {
		t.Error("sodium should be undefined when no entry defines it")
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals.Calories != 0 || totals.Entries != 0 || !totals.Micronutrients.IsEmpty() {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

func TestAddFoodAndTotalsForDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	for _, e := range []*storage.FoodEntry{
		{Name: "Oatmeal", MealType: storage.MealBreakfast, Calories: 200, ServingCount: 1},
		{Name: "Salmon", MealType: storage.MealDinner, Calories: 300, ServingCount: 2},
		{Name: "Yesterday", MealType: storage.MealLunch, Calories: 999, ServingCount: 1, Date: testNow.AddDate(0, 0, -1)},
	} {
		if err := svc.AddFood(ctx, e); err != nil {
			t.Fatalf("add %s: %v", e.Name, err)
		}
	}

	totals, err := svc.TotalsForDate(ctx, testNow)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Calories != 800 {
		t.Errorf("expected 800 calories, got %v", totals.Calories)
	}

	cal, err := svc.CaloriesForDate(ctx, testNow)
	if err != nil {
		t.Fatalf("calories: %v", err)
	}
	if cal != 800 {
		t.Errorf("expected stored sum 800, got %v", cal)
	}

	meals, err := svc.MealsForDate(ctx, testNow)
	if err != nil {
		t.Fatalf("meals: %v", err)
	}
	if len(meals) != 4 {
		t.Errorf("expected every meal type keyed, got %d", len(meals))
	}
	if len(meals[storage.MealBreakfast]) != 1 || len(meals[storage.MealDinner]) != 1 || len(meals[storage.MealLunch]) != 0 {
		t.Errorf("unexpected grouping: %+v", meals)
	}
}

func TestAddFoodValidation(t *testing.T) {
	svc := newTestService(nil)
	tests := []struct {
		name  string
		entry storage.FoodEntry
	}{
		{"empty name", storage.FoodEntry{MealType: storage.MealLunch}},
		{"bad meal", storage.FoodEntry{Name: "x", MealType: "brunch"}},
		{"negative servings", storage.FoodEntry{Name: "x", MealType: storage.MealLunch, ServingCount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			if err := svc.AddFood(context.Background(), &e); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestDeleteFoodTwice(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	e := &storage.FoodEntry{Name: "Apple", MealType: storage.MealSnack, Calories: 95, ServingCount: 1}
	if err := svc.AddFood(ctx, e); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteFood(ctx, e.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteFood(ctx, e.ID); err != nil {
		t.Fatalf("second delete should succeed, got %v", err)
	}
	entries, _ := svc.FoodsForDate(ctx, testNow)
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestUpdateMissingFood(t *testing.T) {
	svc := newTestService(nil)
	e := &storage.FoodEntry{Name: "Ghost", MealType: storage.MealSnack, ServingCount: 1}
	e.ID = uuid.New()
	if err := svc.UpdateFood(context.Background(), e); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupBarcodePrefersLocal(t *testing.T) {
	ctx := context.Background()
	barcodes := &fakeBarcodes{products: map[string]*remote.Product{
		"123": {Barcode: "123", Name: "Remote Bar", Calories: 210},
	}}
	svc := newTestService(barcodes)

	if err := svc.CreateCustomFood(ctx, &storage.CustomFood{Name: "Local Bar", Barcode: "123", Calories: 200}); err != nil {
		t.Fatalf("create custom: %v", err)
	}

	match, err := svc.LookupBarcode(ctx, "123")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if match.Source != SourceLocal || match.Food.Name != "Local Bar" {
		t.Errorf("expected local match, got %+v", match)
	}
	if barcodes.calls != 0 {
		t.Errorf("remote should not be called, got %d calls", barcodes.calls)
	}
}

func TestLookupBarcodeRemote(t *testing.T) {
	ctx := context.Background()
	barcodes := &fakeBarcodes{products: map[string]*remote.Product{
		"737628064502": {Barcode: "737628064502", Name: "Peanut Noodles", Calories: 380, Protein: 11},
	}}
	svc := newTestService(barcodes)

	match, err := svc.LookupBarcode(ctx, "737628064502")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if match.Source != SourceOpenFoodFacts || match.Food.Calories != 380 {
		t.Errorf("unexpected match %+v", match)
	}

	if _, err := svc.LookupBarcode(ctx, "000"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown barcode, got %v", err)
	}
}

func TestLookupBarcodeRemoteFailureIsNotFound(t *testing.T) {
	barcodes := &fakeBarcodes{err: &remote.FetchError{Source: "openfoodfacts", StatusCode: 502, Err: errors.New("bad gateway")}}
	svc := newTestService(barcodes)

	if _, err := svc.LookupBarcode(context.Background(), "123"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestImportBarcodeThenResolvesLocally(t *testing.T) {
	ctx := context.Background()
	barcodes := &fakeBarcodes{products: map[string]*remote.Product{
		"42": {Barcode: "42", Name: "Granola", Calories: 150},
	}}
	svc := newTestService(barcodes)

	food, err := svc.ImportBarcode(ctx, "42")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if food.ID == uuid.Nil {
		t.Error("imported food should have an ID")
	}

	match, err := svc.LookupBarcode(ctx, "42")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if match.Source != SourceLocal {
		t.Errorf("expected local after import, got %s", match.Source)
	}
	if barcodes.calls != 1 {
		t.Errorf("expected exactly one remote call, got %d", barcodes.calls)
	}
}

func TestLogCustomFood(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	custom := &storage.CustomFood{Name: "Protein Shake", Calories: 120, Protein: 24}
	if err := svc.CreateCustomFood(ctx, custom); err != nil {
		t.Fatalf("create custom: %v", err)
	}

	entry, err := svc.LogCustomFood(ctx, custom.ID, time.Time{}, storage.MealSnack, 2)
	if err != nil {
		t.Fatalf("log custom: %v", err)
	}
	if entry.TotalCalories() != 240 {
		t.Errorf("expected 240 calories, got %v", entry.TotalCalories())
	}
	if !entry.Date.Equal(testNow) {
		t.Errorf("expected entry dated now, got %v", entry.Date)
	}
}

func TestSearchHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)
	for _, name := range []string{"Greek Yogurt", "Frozen Yogurt", "Apple"} {
		if err := svc.AddFood(ctx, &storage.FoodEntry{Name: name, MealType: storage.MealSnack, ServingCount: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	names, err := svc.SearchHistory(ctx, "yogurt", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 matches, got %v", names)
	}
}
