package foods

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/remote"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// ErrInvalidEntry marks input the service refuses to store.
var ErrInvalidEntry = errors.New("invalid food entry")

const defaultHistoryLimit = 10

// BarcodeSource resolves barcodes that are not saved locally.
type BarcodeSource interface {
	LookupBarcode(ctx context.Context, barcode string) (*remote.Product, error)
}

type Service struct {
	foods    storage.FoodStorage
	custom   storage.CustomFoodStorage
	barcodes BarcodeSource
	now      func() time.Time
}

// NewService creates the food diary service. barcodes may be nil, in which
// case only locally saved custom foods resolve.
func NewService(foods storage.FoodStorage, custom storage.CustomFoodStorage, barcodes BarcodeSource) *Service {
	return &Service{
		foods:    foods,
		custom:   custom,
		barcodes: barcodes,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func checkEntry(e *storage.FoodEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if !e.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidEntry, e.MealType)
	}
	if e.ServingCount < 0 {
		return fmt.Errorf("%w: serving count must not be negative", ErrInvalidEntry)
	}
	return nil
}

// AddFood logs a food. A zero ID or date is filled in.
func (s *Service) AddFood(ctx context.Context, e *storage.FoodEntry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	return s.foods.InsertFood(ctx, e)
}

// UpdateFood replaces a logged food. It returns storage.ErrNotFound when the
// entry does not exist.
func (s *Service) UpdateFood(ctx context.Context, e *storage.FoodEntry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	existing, err := s.foods.GetFood(ctx, e.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return storage.ErrNotFound
	}
	if e.Date.IsZero() {
		e.Date = existing.Date
	}
	e.CreatedAt = existing.CreatedAt
	return s.foods.UpdateFood(ctx, e)
}

// DeleteFood removes an entry; deleting an absent entry succeeds.
func (s *Service) DeleteFood(ctx context.Context, id uuid.UUID) error {
	return s.foods.DeleteFood(ctx, id)
}

func (s *Service) GetFood(ctx context.Context, id uuid.UUID) (*storage.FoodEntry, error) {
	return s.foods.GetFood(ctx, id)
}

// FoodsForDate returns the day's entries, newest first. On failure the error
// is logged and an empty slice is returned alongside it.
func (s *Service) FoodsForDate(ctx context.Context, day time.Time) ([]storage.FoodEntry, error) {
	entries, err := s.foods.ListFoodsByDate(ctx, day)
	if err != nil {
		log.Printf("WARN foods: list date=%s: %v", codec.FormatDay(day), err)
		return []storage.FoodEntry{}, err
	}
	return entries, nil
}

func (s *Service) FoodsInRange(ctx context.Context, from, to time.Time) ([]storage.FoodEntry, error) {
	entries, err := s.foods.ListFoodsInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN foods: list range from=%s to=%s: %v", codec.FormatDay(from), codec.FormatDay(to), err)
		return []storage.FoodEntry{}, err
	}
	return entries, nil
}

// MealsForDate groups the day's entries by meal type.
func (s *Service) MealsForDate(ctx context.Context, day time.Time) (map[storage.MealType][]storage.FoodEntry, error) {
	entries, err := s.FoodsForDate(ctx, day)
	return GroupByMeal(entries), err
}

func (s *Service) TotalsForDate(ctx context.Context, day time.Time) (Totals, error) {
	entries, err := s.FoodsForDate(ctx, day)
	return ComputeTotals(entries), err
}

func (s *Service) CaloriesForDate(ctx context.Context, day time.Time) (float64, error) {
	total, err := s.foods.SumCaloriesForDate(ctx, day)
	if err != nil {
		log.Printf("WARN foods: sum calories date=%s: %v", codec.FormatDay(day), err)
		return 0, err
	}
	return total, nil
}

// SearchHistory returns previously logged names containing query.
func (s *Service) SearchHistory(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	names, err := s.foods.SearchFoodHistory(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		log.Printf("WARN foods: search history q=%q: %v", query, err)
		return []string{}, err
	}
	return names, nil
}

func (s *Service) ClearDate(ctx context.Context, day time.Time) error {
	return s.foods.DeleteFoodsForDate(ctx, day)
}

// GroupByMeal buckets entries by meal type. Every meal type has a key, and
// order within a bucket follows the input.
func GroupByMeal(entries []storage.FoodEntry) map[storage.MealType][]storage.FoodEntry {
	out := make(map[storage.MealType][]storage.FoodEntry, len(storage.MealTypes))
	for _, m := range storage.MealTypes {
		out[m] = []storage.FoodEntry{}
	}
	for _, e := range entries {
		out[e.MealType] = append(out[e.MealType], e)
	}
	return out
}

// ComputeTotals sums nutrient × serving count. A micronutrient is present in
// the result only if some entry defines it.
func ComputeTotals(entries []storage.FoodEntry) Totals {
	var (
		t   Totals
		acc nutrients.Accumulator
	)
	for _, e := range entries {
		t.Calories += e.Calories * e.ServingCount
		t.Protein += e.Protein * e.ServingCount
		t.Carbs += e.Carbs * e.ServingCount
		t.Fat += e.Fat * e.ServingCount
		acc.Add(e.Micronutrients.Scaled(e.ServingCount))
	}
	t.Micronutrients = acc.Total()
	t.Entries = len(entries)
	return t
}

// MARK: - Custom foods

func checkCustomFood(f *storage.CustomFood) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	return nil
}

func (s *Service) CreateCustomFood(ctx context.Context, f *storage.CustomFood) error {
	if err := checkCustomFood(f); err != nil {
		return err
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.Barcode = strings.TrimSpace(f.Barcode)
	return s.custom.InsertCustomFood(ctx, f)
}

func (s *Service) UpdateCustomFood(ctx context.Context, f *storage.CustomFood) error {
	if err := checkCustomFood(f); err != nil {
		return err
	}
	existing, err := s.custom.GetCustomFood(ctx, f.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return storage.ErrNotFound
	}
	f.CreatedAt = existing.CreatedAt
	f.Barcode = strings.TrimSpace(f.Barcode)
	return s.custom.UpdateCustomFood(ctx, f)
}

func (s *Service) DeleteCustomFood(ctx context.Context, id uuid.UUID) error {
	return s.custom.DeleteCustomFood(ctx, id)
}

func (s *Service) GetCustomFood(ctx context.Context, id uuid.UUID) (*storage.CustomFood, error) {
	return s.custom.GetCustomFood(ctx, id)
}

// SearchCustomFoods lists all custom foods for an empty query.
func (s *Service) SearchCustomFoods(ctx context.Context, query string) ([]storage.CustomFood, error) {
	var (
		foods []storage.CustomFood
		err   error
	)
	if q := strings.TrimSpace(query); q == "" {
		foods, err = s.custom.ListCustomFoods(ctx)
	} else {
		foods, err = s.custom.SearchCustomFoods(ctx, q)
	}
	if err != nil {
		log.Printf("WARN foods: search custom q=%q: %v", query, err)
		return []storage.CustomFood{}, err
	}
	return foods, nil
}

// LookupBarcode checks saved custom foods first, then the remote product
// database. Remote failures are logged and reported as storage.ErrNotFound.
func (s *Service) LookupBarcode(ctx context.Context, barcode string) (*BarcodeMatch, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrInvalidEntry)
	}

	local, err := s.custom.GetCustomFoodByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if local != nil {
		return &BarcodeMatch{Source: SourceLocal, Food: *local}, nil
	}

	if s.barcodes == nil {
		return nil, storage.ErrNotFound
	}
	product, err := s.barcodes.LookupBarcode(ctx, barcode)
	if err != nil {
		if !errors.Is(err, remote.ErrNotFound) {
			log.Printf("WARN foods.barcode: lookup code=%s: %v", barcode, err)
		}
		return nil, storage.ErrNotFound
	}
	return &BarcodeMatch{Source: SourceOpenFoodFacts, Food: productToCustomFood(product)}, nil
}

// ImportBarcode saves a remote product as a custom food so later lookups
// resolve locally. A barcode that is already saved is returned as is.
func (s *Service) ImportBarcode(ctx context.Context, barcode string) (*storage.CustomFood, error) {
	match, err := s.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	food := match.Food
	if match.Source == SourceLocal {
		return &food, nil
	}
	if err := s.CreateCustomFood(ctx, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

// LogCustomFood adds servings of a saved custom food to the diary.
func (s *Service) LogCustomFood(ctx context.Context, customID uuid.UUID, day time.Time, meal storage.MealType, servings float64) (*storage.FoodEntry, error) {
	food, err := s.custom.GetCustomFood(ctx, customID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, storage.ErrNotFound
	}
	if day.IsZero() {
		day = s.now()
	}
	entry := &storage.FoodEntry{
		Name:           food.Name,
		Brand:          food.Brand,
		Barcode:        food.Barcode,
		Date:           day,
		MealType:       meal,
		ServingSize:    food.ServingSize,
		ServingUnit:    food.ServingUnit,
		ServingCount:   servings,
		Calories:       food.Calories,
		Protein:        food.Protein,
		Carbs:          food.Carbs,
		Fat:            food.Fat,
		Micronutrients: food.Micronutrients.Scaled(1),
	}
	if err := s.AddFood(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func productToCustomFood(p *remote.Product) storage.CustomFood {
	return storage.CustomFood{
		Name:           p.Name,
		Brand:          p.Brand,
		Barcode:        p.Barcode,
		ServingSize:    p.ServingSize,
		ServingUnit:    p.ServingUnit,
		Calories:       p.Calories,
		Protein:        p.Protein,
		Carbs:          p.Carbs,
		Fat:            p.Fat,
		Micronutrients: p.Micronutrients,
	}
}
