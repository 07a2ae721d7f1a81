package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// FoodsStorage is the in-memory food diary.
type FoodsStorage struct {
	t *table[storage.FoodEntry]
}

func (s *FoodsStorage) InsertFood(ctx context.Context, entry *storage.FoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.t.insert(entry.ID, *entry)
}

func (s *FoodsStorage) UpdateFood(ctx context.Context, entry *storage.FoodEntry) error {
	s.t.update(entry.ID, *entry)
	return nil
}

func (s *FoodsStorage) DeleteFood(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *FoodsStorage) GetFood(ctx context.Context, id uuid.UUID) (*storage.FoodEntry, error) {
	f, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *FoodsStorage) ListFoodsByDate(ctx context.Context, day time.Time) ([]storage.FoodEntry, error) {
	from, to := codec.DayBounds(day)
	return s.ListFoodsInRange(ctx, from, to)
}

func (s *FoodsStorage) ListFoodsInRange(ctx context.Context, from, to time.Time) ([]storage.FoodEntry, error) {
	list := s.t.filter(func(f storage.FoodEntry) bool { return inRange(f.Date, from, to) })
	newestFirst(list, func(f storage.FoodEntry) time.Time { return f.Date })
	return list, nil
}

func (s *FoodsStorage) SumCaloriesForDate(ctx context.Context, day time.Time) (float64, error) {
	list, _ := s.ListFoodsByDate(ctx, day)
	var total float64
	for _, f := range list {
		total += f.TotalCalories()
	}
	return total, nil
}

func (s *FoodsStorage) SearchFoodHistory(ctx context.Context, query string, limit int) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	list := s.t.filter(func(f storage.FoodEntry) bool {
		return strings.Contains(strings.ToLower(f.Name), q)
	})

	seen := make(map[string]bool)
	names := make([]string, 0, len(list))
	for _, f := range list {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		names = append(names, f.Name)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (s *FoodsStorage) DeleteFoodsForDate(ctx context.Context, day time.Time) error {
	from, to := codec.DayBounds(day)
	s.t.deleteWhere(func(f storage.FoodEntry) bool { return inRange(f.Date, from, to) })
	return nil
}

// CustomFoodsStorage holds custom foods in memory.
type CustomFoodsStorage struct {
	t *table[storage.CustomFood]
}

func (s *CustomFoodsStorage) InsertCustomFood(ctx context.Context, food *storage.CustomFood) error {
	if food.ID == uuid.Nil {
		food.ID = uuid.New()
	}
	now := time.Now()
	if food.CreatedAt.IsZero() {
		food.CreatedAt = now
	}
	food.UpdatedAt = now
	return s.t.insert(food.ID, *food)
}

func (s *CustomFoodsStorage) UpdateCustomFood(ctx context.Context, food *storage.CustomFood) error {
	food.UpdatedAt = time.Now()
	s.t.update(food.ID, *food)
	return nil
}

func (s *CustomFoodsStorage) DeleteCustomFood(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *CustomFoodsStorage) GetCustomFood(ctx context.Context, id uuid.UUID) (*storage.CustomFood, error) {
	f, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *CustomFoodsStorage) GetCustomFoodByBarcode(ctx context.Context, barcode string) (*storage.CustomFood, error) {
	if barcode == "" {
		return nil, nil
	}
	list := s.t.filter(func(f storage.CustomFood) bool { return f.Barcode == barcode })
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *CustomFoodsStorage) SearchCustomFoods(ctx context.Context, query string) ([]storage.CustomFood, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	list := s.t.filter(func(f storage.CustomFood) bool {
		return strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Brand), q)
	})
	sortByName(list, func(f storage.CustomFood) string { return f.Name })
	return list, nil
}

func (s *CustomFoodsStorage) ListCustomFoods(ctx context.Context) ([]storage.CustomFood, error) {
	list := s.t.filter(nil)
	sortByName(list, func(f storage.CustomFood) string { return f.Name })
	return list, nil
}

func sortByName[T any](list []T, name func(T) string) {
	sort.SliceStable(list, func(i, j int) bool { return name(list[i]) < name(list[j]) })
}
