package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// ExercisesStorage is the in-memory exercise log.
type ExercisesStorage struct {
	t *table[storage.ExerciseEntry]
}

func (s *ExercisesStorage) InsertExercise(ctx context.Context, entry *storage.ExerciseEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.t.insert(entry.ID, *entry)
}

func (s *ExercisesStorage) UpdateExercise(ctx context.Context, entry *storage.ExerciseEntry) error {
	s.t.update(entry.ID, *entry)
	return nil
}

func (s *ExercisesStorage) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *ExercisesStorage) GetExercise(ctx context.Context, id uuid.UUID) (*storage.ExerciseEntry, error) {
	e, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *ExercisesStorage) ListExercisesByDate(ctx context.Context, day time.Time) ([]storage.ExerciseEntry, error) {
	from, to := codec.DayBounds(day)
	return s.ListExercisesInRange(ctx, from, to)
}

func (s *ExercisesStorage) ListExercisesInRange(ctx context.Context, from, to time.Time) ([]storage.ExerciseEntry, error) {
	list := s.t.filter(func(e storage.ExerciseEntry) bool { return inRange(e.Date, from, to) })
	newestFirst(list, func(e storage.ExerciseEntry) time.Time { return e.Date })
	return list, nil
}

func (s *ExercisesStorage) ListExercisesByCategory(ctx context.Context, category string) ([]storage.ExerciseEntry, error) {
	list := s.t.filter(func(e storage.ExerciseEntry) bool { return e.Category == category })
	newestFirst(list, func(e storage.ExerciseEntry) time.Time { return e.Date })
	return list, nil
}

func (s *ExercisesStorage) SumDurationInRange(ctx context.Context, from, to time.Time) (int, error) {
	list, _ := s.ListExercisesInRange(ctx, from, to)
	total := 0
	for _, e := range list {
		total += e.DurationMinutes
	}
	return total, nil
}

func (s *ExercisesStorage) SumCaloriesBurnedInRange(ctx context.Context, from, to time.Time) (float64, error) {
	list, _ := s.ListExercisesInRange(ctx, from, to)
	var total float64
	for _, e := range list {
		total += e.CaloriesBurned
	}
	return total, nil
}

func (s *ExercisesStorage) CountExercisesInRange(ctx context.Context, from, to time.Time) (int, error) {
	list, _ := s.ListExercisesInRange(ctx, from, to)
	return len(list), nil
}

// WaterStorage is the in-memory water log.
type WaterStorage struct {
	t *table[storage.WaterEntry]
}

func (s *WaterStorage) InsertWater(ctx context.Context, entry *storage.WaterEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.t.insert(entry.ID, *entry)
}

func (s *WaterStorage) DeleteWater(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *WaterStorage) ListWaterByDate(ctx context.Context, day time.Time) ([]storage.WaterEntry, error) {
	from, to := codec.DayBounds(day)
	return s.ListWaterInRange(ctx, from, to)
}

func (s *WaterStorage) ListWaterInRange(ctx context.Context, from, to time.Time) ([]storage.WaterEntry, error) {
	list := s.t.filter(func(w storage.WaterEntry) bool { return inRange(w.Timestamp, from, to) })
	newestFirst(list, func(w storage.WaterEntry) time.Time { return w.Timestamp })
	return list, nil
}

func (s *WaterStorage) SumWaterForDate(ctx context.Context, day time.Time) (float64, error) {
	list, _ := s.ListWaterByDate(ctx, day)
	var total float64
	for _, w := range list {
		total += w.Amount
	}
	return total, nil
}

func (s *WaterStorage) DeleteWaterForDate(ctx context.Context, day time.Time) error {
	from, to := codec.DayBounds(day)
	s.t.deleteWhere(func(w storage.WaterEntry) bool { return inRange(w.Timestamp, from, to) })
	return nil
}

// SupplementsStorage is the in-memory supplement log.
type SupplementsStorage struct {
	t *table[storage.SupplementEntry]
}

func (s *SupplementsStorage) InsertSupplement(ctx context.Context, entry *storage.SupplementEntry) error {
	if err := codec.CheckNutrients(entry.Nutrients); err != nil {
		return storage.Wrap("insert supplement", err)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.t.insert(entry.ID, *entry)
}

func (s *SupplementsStorage) UpdateSupplement(ctx context.Context, entry *storage.SupplementEntry) error {
	if err := codec.CheckNutrients(entry.Nutrients); err != nil {
		return storage.Wrap("update supplement", err)
	}
	s.t.update(entry.ID, *entry)
	return nil
}

func (s *SupplementsStorage) DeleteSupplement(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *SupplementsStorage) ListSupplementsByDate(ctx context.Context, day time.Time) ([]storage.SupplementEntry, error) {
	from, to := codec.DayBounds(day)
	return s.ListSupplementsInRange(ctx, from, to)
}

func (s *SupplementsStorage) ListSupplementsInRange(ctx context.Context, from, to time.Time) ([]storage.SupplementEntry, error) {
	list := s.t.filter(func(e storage.SupplementEntry) bool { return inRange(e.Date, from, to) })
	newestFirst(list, func(e storage.SupplementEntry) time.Time { return e.Date })
	return list, nil
}

func (s *SupplementsStorage) DistinctSupplementNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	names := []string{}
	for _, e := range s.t.filter(nil) {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// WeightsStorage is the in-memory weight log.
type WeightsStorage struct {
	t *table[storage.WeightEntry]
}

func (s *WeightsStorage) InsertWeight(ctx context.Context, entry *storage.WeightEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.t.insert(entry.ID, *entry)
}

func (s *WeightsStorage) UpdateWeight(ctx context.Context, entry *storage.WeightEntry) error {
	s.t.update(entry.ID, *entry)
	return nil
}

func (s *WeightsStorage) DeleteWeight(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}

func (s *WeightsStorage) LatestWeight(ctx context.Context) (*storage.WeightEntry, error) {
	list, _ := s.ListWeights(ctx)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *WeightsStorage) WeightOnDate(ctx context.Context, day time.Time) (*storage.WeightEntry, error) {
	from, to := codec.DayBounds(day)
	list, _ := s.ListWeightsInRange(ctx, from, to)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *WeightsStorage) ListWeights(ctx context.Context) ([]storage.WeightEntry, error) {
	list := s.t.filter(nil)
	newestFirst(list, func(w storage.WeightEntry) time.Time { return w.Date })
	return list, nil
}

func (s *WeightsStorage) ListWeightsInRange(ctx context.Context, from, to time.Time) ([]storage.WeightEntry, error) {
	list := s.t.filter(func(w storage.WeightEntry) bool { return inRange(w.Date, from, to) })
	newestFirst(list, func(w storage.WeightEntry) time.Time { return w.Date })
	return list, nil
}
