package weight

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

var ErrInvalidEntry = errors.New("invalid weight entry")

const defaultTrendDays = 30

type Service struct {
	weights storage.WeightStorage
	now     func() time.Time
}

func NewService(weights storage.WeightStorage) *Service {
	return &Service{weights: weights, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) AddWeight(ctx context.Context, e *storage.WeightEntry) error {
	if e.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidEntry)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := s.now()
	if e.Date.IsZero() {
		e.Date = now
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	return s.weights.InsertWeight(ctx, e)
}

func (s *Service) UpdateWeight(ctx context.Context, e *storage.WeightEntry) error {
	if e.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidEntry)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	return s.weights.UpdateWeight(ctx, e)
}

func (s *Service) DeleteWeight(ctx context.Context, id uuid.UUID) error {
	return s.weights.DeleteWeight(ctx, id)
}

// Latest returns the most recent weigh-in, or nil.
func (s *Service) Latest(ctx context.Context) (*storage.WeightEntry, error) {
	w, err := s.weights.LatestWeight(ctx)
	if err != nil {
		log.Printf("WARN weight: latest: %v", err)
		return nil, err
	}
	return w, nil
}

// History returns every weigh-in, newest first.
func (s *Service) History(ctx context.Context) ([]storage.WeightEntry, error) {
	list, err := s.weights.ListWeights(ctx)
	if err != nil {
		log.Printf("WARN weight: history: %v", err)
		return []storage.WeightEntry{}, err
	}
	return list, nil
}

// Statistics computes current, highest, lowest and mean weight.
func (s *Service) Statistics(ctx context.Context) (Stats, error) {
	list, err := s.History(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(list), nil
}

// ComputeStats expects entries newest first; the first one is current.
func ComputeStats(entries []storage.WeightEntry) Stats {
	if len(entries) == 0 {
		return Stats{}
	}
	st := Stats{
		Current: entries[0].Weight,
		Highest: entries[0].Weight,
		Lowest:  entries[0].Weight,
		Count:   len(entries),
	}
	var sum float64
	for _, e := range entries {
		sum += e.Weight
		if e.Weight > st.Highest {
			st.Highest = e.Weight
		}
		if e.Weight < st.Lowest {
			st.Lowest = e.Weight
		}
	}
	st.Average = sum / float64(len(entries))
	return st
}

// MonthlyProgress is the latest weight minus the weigh-in recorded exactly one
// calendar month before the latest's date, or 0 when either is missing.
func (s *Service) MonthlyProgress(ctx context.Context) (float64, error) {
	latest, err := s.Latest(ctx)
	if err != nil || latest == nil {
		return 0, err
	}
	prior, err := s.weights.WeightOnDate(ctx, latest.Date.AddDate(0, -1, 0))
	if err != nil {
		log.Printf("WARN weight: monthly progress: %v", err)
		return 0, err
	}
	if prior == nil {
		return 0, nil
	}
	return latest.Weight - prior.Weight, nil
}

// Trend returns weigh-ins from the last days days, oldest first.
func (s *Service) Trend(ctx context.Context, days int) ([]Point, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	from, to := s.window(days)
	list, err := s.weights.ListWeightsInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN weight: trend days=%d: %v", days, err)
		return []Point{}, err
	}
	points := make([]Point, 0, len(list))
	for _, e := range list {
		points = append(points, Point{Date: e.Date, Weight: e.Weight})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// WeeklyAverage is the mean of the last seven days, 0 when empty.
func (s *Service) WeeklyAverage(ctx context.Context) (float64, error) {
	from, to := s.window(7)
	list, err := s.weights.ListWeightsInRange(ctx, from, to)
	if err != nil {
		log.Printf("WARN weight: weekly average: %v", err)
		return 0, err
	}
	return ComputeStats(list).Average, nil
}

// window spans the given number of days back from today, today included.
func (s *Service) window(days int) (time.Time, time.Time) {
	_, end := codec.DayBounds(s.now())
	return end.AddDate(0, 0, -days-1), end
}
