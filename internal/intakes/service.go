package intakes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/google/uuid"
)

var ErrInvalidIntake = errors.New("invalid intake")

type Service struct {
	water       storage.WaterStorage
	supplements storage.SupplementStorage
	now         func() time.Time
}

func NewService(water storage.WaterStorage, supplements storage.SupplementStorage) *Service {
	return &Service{
		water:       water,
		supplements: supplements,
		now:         time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// MARK: - Water

// AddWater logs amount in unit at the current time.
func (s *Service) AddWater(ctx context.Context, amount float64, unit string) (*storage.WaterEntry, error) {
	e := &storage.WaterEntry{Amount: amount, Unit: unit}
	if err := s.AddWaterEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) AddWaterEntry(ctx context.Context, e *storage.WaterEntry) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: water amount must be positive", ErrInvalidIntake)
	}
	if e.Unit == "" {
		e.Unit = units.WaterOz
	}
	if !units.IsWaterUnit(e.Unit) {
		return fmt.Errorf("%w: unknown water unit %q", ErrInvalidIntake, e.Unit)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	return s.water.InsertWater(ctx, e)
}

// AddCup logs one 8 oz cup.
func (s *Service) AddCup(ctx context.Context) (*storage.WaterEntry, error) {
	return s.AddWater(ctx, CupOz, units.WaterOz)
}

func (s *Service) DeleteWater(ctx context.Context, id uuid.UUID) error {
	return s.water.DeleteWater(ctx, id)
}

// RemoveLastWater deletes the newest water entry of the day. It reports
// whether anything was removed.
func (s *Service) RemoveLastWater(ctx context.Context, day time.Time) (bool, error) {
	entries, err := s.water.ListWaterByDate(ctx, day)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	if err := s.water.DeleteWater(ctx, entries[0].ID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ClearWater(ctx context.Context, day time.Time) error {
	return s.water.DeleteWaterForDate(ctx, day)
}

// WaterForDate returns the day's entries, newest first.
func (s *Service) WaterForDate(ctx context.Context, day time.Time) ([]storage.WaterEntry, error) {
	entries, err := s.water.ListWaterByDate(ctx, day)
	if err != nil {
		log.Printf("WARN intakes: list water date=%s: %v", codec.FormatDay(day), err)
		return []storage.WaterEntry{}, err
	}
	return entries, nil
}

// WaterOzForDate sums the day's water with every entry converted to oz.
func (s *Service) WaterOzForDate(ctx context.Context, day time.Time) (float64, error) {
	entries, err := s.WaterForDate(ctx, day)
	return TotalOz(entries), err
}

// TotalOz normalizes entries to ounces before summing.
func TotalOz(entries []storage.WaterEntry) float64 {
	var total float64
	for _, e := range entries {
		total += units.WaterToOz(e.Amount, e.Unit)
	}
	return total
}

// MARK: - Supplements

func checkSupplement(e *storage.SupplementEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: supplement name is required", ErrInvalidIntake)
	}
	for k, v := range e.Nutrients {
		if err := codec.CheckNutrientKey(k); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidIntake, err)
		}
		if v < 0 {
			return fmt.Errorf("%w: nutrient %s must not be negative", ErrInvalidIntake, k)
		}
	}
	return nil
}

func (s *Service) AddSupplement(ctx context.Context, e *storage.SupplementEntry) error {
	if err := checkSupplement(e); err != nil {
		return err
	}
	e.Name = strings.TrimSpace(e.Name)
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	return s.supplements.InsertSupplement(ctx, e)
}

// UpdateSupplement replaces a logged supplement; updating an unknown id is a
// no-op.
func (s *Service) UpdateSupplement(ctx context.Context, e *storage.SupplementEntry) error {
	if err := checkSupplement(e); err != nil {
		return err
	}
	e.Name = strings.TrimSpace(e.Name)
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	return s.supplements.UpdateSupplement(ctx, e)
}

func (s *Service) DeleteSupplement(ctx context.Context, id uuid.UUID) error {
	return s.supplements.DeleteSupplement(ctx, id)
}

func (s *Service) SupplementsForDate(ctx context.Context, day time.Time) ([]storage.SupplementEntry, error) {
	list, err := s.supplements.ListSupplementsByDate(ctx, day)
	if err != nil {
		log.Printf("WARN intakes: list supplements date=%s: %v", codec.FormatDay(day), err)
		return []storage.SupplementEntry{}, err
	}
	return list, nil
}

// SupplementNames returns each supplement name ever logged, once.
func (s *Service) SupplementNames(ctx context.Context) ([]string, error) {
	names, err := s.supplements.DistinctSupplementNames(ctx)
	if err != nil {
		log.Printf("WARN intakes: supplement names: %v", err)
		return []string{}, err
	}
	return names, nil
}

// SupplementNutrients sums the nutrient panels of entries.
func SupplementNutrients(entries []storage.SupplementEntry) nutrients.Panel {
	var acc nutrients.Accumulator
	for _, e := range entries {
		acc.Add(e.Panel())
	}
	return acc.Total()
}

// Daily collects water and supplements for a day.
func (s *Service) Daily(ctx context.Context, day time.Time) (Daily, error) {
	d := Daily{Date: codec.StartOfDay(day)}

	water, werr := s.WaterForDate(ctx, day)
	d.Water = water
	d.WaterOz = TotalOz(water)

	sups, serr := s.SupplementsForDate(ctx, day)
	d.Supplements = sups
	d.SupplementNutrients = SupplementNutrients(sups)

	return d, errors.Join(werr, serr)
}
