package nutrition

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/profiles"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
)

// DefaultWaterOz is used when the profile has no water goal.
const DefaultWaterOz = 64

// Macro split applied when the profile leaves a macro goal at zero.
const (
	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

type ProfileSource interface {
	Profile(ctx context.Context) (storage.UserProfile, bool, error)
}

type FoodTotals interface {
	TotalsForDate(ctx context.Context, day time.Time) (foods.Totals, error)
}

type WaterTotals interface {
	WaterOzForDate(ctx context.Context, day time.Time) (float64, error)
}

// Service handles daily nutrition targets and progress.
type Service struct {
	profiles ProfileSource
	foods    FoodTotals
	water    WaterTotals
	now      func() time.Time
}

// NewService creates a new nutrition service.
func NewService(profiles ProfileSource, foods FoodTotals, water WaterTotals) *Service {
	return &Service{profiles: profiles, foods: foods, water: water, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TargetsFor derives targets from a profile. A zero calorie goal falls back
// to the rounded TDEE; zero macro goals are split from the calorie target.
func TargetsFor(p storage.UserProfile, today time.Time) Targets {
	t := Targets{
		CaloriesKcal: p.DailyCalorieGoal,
		ProteinG:     p.DailyProteinGoal,
		CarbsG:       p.DailyCarbsGoal,
		FatG:         p.DailyFatGoal,
		WaterOz:      units.CupsToOz(p.DailyWaterCups),
	}
	if t.CaloriesKcal <= 0 {
		t.CaloriesKcal = math.Round(profiles.TDEE(p, today))
	}
	if t.ProteinG <= 0 {
		t.ProteinG = math.Round(t.CaloriesKcal * proteinShare / kcalPerGramProtein)
	}
	if t.CarbsG <= 0 {
		t.CarbsG = math.Round(t.CaloriesKcal * carbsShare / kcalPerGramCarbs)
	}
	if t.FatG <= 0 {
		t.FatG = math.Round(t.CaloriesKcal * fatShare / kcalPerGramFat)
	}
	if t.WaterOz <= 0 {
		t.WaterOz = DefaultWaterOz
	}
	return t
}

// Targets returns today's targets and whether they come from the default
// profile.
func (s *Service) Targets(ctx context.Context) (Targets, bool, error) {
	p, isDefault, err := s.profiles.Profile(ctx)
	return TargetsFor(p, s.now()), isDefault, err
}

// Summary collects intake for day against the targets. Partial failures still
// return what could be read.
func (s *Service) Summary(ctx context.Context, day time.Time) (Summary, error) {
	sum := Summary{Date: codec.StartOfDay(day)}

	targets, _, terr := s.Targets(ctx)
	sum.Targets = targets

	totals, ferr := s.foods.TotalsForDate(ctx, day)
	sum.Consumed = totals

	water, werr := s.water.WaterOzForDate(ctx, day)
	sum.WaterOz = water

	return sum, errors.Join(terr, ferr, werr)
}

// Percent is consumed/target as a rounded percentage, not clamped.
func Percent(consumed, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(consumed / target * 100))
}
