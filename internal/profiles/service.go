package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
)

var ErrInvalidProfile = errors.New("invalid profile")

type Service struct {
	profiles storage.ProfileStorage
	now      func() time.Time
}

func NewService(profiles storage.ProfileStorage) *Service {
	return &Service{profiles: profiles, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Profile returns the saved profile, or the default one with isDefault set
// when nothing has been saved. A storage failure also yields the default.
func (s *Service) Profile(ctx context.Context) (storage.UserProfile, bool, error) {
	p, err := s.profiles.GetProfile(ctx)
	if err != nil {
		log.Printf("WARN profiles: get: %v", err)
		return storage.DefaultProfile(), true, err
	}
	if p == nil {
		return storage.DefaultProfile(), true, nil
	}
	return *p, false, nil
}

func checkProfile(p *storage.UserProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return fmt.Errorf("%w: height and weight must be positive", ErrInvalidProfile)
	}
	if !KnownActivityLevel(p.ActivityLevel) {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, p.ActivityLevel)
	}
	switch p.BMRFormula {
	case "", FormulaMifflin, FormulaHarrisBenedict:
	default:
		return fmt.Errorf("%w: unknown bmr formula %q", ErrInvalidProfile, p.BMRFormula)
	}
	return nil
}

// SaveProfile replaces the singleton profile.
func (s *Service) SaveProfile(ctx context.Context, p *storage.UserProfile) error {
	if err := checkProfile(p); err != nil {
		return err
	}
	p.ID = storage.ProfileID
	p.Name = strings.TrimSpace(p.Name)
	if p.BMRFormula == "" {
		p.BMRFormula = FormulaMifflin
	}
	p.UpdatedAt = s.now()
	return s.profiles.SaveProfile(ctx, p)
}

// Patch applies fn to the current profile (saved or default) and stores it.
func (s *Service) Patch(ctx context.Context, fn func(p *storage.UserProfile)) (storage.UserProfile, error) {
	p, _, err := s.Profile(ctx)
	if err != nil {
		return p, err
	}
	fn(&p)
	if err := s.SaveProfile(ctx, &p); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Service) UpdateDailyCalorieGoal(ctx context.Context, calories float64) error {
	_, err := s.Patch(ctx, func(p *storage.UserProfile) { p.DailyCalorieGoal = calories })
	return err
}

func (s *Service) UpdateGoalWeight(ctx context.Context, kg float64) error {
	_, err := s.Patch(ctx, func(p *storage.UserProfile) { p.GoalWeightKg = kg })
	return err
}

func (s *Service) UpdateActivityLevel(ctx context.Context, level string) error {
	_, err := s.Patch(ctx, func(p *storage.UserProfile) { p.ActivityLevel = level })
	return err
}

// Energy is the age, BMR and TDEE of a profile at one point in time.
type Energy struct {
	Age        int
	Formula    string
	BMR        float64
	Multiplier float64
	TDEE       float64
}

func (s *Service) Energy(ctx context.Context) (Energy, storage.UserProfile, error) {
	p, _, err := s.Profile(ctx)
	return EnergyOf(p, s.now()), p, err
}

func EnergyOf(p storage.UserProfile, today time.Time) Energy {
	return Energy{
		Age:        Age(p.BirthDate, today),
		Formula:    formulaName(p),
		BMR:        BMR(p, today),
		Multiplier: ActivityMultiplier(p.ActivityLevel),
		TDEE:       TDEE(p, today),
	}
}
