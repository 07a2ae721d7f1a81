package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FlagLoaded is the meta flag recording that the sample data was written.
const FlagLoaded = "seed.sample_data_loaded"

//go:embed dataset.yaml
var embeddedDataset []byte

type dataset struct {
	Foods       []foodRow       `yaml:"foods"`
	Water       []waterRow      `yaml:"water"`
	Exercise    []exerciseRow   `yaml:"exercise"`
	WeightsLbs  []weightRow     `yaml:"weights_lbs"`
	Supplements []supplementRow `yaml:"supplements"`
	Goals       []goalRow       `yaml:"goals"`
	Recipes     []recipeRow     `yaml:"recipes"`
}

// when places a row relative to the load day.
type when struct {
	DaysAgo int    `yaml:"days_ago"`
	At      string `yaml:"at"`
}

type foodRow struct {
	when           `yaml:",inline"`
	Name           string             `yaml:"name"`
	Meal           string             `yaml:"meal"`
	ServingSize    float64            `yaml:"serving_size"`
	ServingUnit    string             `yaml:"serving_unit"`
	Calories       float64            `yaml:"calories"`
	Protein        float64            `yaml:"protein"`
	Carbs          float64            `yaml:"carbs"`
	Fat            float64            `yaml:"fat"`
	Micronutrients map[string]float64 `yaml:"micronutrients"`
}

type waterRow struct {
	when   `yaml:",inline"`
	Amount float64 `yaml:"amount"`
	Unit   string  `yaml:"unit"`
}

type exerciseRow struct {
	when      `yaml:",inline"`
	Name      string  `yaml:"name"`
	Category  string  `yaml:"category"`
	Type      string  `yaml:"type"`
	Minutes   int     `yaml:"minutes"`
	Calories  float64 `yaml:"calories"`
	Intensity string  `yaml:"intensity"`
}

type weightRow struct {
	when   `yaml:",inline"`
	Weight float64 `yaml:"weight"`
}

type supplementRow struct {
	when        `yaml:",inline"`
	Name        string             `yaml:"name"`
	Brand       string             `yaml:"brand"`
	ServingSize float64            `yaml:"serving_size"`
	ServingUnit string             `yaml:"serving_unit"`
	Nutrients   map[string]float64 `yaml:"nutrients"`
}

type goalRow struct {
	Type         string  `yaml:"type"`
	Title        string  `yaml:"title"`
	Target       float64 `yaml:"target"`
	Current      float64 `yaml:"current"`
	Unit         string  `yaml:"unit"`
	DeadlineDays int     `yaml:"deadline_days"`
}

type recipeRow struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Servings     int      `yaml:"servings"`
	PrepMinutes  int      `yaml:"prep_minutes"`
	CookMinutes  int      `yaml:"cook_minutes"`
	Calories     float64  `yaml:"calories"`
	Protein      float64  `yaml:"protein"`
	Carbs        float64  `yaml:"carbs"`
	Fat          float64  `yaml:"fat"`
	Ingredients  []string `yaml:"ingredients"`
	Instructions []string `yaml:"instructions"`
	Tags         []string `yaml:"tags"`
	Favorite     bool     `yaml:"favorite"`
}

// Result counts what Load wrote.
type Result struct {
	Loaded      bool
	Foods       int
	Water       int
	Exercise    int
	Weights     int
	Supplements int
	Goals       int
	Recipes     int
}

// Loader writes the embedded sample diary into a store once.
type Loader struct {
	store storage.Store
	data  []byte
	now   func() time.Time
}

func NewLoader(store storage.Store) *Loader {
	return &Loader{store: store, data: embeddedDataset, now: time.Now}
}

func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// WithDataset replaces the embedded YAML.
func (l *Loader) WithDataset(data []byte) *Loader {
	l.data = data
	return l
}

// Load writes the dataset unless the loaded flag is already set. The flag is
// set only after every row was written, so a failed load is retried on the
// next call.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	loaded, err := l.store.Meta().GetFlag(ctx, FlagLoaded)
	if err != nil {
		return Result{}, fmt.Errorf("read seed flag: %w", err)
	}
	if loaded {
		return Result{}, nil
	}

	var ds dataset
	if err := yaml.Unmarshal(l.data, &ds); err != nil {
		return Result{}, fmt.Errorf("parse seed dataset: %w", err)
	}

	res, err := l.write(ctx, ds, codec.StartOfDay(l.now()))
	if err != nil {
		return res, err
	}
	if err := l.store.Meta().SetFlag(ctx, FlagLoaded, true); err != nil {
		return res, fmt.Errorf("set seed flag: %w", err)
	}
	res.Loaded = true
	log.Printf("INFO seed: loaded foods=%d water=%d exercise=%d weights=%d supplements=%d goals=%d recipes=%d",
		res.Foods, res.Water, res.Exercise, res.Weights, res.Supplements, res.Goals, res.Recipes)
	return res, nil
}

func (l *Loader) write(ctx context.Context, ds dataset, today time.Time) (Result, error) {
	var res Result

	for _, r := range ds.Foods {
		at, err := r.resolve(today)
		if err != nil {
			return res, err
		}
		e := &storage.FoodEntry{
			ID:             uuid.New(),
			Name:           r.Name,
			Date:           at,
			MealType:       storage.MealType(r.Meal),
			ServingSize:    r.ServingSize,
			ServingUnit:    r.ServingUnit,
			ServingCount:   1,
			Calories:       r.Calories,
			Protein:        r.Protein,
			Carbs:          r.Carbs,
			Fat:            r.Fat,
			Micronutrients: nutrients.FromMap(r.Micronutrients),
			CreatedAt:      at,
		}
		if !e.MealType.Valid() {
			return res, fmt.Errorf("seed food %q: unknown meal %q", r.Name, r.Meal)
		}
		if err := l.store.Foods().InsertFood(ctx, e); err != nil {
			return res, fmt.Errorf("seed food %q: %w", r.Name, err)
		}
		res.Foods++
	}

	for _, r := range ds.Water {
		at, err := r.resolve(today)
		if err != nil {
			return res, err
		}
		if !units.IsWaterUnit(r.Unit) {
			return res, fmt.Errorf("seed water: unknown unit %q", r.Unit)
		}
		e := &storage.WaterEntry{ID: uuid.New(), Amount: r.Amount, Unit: r.Unit, Timestamp: at}
		if err := l.store.Water().InsertWater(ctx, e); err != nil {
			return res, fmt.Errorf("seed water: %w", err)
		}
		res.Water++
	}

	for _, r := range ds.Exercise {
		at, err := r.resolve(today)
		if err != nil {
			return res, err
		}
		e := &storage.ExerciseEntry{
			ID:              uuid.New(),
			Name:            r.Name,
			Category:        r.Category,
			Type:            r.Type,
			Date:            at,
			DurationMinutes: r.Minutes,
			CaloriesBurned:  r.Calories,
			Intensity:       r.Intensity,
			CreatedAt:       at,
		}
		if err := l.store.Exercises().InsertExercise(ctx, e); err != nil {
			return res, fmt.Errorf("seed exercise %q: %w", r.Name, err)
		}
		res.Exercise++
	}

	for _, r := range ds.WeightsLbs {
		at, err := r.resolve(today)
		if err != nil {
			return res, err
		}
		e := &storage.WeightEntry{
			ID:        uuid.New(),
			Weight:    units.Round(units.LbsToKg(r.Weight), 2),
			Date:      codec.StartOfDay(at),
			Timestamp: at,
		}
		if err := l.store.Weights().InsertWeight(ctx, e); err != nil {
			return res, fmt.Errorf("seed weight: %w", err)
		}
		res.Weights++
	}

	for _, r := range ds.Supplements {
		at, err := r.resolve(today)
		if err != nil {
			return res, err
		}
		e := &storage.SupplementEntry{
			ID:          uuid.New(),
			Name:        r.Name,
			Brand:       r.Brand,
			Date:        at,
			ServingSize: r.ServingSize,
			ServingUnit: r.ServingUnit,
			Nutrients:   r.Nutrients,
			CreatedAt:   at,
		}
		if err := l.store.Supplements().InsertSupplement(ctx, e); err != nil {
			return res, fmt.Errorf("seed supplement %q: %w", r.Name, err)
		}
		res.Supplements++
	}

	for _, r := range ds.Goals {
		g := &storage.Goal{
			ID:           uuid.New(),
			Type:         storage.GoalType(r.Type),
			Title:        r.Title,
			TargetValue:  r.Target,
			CurrentValue: r.Current,
			Unit:         r.Unit,
			StartDate:    today,
			IsActive:     true,
		}
		if !g.Type.Valid() {
			return res, fmt.Errorf("seed goal %q: unknown type %q", r.Title, r.Type)
		}
		if r.Target > 0 {
			g.Progress = int(units.Round(min(max(r.Current/r.Target*100, 0), 100), 0))
		}
		if r.DeadlineDays > 0 {
			d := today.AddDate(0, 0, r.DeadlineDays)
			g.Deadline = &d
		}
		if err := l.store.Goals().SaveGoal(ctx, g); err != nil {
			return res, fmt.Errorf("seed goal %q: %w", r.Title, err)
		}
		res.Goals++
	}

	for _, r := range ds.Recipes {
		rec := &storage.Recipe{
			ID:           uuid.New(),
			Name:         r.Name,
			Category:     r.Category,
			Servings:     max(r.Servings, 1),
			PrepMinutes:  r.PrepMinutes,
			CookMinutes:  r.CookMinutes,
			Calories:     r.Calories,
			Protein:      r.Protein,
			Carbs:        r.Carbs,
			Fat:          r.Fat,
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
			Tags:         r.Tags,
			IsFavorite:   r.Favorite,
			Source:       storage.RecipeSourceCustom,
		}
		if err := l.store.Recipes().SaveRecipe(ctx, rec); err != nil {
			return res, fmt.Errorf("seed recipe %q: %w", r.Name, err)
		}
		res.Recipes++
	}

	return res, nil
}

// resolve returns the local timestamp of the row. An empty At means noon.
func (w when) resolve(today time.Time) (time.Time, error) {
	day := today.AddDate(0, 0, -w.DaysAgo)
	if w.At == "" {
		return day.Add(12 * time.Hour), nil
	}
	clock, err := time.Parse("15:04", w.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("seed: invalid time %q: %w", w.At, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}
