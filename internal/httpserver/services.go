package httpserver

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/health-diary/internal/blob"
	"github.com/fdg312/health-diary/internal/config"
	"github.com/fdg312/health-diary/internal/dashboard"
	"github.com/fdg312/health-diary/internal/dbmigrate"
	"github.com/fdg312/health-diary/internal/diary"
	"github.com/fdg312/health-diary/internal/exercise"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/goals"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/mealplans"
	"github.com/fdg312/health-diary/internal/nutrition"
	"github.com/fdg312/health-diary/internal/profiles"
	"github.com/fdg312/health-diary/internal/recipes"
	"github.com/fdg312/health-diary/internal/remote"
	"github.com/fdg312/health-diary/internal/reports"
	"github.com/fdg312/health-diary/internal/seed"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
	"github.com/fdg312/health-diary/internal/storage/sqlstore"
	"github.com/fdg312/health-diary/internal/weight"
)

// OpenStore opens the backend selected by cfg and applies migrations when
// RunMigrationsOnStartup is set. Postgres migrations go through the direct
// URL when one is configured. A failed database connection falls back to
// memory only in auto mode.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	mode := cfg.ResolvedStorageMode()
	switch mode {
	case config.StorageModeMemory:
		log.Println("INFO storage: using in-memory store")
		return memory.New(), nil

	case config.StorageModeSQLite:
		log.Printf("INFO storage: opening sqlite at %s", cfg.SQLitePath)
		st, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if cfg.RunMigrationsOnStartup {
			// same handle, so ":memory:" databases see the schema
			if err := st.Migrate(ctx); err != nil {
				st.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Printf("INFO storage: startup migrations completed (sqlite)")
		}
		return st, nil

	case config.StorageModePostgres:
		if cfg.RunMigrationsOnStartup {
			target, warning, err := dbmigrate.SelectTarget(cfg, false)
			if err != nil {
				return nil, fmt.Errorf("startup migrations: %w", err)
			}
			if warning != "" {
				log.Printf("WARN storage: %s", warning)
			}
			log.Printf("INFO storage: startup migrations command=up using=%s", target.Source)
			if err := dbmigrate.Run(ctx, "up", target); err != nil {
				return nil, fmt.Errorf("startup migrations: %w", err)
			}
		}
		log.Println("INFO storage: connecting to postgres")
		st, err := sqlstore.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			if cfg.StorageMode == config.StorageModeAuto {
				log.Printf("WARN storage: postgres unavailable, falling back to memory: %v", err)
				return memory.New(), nil
			}
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return st, nil

	default:
		return nil, fmt.Errorf("unknown storage mode %q", mode)
	}
}

// storageName reports the backend actually in use, which differs from the
// configured mode after an auto fallback.
func storageName(st storage.Store) string {
	switch s := st.(type) {
	case *sqlstore.Store:
		return string(s.Dialect())
	case *memory.MemoryStorage:
		return config.StorageModeMemory
	default:
		return "unknown"
	}
}

// Services bundles the diary services built over one store. The HTTP server
// and the command line share it.
type Services struct {
	Store     storage.Store
	Foods     *foods.Service
	Intakes   *intakes.Service
	Exercise  *exercise.Service
	Weight    *weight.Service
	Goals     *goals.Service
	Profiles  *profiles.Service
	Nutrition *nutrition.Service
	Recipes   *recipes.Service
	MealPlans *mealplans.Service
	Dashboard *dashboard.Model
	Diary     *diary.Model
	Reports   *reports.Service
	BlobMode  string
}

// NewServices builds every service over store. The blob store is resolved
// from cfg.Blob; local mode keeps export bytes in the database.
func NewServices(ctx context.Context, cfg *config.Config, store storage.Store) (*Services, error) {
	var barcodes foods.BarcodeSource
	if cfg.OFFBaseURL != "" {
		barcodes = remote.NewFoodFactsClient(cfg.OFFBaseURL, cfg.RemoteUserAgent, cfg.RecipeAPITimeoutSeconds)
	}
	var recipeSource recipes.RemoteSource
	if rc := remote.NewRecipeClient(cfg.RecipeAPIURL, cfg.RemoteUserAgent, cfg.RecipeAPITimeoutSeconds); rc.Enabled() {
		recipeSource = rc
	}

	s := &Services{
		Store:     store,
		Foods:     foods.NewService(store.Foods(), store.CustomFoods(), barcodes),
		Intakes:   intakes.NewService(store.Water(), store.Supplements()),
		Exercise:  exercise.NewService(store.Exercises()),
		Weight:    weight.NewService(store.Weights()),
		Goals:     goals.NewService(store.Goals()),
		Profiles:  profiles.NewService(store.Profile()),
		Recipes:   recipes.NewService(store.Recipes(), recipeSource),
		MealPlans: mealplans.NewService(store.MealPlans(), store.GroceryLists(), store.Recipes()),
	}
	s.Nutrition = nutrition.NewService(s.Profiles, s.Foods, s.Intakes)
	s.Dashboard = dashboard.NewModel(s.Foods, s.Intakes, s.Exercise, s.Profiles).
		WithWeights(s.Weight).
		WithGoals(s.Goals)
	s.Diary = diary.NewModel(s.Foods, s.Intakes, s.Exercise, s.Profiles)

	blobStore, mode, err := blob.NewBlobStore(ctx, cfg.Blob, log.Default())
	if err != nil {
		return nil, fmt.Errorf("init blob store: %w", err)
	}
	s.BlobMode = mode

	s.Reports = reports.NewService(
		store.Exports(),
		reports.NewGenerator(s.Foods, s.Intakes, s.Exercise, s.Weight),
		blobStore,
		reports.Options{
			MaxRangeDays:      cfg.ReportsMaxRangeDays,
			PresignTTLSeconds: cfg.Blob.S3.PresignTTLSeconds,
			PublicBaseURL:     cfg.Blob.S3.PublicBaseURL,
			PreferPublicURL:   cfg.Blob.S3.PreferPublicURL,
		},
	)
	return s, nil
}

// WithClock pins every clock-aware service to now.
func (s *Services) WithClock(now func() time.Time) *Services {
	s.Foods.WithClock(now)
	s.Intakes.WithClock(now)
	s.Exercise.WithClock(now)
	s.Weight.WithClock(now)
	s.Goals.WithClock(now)
	s.Profiles.WithClock(now)
	s.Nutrition.WithClock(now)
	s.MealPlans.WithClock(now)
	s.Dashboard.WithClock(now)
	s.Diary.WithClock(now)
	s.Reports.WithClock(now)
	return s
}

// GoalSources feeds goal auto-sync from the diary totals.
func (s *Services) GoalSources() goals.Sources {
	return goals.Sources{Calories: s.Foods, Water: s.Intakes, Exercise: s.Exercise}
}

// Seed loads the sample diary once.
func (s *Services) Seed(ctx context.Context) (seed.Result, error) {
	return seed.NewLoader(s.Store).Load(ctx)
}
