package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/fdg312/health-diary/internal/config"
	"github.com/fdg312/health-diary/internal/dashboard"
	"github.com/fdg312/health-diary/internal/diary"
	"github.com/fdg312/health-diary/internal/exercise"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/goals"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/mealplans"
	"github.com/fdg312/health-diary/internal/nutrition"
	"github.com/fdg312/health-diary/internal/profiles"
	"github.com/fdg312/health-diary/internal/recipes"
	"github.com/fdg312/health-diary/internal/reports"
	"github.com/fdg312/health-diary/internal/scheduler"
	"github.com/fdg312/health-diary/internal/weight"
)

// Server is the diary HTTP API.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	services       *Services
	authMiddleware *auth.Middleware
	scheduler      *scheduler.Scheduler
	httpServer     *http.Server
}

// New opens the configured store, optionally seeds it and builds the server.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svcs, err := NewServices(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	if cfg.SeedOnStartup {
		if _, err := svcs.Seed(ctx); err != nil {
			log.Printf("WARN seed: sample data not loaded: %v", err)
		}
	}

	return NewWithServices(cfg, svcs), nil
}

// NewWithServices builds the server over already constructed services.
func NewWithServices(cfg *config.Config, svcs *Services) *Server {
	s := &Server{
		config:   cfg,
		mux:      http.NewServeMux(),
		services: svcs,
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	svcs := s.services

	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)
	s.mux.HandleFunc("GET /v1/auth/me", authHandler.HandleMe)

	// Food diary and custom foods
	foodHandler := foods.NewHandlers(svcs.Foods)
	s.mux.HandleFunc("POST /v1/foods", foodHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/foods", foodHandler.HandleListDay)
	s.mux.HandleFunc("DELETE /v1/foods", foodHandler.HandleClearDay)
	s.mux.HandleFunc("GET /v1/foods/history", foodHandler.HandleSearchHistory)
	s.mux.HandleFunc("POST /v1/foods/from-custom", foodHandler.HandleLogCustom)
	s.mux.HandleFunc("GET /v1/foods/{id}", foodHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/foods/{id}", foodHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/foods/{id}", foodHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/custom-foods", foodHandler.HandleListCustom)
	s.mux.HandleFunc("POST /v1/custom-foods", foodHandler.HandleCreateCustom)
	s.mux.HandleFunc("GET /v1/custom-foods/barcode/{code}", foodHandler.HandleLookupBarcode)
	s.mux.HandleFunc("POST /v1/custom-foods/barcode/{code}", foodHandler.HandleImportBarcode)
	s.mux.HandleFunc("GET /v1/custom-foods/{id}", foodHandler.HandleGetCustom)
	s.mux.HandleFunc("PUT /v1/custom-foods/{id}", foodHandler.HandleUpdateCustom)
	s.mux.HandleFunc("DELETE /v1/custom-foods/{id}", foodHandler.HandleDeleteCustom)

	// Water and supplements
	intakesHandler := intakes.NewHandlers(svcs.Intakes)
	s.mux.HandleFunc("GET /v1/intakes/daily", intakesHandler.HandleGetIntakesDaily)
	s.mux.HandleFunc("POST /v1/intakes/water", intakesHandler.HandleAddWater)
	s.mux.HandleFunc("DELETE /v1/intakes/water/last", intakesHandler.HandleRemoveLastWater)
	s.mux.HandleFunc("DELETE /v1/intakes/water/{id}", intakesHandler.HandleDeleteWater)
	s.mux.HandleFunc("POST /v1/supplements", intakesHandler.HandleCreateSupplement)
	s.mux.HandleFunc("GET /v1/supplements", intakesHandler.HandleListSupplements)
	s.mux.HandleFunc("GET /v1/supplements/names", intakesHandler.HandleSupplementNames)
	s.mux.HandleFunc("PUT /v1/supplements/{id}", intakesHandler.HandleUpdateSupplement)
	s.mux.HandleFunc("DELETE /v1/supplements/{id}", intakesHandler.HandleDeleteSupplement)

	// Exercise
	exerciseHandler := exercise.NewHandlers(svcs.Exercise)
	s.mux.HandleFunc("POST /v1/exercises", exerciseHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/exercises", exerciseHandler.HandleList)
	s.mux.HandleFunc("GET /v1/exercises/stats/weekly", exerciseHandler.HandleWeeklyStats)
	s.mux.HandleFunc("GET /v1/exercises/stats/monthly", exerciseHandler.HandleMonthlyStats)
	s.mux.HandleFunc("PUT /v1/exercises/{id}", exerciseHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/exercises/{id}", exerciseHandler.HandleDelete)

	// Weight
	weightHandler := weight.NewHandlers(svcs.Weight)
	s.mux.HandleFunc("POST /v1/weights", weightHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/weights", weightHandler.HandleList)
	s.mux.HandleFunc("GET /v1/weights/latest", weightHandler.HandleLatest)
	s.mux.HandleFunc("GET /v1/weights/stats", weightHandler.HandleStats)
	s.mux.HandleFunc("GET /v1/weights/trend", weightHandler.HandleTrend)
	s.mux.HandleFunc("PUT /v1/weights/{id}", weightHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/weights/{id}", weightHandler.HandleDelete)

	// Goals
	goalHandler := goals.NewHandlers(svcs.Goals)
	s.mux.HandleFunc("GET /v1/goals", goalHandler.HandleList)
	s.mux.HandleFunc("POST /v1/goals", goalHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/goals/stats", goalHandler.HandleStats)
	s.mux.HandleFunc("GET /v1/goals/upcoming", goalHandler.HandleUpcoming)
	s.mux.HandleFunc("GET /v1/goals/types", goalHandler.HandleTypes)
	s.mux.HandleFunc("GET /v1/goals/{id}", goalHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/goals/{id}", goalHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/goals/{id}", goalHandler.HandleDelete)
	s.mux.HandleFunc("POST /v1/goals/{id}/progress", goalHandler.HandleProgress)
	s.mux.HandleFunc("POST /v1/goals/{id}/complete", goalHandler.HandleComplete)
	s.mux.HandleFunc("POST /v1/goals/{id}/reactivate", goalHandler.HandleReactivate)

	// Profile and energy
	profileHandler := profiles.NewHandler(svcs.Profiles)
	s.mux.HandleFunc("GET /v1/profile", profileHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/profile", profileHandler.HandleSave)
	s.mux.HandleFunc("PATCH /v1/profile", profileHandler.HandlePatch)
	s.mux.HandleFunc("GET /v1/profile/energy", profileHandler.HandleEnergy)

	// Nutrition targets
	nutritionHandler := nutrition.NewHandler(svcs.Nutrition)
	s.mux.HandleFunc("GET /v1/nutrition/targets", nutritionHandler.HandleGetTargets)
	s.mux.HandleFunc("GET /v1/nutrition/summary", nutritionHandler.HandleGetSummary)

	// Recipes
	recipeHandler := recipes.NewHandlers(svcs.Recipes)
	s.mux.HandleFunc("GET /v1/recipes", recipeHandler.HandleList)
	s.mux.HandleFunc("POST /v1/recipes", recipeHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/recipes/discover", recipeHandler.HandleDiscover)
	s.mux.HandleFunc("GET /v1/recipes/{id}", recipeHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/recipes/{id}", recipeHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/recipes/{id}", recipeHandler.HandleDelete)
	s.mux.HandleFunc("POST /v1/recipes/{id}/favorite", recipeHandler.HandleToggleFavorite)

	// Meal plans and grocery lists
	mealHandler := mealplans.NewHandler(svcs.MealPlans)
	s.mux.HandleFunc("GET /v1/meal/plan", mealHandler.HandleGetDay)
	s.mux.HandleFunc("POST /v1/meal/plan", mealHandler.HandleCreate)
	s.mux.HandleFunc("DELETE /v1/meal/plan", mealHandler.HandleClearDay)
	s.mux.HandleFunc("GET /v1/meal/plan/range", mealHandler.HandleGetRange)
	s.mux.HandleFunc("PUT /v1/meal/plan/{id}", mealHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/meal/plan/{id}", mealHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/meal/grocery", mealHandler.HandleListGrocery)
	s.mux.HandleFunc("POST /v1/meal/grocery", mealHandler.HandleCreateGrocery)
	s.mux.HandleFunc("POST /v1/meal/grocery/generate", mealHandler.HandleGenerateGrocery)
	s.mux.HandleFunc("GET /v1/meal/grocery/{id}", mealHandler.HandleGetGrocery)
	s.mux.HandleFunc("PUT /v1/meal/grocery/{id}", mealHandler.HandleUpdateGrocery)
	s.mux.HandleFunc("DELETE /v1/meal/grocery/{id}", mealHandler.HandleDeleteGrocery)
	s.mux.HandleFunc("POST /v1/meal/grocery/{id}/toggle", mealHandler.HandleToggleGrocery)

	// Dashboard
	dashHandler := dashboard.NewHandlers(svcs.Dashboard)
	s.mux.HandleFunc("GET /v1/dashboard", dashHandler.HandleGet)
	s.mux.HandleFunc("POST /v1/dashboard/water", dashHandler.HandleAddWater)
	s.mux.HandleFunc("POST /v1/dashboard/quick-food", dashHandler.HandleQuickFood)
	s.mux.HandleFunc("GET /v1/dashboard/stream", dashHandler.HandleStream)

	// Diary day view
	diaryHandler := diary.NewHandlers(svcs.Diary)
	s.mux.HandleFunc("GET /v1/diary", diaryHandler.HandleGet)

	// Diary exports
	reportsHandler := reports.NewHandlers(svcs.Reports)
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// Handler returns the router wrapped in the middleware chain, outermost
// first: CORS, rate limit, auth, request log.
func (s *Server) Handler() http.Handler {
	handler := RequestLogMiddleware(s.config, s.mux)
	if s.authMiddleware != nil {
		handler = s.authMiddleware.Authenticate(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Blob    string `json:"blob"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{
		Status:  "ok",
		Storage: storageName(s.services.Store),
		Blob:    s.services.BlobMode,
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.services.Store.Ping(ctx); err != nil {
		log.Printf("WARN httpserver: storage ping failed: %v", err)
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Start runs the background jobs and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	sched, err := scheduler.New(s.services.Goals, s.services.GoalSources(), s.services.Dashboard)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if err := sched.Start(scheduler.Config{
		GoalSyncInterval: time.Duration(s.config.GoalSyncIntervalMinutes) * time.Minute,
		DashboardRefresh: time.Duration(s.config.DashboardRefreshSeconds) * time.Second,
	}); err != nil {
		sched.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}
	s.scheduler = sched

	addr := s.httpServer.Addr
	log.Printf("INFO httpserver: listening on http://localhost%s", addr)
	log.Printf("INFO httpserver: health check http://localhost%s/healthz", addr)
	log.Printf("INFO httpserver: dashboard http://localhost%s/v1/dashboard", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. Called
// before Start, it makes Start return immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close stops the scheduler and releases the store.
func (s *Server) Close() error {
	var errs []error
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("scheduler: %w", err))
		}
	}
	if s.services != nil && s.services.Store != nil {
		if err := s.services.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run builds the server, serves until ctx is done and then shuts down
// gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer server.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("INFO httpserver: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("WARN httpserver: shutdown: %v", err)
		}
		return <-errCh
	}
}
