// Package scheduler runs the periodic background jobs: goal progress sync
// from the diary totals and the dashboard refresh.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/health-diary/internal/dashboard"
	"github.com/fdg312/health-diary/internal/goals"
	"github.com/go-co-op/gocron/v2"
)

const (
	JobGoalSync         = "goal-progress-sync"
	JobDashboardRefresh = "dashboard-refresh"

	jobTimeout = 30 * time.Second
)

type GoalSyncer interface {
	SyncProgress(ctx context.Context, src goals.Sources, now time.Time) (int, error)
}

type DashboardRefresher interface {
	Refresh(ctx context.Context) (dashboard.State, error)
}

// Config sets the job intervals. A zero interval disables that job.
type Config struct {
	GoalSyncInterval time.Duration
	DashboardRefresh time.Duration
}

type Scheduler struct {
	cron      gocron.Scheduler
	goals     GoalSyncer
	sources   goals.Sources
	dashboard DashboardRefresher
	now       func() time.Time
}

func New(goalSvc GoalSyncer, sources goals.Sources, dash DashboardRefresher) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{cron: cron, goals: goalSvc, sources: sources, dashboard: dash, now: time.Now}, nil
}

func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start registers the jobs and starts the scheduler. Each job runs once
// immediately and then on its interval; overlapping runs are skipped.
func (s *Scheduler) Start(cfg Config) error {
	if cfg.GoalSyncInterval > 0 && s.goals != nil {
		if err := s.add(JobGoalSync, cfg.GoalSyncInterval, s.SyncGoals); err != nil {
			return err
		}
	}
	if cfg.DashboardRefresh > 0 && s.dashboard != nil {
		if err := s.add(JobDashboardRefresh, cfg.DashboardRefresh, s.RefreshDashboard); err != nil {
			return err
		}
	}
	s.cron.Start()
	log.Printf("INFO scheduler: started jobs=%d goal_sync=%s dashboard_refresh=%s",
		len(s.cron.Jobs()), cfg.GoalSyncInterval, cfg.DashboardRefresh)
	return nil
}

func (s *Scheduler) add(name string, every time.Duration, run func(context.Context) error) error {
	_, err := s.cron.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := run(ctx); err != nil {
				log.Printf("WARN scheduler: job=%s: %v", name, err)
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// JobNames lists the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.cron.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

// SyncGoals copies today's calories, water and exercise into active goals.
func (s *Scheduler) SyncGoals(ctx context.Context) error {
	n, err := s.goals.SyncProgress(ctx, s.sources, s.now())
	if err != nil {
		return fmt.Errorf("sync goals: %w", err)
	}
	if n > 0 {
		log.Printf("INFO scheduler: goal progress updated goals=%d", n)
	}
	return nil
}

func (s *Scheduler) RefreshDashboard(ctx context.Context) error {
	if _, err := s.dashboard.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh dashboard: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}
