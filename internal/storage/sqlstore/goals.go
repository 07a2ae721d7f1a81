package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type goalsStorage struct {
	s *Store
}

const goalColumns = `id, type, title, description, target_value, current_value, unit, progress, start_ms,
	deadline_ms, is_active, is_completed, completed_ms, created_ms, updated_ms`

func scanGoal(sc scanner) (storage.Goal, error) {
	var (
		g                        storage.Goal
		id, goalType             string
		startMs, createMs, updMs int64
		deadline, completed      sql.NullInt64
	)
	if err := sc.Scan(&id, &goalType, &g.Title, &g.Description, &g.TargetValue, &g.CurrentValue, &g.Unit,
		&g.Progress, &startMs, &deadline, &g.IsActive, &g.IsCompleted, &completed, &createMs, &updMs); err != nil {
		return g, err
	}
	var err error
	if g.ID, err = codec.DecodeID(id); err != nil {
		return g, err
	}
	g.Type = storage.GoalType(goalType)
	g.StartDate = codec.DecodeTime(startMs)
	g.Deadline = codec.DecodeOptionalTime(nullableMillis(deadline))
	g.CompletedDate = codec.DecodeOptionalTime(nullableMillis(completed))
	g.CreatedAt = codec.DecodeTime(createMs)
	g.UpdatedAt = codec.DecodeTime(updMs)
	return g, nil
}

func nullableMillis(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func millisArg(t *time.Time) sql.NullInt64 {
	ms := codec.EncodeOptionalTime(t)
	if ms == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *ms, Valid: true}
}

func (r *goalsStorage) SaveGoal(ctx context.Context, g *storage.Goal) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			description = excluded.description,
			target_value = excluded.target_value,
			current_value = excluded.current_value,
			unit = excluded.unit,
			progress = excluded.progress,
			start_ms = excluded.start_ms,
			deadline_ms = excluded.deadline_ms,
			is_active = excluded.is_active,
			is_completed = excluded.is_completed,
			completed_ms = excluded.completed_ms,
			updated_ms = excluded.updated_ms
	`
	_, err := r.s.exec(ctx, "save goal", query,
		codec.EncodeID(g.ID), string(g.Type), g.Title, g.Description, g.TargetValue, g.CurrentValue, g.Unit,
		g.Progress, codec.EncodeTime(g.StartDate), millisArg(g.Deadline), g.IsActive, g.IsCompleted,
		millisArg(g.CompletedDate), codec.EncodeTime(g.CreatedAt), codec.EncodeTime(g.UpdatedAt),
	)
	return err
}

func (r *goalsStorage) UpdateGoal(ctx context.Context, g *storage.Goal) error {
	g.UpdatedAt = time.Now()
	_, err := r.s.exec(ctx, "update goal", `
		UPDATE goals
		SET type = ?, title = ?, description = ?, target_value = ?, current_value = ?, unit = ?, progress = ?,
			start_ms = ?, deadline_ms = ?, is_active = ?, is_completed = ?, completed_ms = ?, updated_ms = ?
		WHERE id = ?
	`, string(g.Type), g.Title, g.Description, g.TargetValue, g.CurrentValue, g.Unit, g.Progress,
		codec.EncodeTime(g.StartDate), millisArg(g.Deadline), g.IsActive, g.IsCompleted, millisArg(g.CompletedDate),
		codec.EncodeTime(g.UpdatedAt), codec.EncodeID(g.ID))
	return err
}

func (r *goalsStorage) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete goal", `DELETE FROM goals WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *goalsStorage) GetGoal(ctx context.Context, id uuid.UUID) (*storage.Goal, error) {
	row := r.s.queryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get goal", scanGoal)
}

func (r *goalsStorage) list(ctx context.Context, op, where string, args ...any) ([]storage.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_ms DESC`
	rows, err := r.s.query(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, op, scanGoal)
}

func (r *goalsStorage) ListGoals(ctx context.Context) ([]storage.Goal, error) {
	return r.list(ctx, "list goals", "")
}

func (r *goalsStorage) ListActiveGoals(ctx context.Context) ([]storage.Goal, error) {
	return r.list(ctx, "list active goals", "is_active = ? AND is_completed = ?", true, false)
}

func (r *goalsStorage) ListCompletedGoals(ctx context.Context) ([]storage.Goal, error) {
	return r.list(ctx, "list completed goals", "is_completed = ?", true)
}

func (r *goalsStorage) ListGoalsByType(ctx context.Context, goalType storage.GoalType) ([]storage.Goal, error) {
	return r.list(ctx, "list goals by type", "type = ?", string(goalType))
}

func (r *goalsStorage) CountActiveGoals(ctx context.Context) (int, error) {
	var n int
	err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM goals WHERE is_active = ? AND is_completed = ?`, true, false).Scan(&n)
	return n, storage.Wrap("count active goals", err)
}

type profileStorage struct {
	s *Store
}

func (r *profileStorage) GetProfile(ctx context.Context) (*storage.UserProfile, error) {
	row := r.s.queryRow(ctx, `
		SELECT id, name, height_cm, weight_kg, goal_weight_kg, birth_ms, gender, activity_level, bmr_formula,
			daily_calorie_goal, daily_protein_goal, daily_carbs_goal, daily_fat_goal, daily_water_cups, updated_ms
		FROM user_profile
		WHERE id = ?
	`, storage.ProfileID)
	return one(row, "get profile", func(sc scanner) (storage.UserProfile, error) {
		var (
			p              storage.UserProfile
			birthMs, updMs int64
		)
		err := sc.Scan(&p.ID, &p.Name, &p.HeightCm, &p.WeightKg, &p.GoalWeightKg, &birthMs, &p.Gender,
			&p.ActivityLevel, &p.BMRFormula, &p.DailyCalorieGoal, &p.DailyProteinGoal, &p.DailyCarbsGoal,
			&p.DailyFatGoal, &p.DailyWaterCups, &updMs)
		p.BirthDate = codec.DecodeTime(birthMs)
		p.UpdatedAt = codec.DecodeTime(updMs)
		return p, err
	})
}

func (r *profileStorage) SaveProfile(ctx context.Context, p *storage.UserProfile) error {
	p.ID = storage.ProfileID
	p.UpdatedAt = time.Now()
	_, err := r.s.exec(ctx, "save profile", `
		INSERT INTO user_profile (id, name, height_cm, weight_kg, goal_weight_kg, birth_ms, gender, activity_level,
			bmr_formula, daily_calorie_goal, daily_protein_goal, daily_carbs_goal, daily_fat_goal, daily_water_cups,
			updated_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			goal_weight_kg = excluded.goal_weight_kg,
			birth_ms = excluded.birth_ms,
			gender = excluded.gender,
			activity_level = excluded.activity_level,
			bmr_formula = excluded.bmr_formula,
			daily_calorie_goal = excluded.daily_calorie_goal,
			daily_protein_goal = excluded.daily_protein_goal,
			daily_carbs_goal = excluded.daily_carbs_goal,
			daily_fat_goal = excluded.daily_fat_goal,
			daily_water_cups = excluded.daily_water_cups,
			updated_ms = excluded.updated_ms
	`, p.ID, p.Name, p.HeightCm, p.WeightKg, p.GoalWeightKg, codec.EncodeTime(p.BirthDate), p.Gender,
		p.ActivityLevel, p.BMRFormula, p.DailyCalorieGoal, p.DailyProteinGoal, p.DailyCarbsGoal, p.DailyFatGoal,
		p.DailyWaterCups, codec.EncodeTime(p.UpdatedAt))
	return err
}

type metaStorage struct {
	s *Store
}

func (r *metaStorage) GetFlag(ctx context.Context, key string) (bool, error) {
	var v bool
	err := r.s.queryRow(ctx, `SELECT value FROM app_flags WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return v, storage.Wrap("get flag", err)
}

func (r *metaStorage) SetFlag(ctx context.Context, key string, value bool) error {
	_, err := r.s.exec(ctx, "set flag", `
		INSERT INTO app_flags (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
