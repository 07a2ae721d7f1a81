package sqlstore

import (
	"context"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type exercisesStorage struct {
	s *Store
}

const exerciseColumns = `id, name, category, type, date_ms, duration_minutes, calories_burned, intensity, notes, created_ms`

func scanExercise(sc scanner) (storage.ExerciseEntry, error) {
	var (
		e                storage.ExerciseEntry
		id               string
		dateMs, createMs int64
	)
	if err := sc.Scan(&id, &e.Name, &e.Category, &e.Type, &dateMs, &e.DurationMinutes, &e.CaloriesBurned,
		&e.Intensity, &e.Notes, &createMs); err != nil {
		return e, err
	}
	var err error
	if e.ID, err = codec.DecodeID(id); err != nil {
		return e, err
	}
	e.Date = codec.DecodeTime(dateMs)
	e.CreatedAt = codec.DecodeTime(createMs)
	return e, nil
}

func (r *exercisesStorage) InsertExercise(ctx context.Context, e *storage.ExerciseEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO exercise_entries (` + exerciseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.s.exec(ctx, "insert exercise", query,
		codec.EncodeID(e.ID), e.Name, e.Category, e.Type, codec.EncodeTime(e.Date), e.DurationMinutes,
		e.CaloriesBurned, e.Intensity, e.Notes, codec.EncodeTime(e.CreatedAt),
	)
	return err
}

func (r *exercisesStorage) UpdateExercise(ctx context.Context, e *storage.ExerciseEntry) error {
	query := `
		UPDATE exercise_entries
		SET name = ?, category = ?, type = ?, date_ms = ?, duration_minutes = ?, calories_burned = ?,
			intensity = ?, notes = ?
		WHERE id = ?
	`
	_, err := r.s.exec(ctx, "update exercise", query,
		e.Name, e.Category, e.Type, codec.EncodeTime(e.Date), e.DurationMinutes, e.CaloriesBurned,
		e.Intensity, e.Notes, codec.EncodeID(e.ID),
	)
	return err
}

func (r *exercisesStorage) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete exercise", `DELETE FROM exercise_entries WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *exercisesStorage) GetExercise(ctx context.Context, id uuid.UUID) (*storage.ExerciseEntry, error) {
	row := r.s.queryRow(ctx, `SELECT `+exerciseColumns+` FROM exercise_entries WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get exercise", scanExercise)
}

func (r *exercisesStorage) ListExercisesByDate(ctx context.Context, day time.Time) ([]storage.ExerciseEntry, error) {
	from, to := codec.DayBounds(day)
	return r.ListExercisesInRange(ctx, from, to)
}

func (r *exercisesStorage) ListExercisesInRange(ctx context.Context, from, to time.Time) ([]storage.ExerciseEntry, error) {
	query := `
		SELECT ` + exerciseColumns + `
		FROM exercise_entries
		WHERE date_ms >= ? AND date_ms < ?
		ORDER BY date_ms DESC, created_ms DESC
	`
	rows, err := r.s.query(ctx, "list exercises", query, codec.EncodeTime(from), codec.EncodeTime(to))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list exercises", scanExercise)
}

func (r *exercisesStorage) ListExercisesByCategory(ctx context.Context, category string) ([]storage.ExerciseEntry, error) {
	query := `
		SELECT ` + exerciseColumns + `
		FROM exercise_entries
		WHERE category = ?
		ORDER BY date_ms DESC, created_ms DESC
	`
	rows, err := r.s.query(ctx, "list exercises by category", query, category)
	if err != nil {
		return nil, err
	}
	return collect(rows, "list exercises by category", scanExercise)
}

func (r *exercisesStorage) SumDurationInRange(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	err := r.s.queryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM exercise_entries
		WHERE date_ms >= ? AND date_ms < ?
	`, codec.EncodeTime(from), codec.EncodeTime(to)).Scan(&total)
	return total, storage.Wrap("sum exercise duration", err)
}

func (r *exercisesStorage) SumCaloriesBurnedInRange(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.s.queryRow(ctx, `
		SELECT COALESCE(SUM(calories_burned), 0)
		FROM exercise_entries
		WHERE date_ms >= ? AND date_ms < ?
	`, codec.EncodeTime(from), codec.EncodeTime(to)).Scan(&total)
	return total, storage.Wrap("sum calories burned", err)
}

func (r *exercisesStorage) CountExercisesInRange(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.s.queryRow(ctx, `
		SELECT COUNT(*)
		FROM exercise_entries
		WHERE date_ms >= ? AND date_ms < ?
	`, codec.EncodeTime(from), codec.EncodeTime(to)).Scan(&count)
	return count, storage.Wrap("count exercises", err)
}

type waterStorage struct {
	s *Store
}

func scanWater(sc scanner) (storage.WaterEntry, error) {
	var (
		w  storage.WaterEntry
		id string
		ts int64
	)
	if err := sc.Scan(&id, &w.Amount, &w.Unit, &ts); err != nil {
		return w, err
	}
	var err error
	if w.ID, err = codec.DecodeID(id); err != nil {
		return w, err
	}
	w.Timestamp = codec.DecodeTime(ts)
	return w, nil
}

func (r *waterStorage) InsertWater(ctx context.Context, w *storage.WaterEntry) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Timestamp.IsZero() {
		w.Timestamp = time.Now()
	}
	_, err := r.s.exec(ctx, "insert water", `
		INSERT INTO water_entries (id, amount, unit, timestamp_ms)
		VALUES (?, ?, ?, ?)
	`, codec.EncodeID(w.ID), w.Amount, w.Unit, codec.EncodeTime(w.Timestamp))
	return err
}

func (r *waterStorage) DeleteWater(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete water", `DELETE FROM water_entries WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *waterStorage) ListWaterByDate(ctx context.Context, day time.Time) ([]storage.WaterEntry, error) {
	from, to := codec.DayBounds(day)
	return r.ListWaterInRange(ctx, from, to)
}

func (r *waterStorage) ListWaterInRange(ctx context.Context, from, to time.Time) ([]storage.WaterEntry, error) {
	rows, err := r.s.query(ctx, "list water", `
		SELECT id, amount, unit, timestamp_ms
		FROM water_entries
		WHERE timestamp_ms >= ? AND timestamp_ms < ?
		ORDER BY timestamp_ms DESC
	`, codec.EncodeTime(from), codec.EncodeTime(to))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list water", scanWater)
}

func (r *waterStorage) SumWaterForDate(ctx context.Context, day time.Time) (float64, error) {
	from, to := codec.DayBounds(day)
	var total float64
	err := r.s.queryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM water_entries
		WHERE timestamp_ms >= ? AND timestamp_ms < ?
	`, codec.EncodeTime(from), codec.EncodeTime(to)).Scan(&total)
	return total, storage.Wrap("sum water", err)
}

func (r *waterStorage) DeleteWaterForDate(ctx context.Context, day time.Time) error {
	from, to := codec.DayBounds(day)
	_, err := r.s.exec(ctx, "delete water for date",
		`DELETE FROM water_entries WHERE timestamp_ms >= ? AND timestamp_ms < ?`,
		codec.EncodeTime(from), codec.EncodeTime(to))
	return err
}

type supplementsStorage struct {
	s *Store
}

const supplementColumns = `id, name, brand, date_ms, serving_size, serving_unit, nutrients, notes, created_ms`

func scanSupplement(sc scanner) (storage.SupplementEntry, error) {
	var (
		e                storage.SupplementEntry
		id, nutrients    string
		dateMs, createMs int64
	)
	if err := sc.Scan(&id, &e.Name, &e.Brand, &dateMs, &e.ServingSize, &e.ServingUnit, &nutrients, &e.Notes,
		&createMs); err != nil {
		return e, err
	}
	var err error
	if e.ID, err = codec.DecodeID(id); err != nil {
		return e, err
	}
	if e.Nutrients, err = codec.DecodeNutrients(nutrients); err != nil {
		return e, err
	}
	e.Date = codec.DecodeTime(dateMs)
	e.CreatedAt = codec.DecodeTime(createMs)
	return e, nil
}

func (r *supplementsStorage) InsertSupplement(ctx context.Context, e *storage.SupplementEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	nutrients, err := codec.EncodeNutrients(e.Nutrients)
	if err != nil {
		return storage.Wrap("insert supplement", err)
	}
	_, err = r.s.exec(ctx, "insert supplement", `
		INSERT INTO supplement_entries (`+supplementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, codec.EncodeID(e.ID), e.Name, e.Brand, codec.EncodeTime(e.Date), e.ServingSize, e.ServingUnit,
		nutrients, e.Notes, codec.EncodeTime(e.CreatedAt))
	return err
}

func (r *supplementsStorage) UpdateSupplement(ctx context.Context, e *storage.SupplementEntry) error {
	nutrients, err := codec.EncodeNutrients(e.Nutrients)
	if err != nil {
		return storage.Wrap("update supplement", err)
	}
	_, err = r.s.exec(ctx, "update supplement", `
		UPDATE supplement_entries
		SET name = ?, brand = ?, date_ms = ?, serving_size = ?, serving_unit = ?, nutrients = ?, notes = ?
		WHERE id = ?
	`, e.Name, e.Brand, codec.EncodeTime(e.Date), e.ServingSize, e.ServingUnit, nutrients,
		e.Notes, codec.EncodeID(e.ID))
	return err
}

func (r *supplementsStorage) DeleteSupplement(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete supplement", `DELETE FROM supplement_entries WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *supplementsStorage) ListSupplementsByDate(ctx context.Context, day time.Time) ([]storage.SupplementEntry, error) {
	from, to := codec.DayBounds(day)
	return r.ListSupplementsInRange(ctx, from, to)
}

func (r *supplementsStorage) ListSupplementsInRange(ctx context.Context, from, to time.Time) ([]storage.SupplementEntry, error) {
	rows, err := r.s.query(ctx, "list supplements", `
		SELECT `+supplementColumns+`
		FROM supplement_entries
		WHERE date_ms >= ? AND date_ms < ?
		ORDER BY date_ms DESC, created_ms DESC
	`, codec.EncodeTime(from), codec.EncodeTime(to))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list supplements", scanSupplement)
}

func (r *supplementsStorage) DistinctSupplementNames(ctx context.Context) ([]string, error) {
	rows, err := r.s.query(ctx, "distinct supplement names", `SELECT DISTINCT name FROM supplement_entries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, "distinct supplement names", func(sc scanner) (string, error) {
		var name string
		err := sc.Scan(&name)
		return name, err
	})
}

type weightsStorage struct {
	s *Store
}

const weightColumns = `id, weight, date_ms, timestamp_ms, notes`

// latest date first; on the same date the later insert wins
const weightOrder = `ORDER BY date_ms DESC, seq DESC`

func scanWeight(sc scanner) (storage.WeightEntry, error) {
	var (
		w          storage.WeightEntry
		id         string
		dateMs, ts int64
	)
	if err := sc.Scan(&id, &w.Weight, &dateMs, &ts, &w.Notes); err != nil {
		return w, err
	}
	var err error
	if w.ID, err = codec.DecodeID(id); err != nil {
		return w, err
	}
	w.Date = codec.DecodeTime(dateMs)
	w.Timestamp = codec.DecodeTime(ts)
	return w, nil
}

func (r *weightsStorage) InsertWeight(ctx context.Context, w *storage.WeightEntry) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Timestamp.IsZero() {
		w.Timestamp = time.Now()
	}
	_, err := r.s.exec(ctx, "insert weight", `
		INSERT INTO weight_entries (`+weightColumns+`, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM weight_entries))
	`, codec.EncodeID(w.ID), w.Weight, codec.EncodeTime(w.Date), codec.EncodeTime(w.Timestamp), w.Notes)
	return err
}

func (r *weightsStorage) UpdateWeight(ctx context.Context, w *storage.WeightEntry) error {
	_, err := r.s.exec(ctx, "update weight", `
		UPDATE weight_entries
		SET weight = ?, date_ms = ?, timestamp_ms = ?, notes = ?
		WHERE id = ?
	`, w.Weight, codec.EncodeTime(w.Date), codec.EncodeTime(w.Timestamp), w.Notes, codec.EncodeID(w.ID))
	return err
}

func (r *weightsStorage) DeleteWeight(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete weight", `DELETE FROM weight_entries WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *weightsStorage) LatestWeight(ctx context.Context) (*storage.WeightEntry, error) {
	row := r.s.queryRow(ctx, `SELECT `+weightColumns+` FROM weight_entries `+weightOrder+` LIMIT 1`)
	return one(row, "latest weight", scanWeight)
}

func (r *weightsStorage) WeightOnDate(ctx context.Context, day time.Time) (*storage.WeightEntry, error) {
	from, to := codec.DayBounds(day)
	row := r.s.queryRow(ctx, `
		SELECT `+weightColumns+`
		FROM weight_entries
		WHERE date_ms >= ? AND date_ms < ?
		`+weightOrder+`
		LIMIT 1
	`, codec.EncodeTime(from), codec.EncodeTime(to))
	return one(row, "weight on date", scanWeight)
}

func (r *weightsStorage) ListWeights(ctx context.Context) ([]storage.WeightEntry, error) {
	rows, err := r.s.query(ctx, "list weights", `SELECT `+weightColumns+` FROM weight_entries `+weightOrder)
	if err != nil {
		return nil, err
	}
	return collect(rows, "list weights", scanWeight)
}

func (r *weightsStorage) ListWeightsInRange(ctx context.Context, from, to time.Time) ([]storage.WeightEntry, error) {
	rows, err := r.s.query(ctx, "list weights in range", `
		SELECT `+weightColumns+`
		FROM weight_entries
		WHERE date_ms >= ? AND date_ms < ?
		`+weightOrder, codec.EncodeTime(from), codec.EncodeTime(to))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list weights in range", scanWeight)
}
