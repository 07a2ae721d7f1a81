package sqlstore

import (
	"context"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type foodsStorage struct {
	s *Store
}

const foodColumns = `id, name, brand, barcode, date_ms, meal_type, serving_size, serving_unit,
	serving_count, calories, protein, carbs, fat, micronutrients, created_ms`

func scanFood(sc scanner) (storage.FoodEntry, error) {
	var (
		f                storage.FoodEntry
		id, mealType     string
		micros           string
		dateMs, createMs int64
	)
	if err := sc.Scan(&id, &f.Name, &f.Brand, &f.Barcode, &dateMs, &mealType, &f.ServingSize, &f.ServingUnit,
		&f.ServingCount, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &micros, &createMs); err != nil {
		return f, err
	}

	var err error
	if f.ID, err = codec.DecodeID(id); err != nil {
		return f, err
	}
	m, err := codec.DecodeNutrients(micros)
	if err != nil {
		return f, err
	}
	f.Micronutrients = nutrients.FromMap(m)
	f.MealType = storage.MealType(mealType)
	f.Date = codec.DecodeTime(dateMs)
	f.CreatedAt = codec.DecodeTime(createMs)
	return f, nil
}

func (r *foodsStorage) InsertFood(ctx context.Context, f *storage.FoodEntry) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO food_entries (` + foodColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	micros, err := codec.EncodeNutrients(f.Micronutrients.ToMap())
	if err != nil {
		return storage.Wrap("insert food", err)
	}
	_, err = r.s.exec(ctx, "insert food", query,
		codec.EncodeID(f.ID), f.Name, f.Brand, f.Barcode, codec.EncodeTime(f.Date), string(f.MealType),
		f.ServingSize, f.ServingUnit, f.ServingCount, f.Calories, f.Protein, f.Carbs, f.Fat,
		micros, codec.EncodeTime(f.CreatedAt),
	)
	return err
}

func (r *foodsStorage) UpdateFood(ctx context.Context, f *storage.FoodEntry) error {
	query := `
		UPDATE food_entries
		SET name = ?, brand = ?, barcode = ?, date_ms = ?, meal_type = ?, serving_size = ?, serving_unit = ?,
			serving_count = ?, calories = ?, protein = ?, carbs = ?, fat = ?, micronutrients = ?
		WHERE id = ?
	`
	micros, err := codec.EncodeNutrients(f.Micronutrients.ToMap())
	if err != nil {
		return storage.Wrap("update food", err)
	}
	_, err = r.s.exec(ctx, "update food", query,
		f.Name, f.Brand, f.Barcode, codec.EncodeTime(f.Date), string(f.MealType), f.ServingSize, f.ServingUnit,
		f.ServingCount, f.Calories, f.Protein, f.Carbs, f.Fat, micros,
		codec.EncodeID(f.ID),
	)
	return err
}

func (r *foodsStorage) DeleteFood(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete food", `DELETE FROM food_entries WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *foodsStorage) GetFood(ctx context.Context, id uuid.UUID) (*storage.FoodEntry, error) {
	row := r.s.queryRow(ctx, `SELECT `+foodColumns+` FROM food_entries WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get food", scanFood)
}

func (r *foodsStorage) ListFoodsByDate(ctx context.Context, day time.Time) ([]storage.FoodEntry, error) {
	from, to := codec.DayBounds(day)
	return r.ListFoodsInRange(ctx, from, to)
}

func (r *foodsStorage) ListFoodsInRange(ctx context.Context, from, to time.Time) ([]storage.FoodEntry, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM food_entries
		WHERE date_ms >= ? AND date_ms < ?
		ORDER BY date_ms DESC, created_ms DESC
	`
	rows, err := r.s.query(ctx, "list foods", query, codec.EncodeTime(from), codec.EncodeTime(to))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list foods", scanFood)
}

func (r *foodsStorage) SumCaloriesForDate(ctx context.Context, day time.Time) (float64, error) {
	from, to := codec.DayBounds(day)
	query := `
		SELECT COALESCE(SUM(calories * serving_count), 0)
		FROM food_entries
		WHERE date_ms >= ? AND date_ms < ?
	`
	var total float64
	err := r.s.queryRow(ctx, query, codec.EncodeTime(from), codec.EncodeTime(to)).Scan(&total)
	return total, storage.Wrap("sum calories", err)
}

func (r *foodsStorage) SearchFoodHistory(ctx context.Context, q string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT DISTINCT name
		FROM food_entries
		WHERE LOWER(name) LIKE ?
		ORDER BY name
		LIMIT ?
	`
	rows, err := r.s.query(ctx, "search food history", query, likePattern(q), limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, "search food history", func(sc scanner) (string, error) {
		var name string
		err := sc.Scan(&name)
		return name, err
	})
}

func (r *foodsStorage) DeleteFoodsForDate(ctx context.Context, day time.Time) error {
	from, to := codec.DayBounds(day)
	_, err := r.s.exec(ctx, "delete foods for date",
		`DELETE FROM food_entries WHERE date_ms >= ? AND date_ms < ?`,
		codec.EncodeTime(from), codec.EncodeTime(to))
	return err
}

type customFoodsStorage struct {
	s *Store
}

const customFoodColumns = `id, name, brand, barcode, serving_size, serving_unit, calories, protein, carbs, fat,
	micronutrients, created_ms, updated_ms`

func scanCustomFood(sc scanner) (storage.CustomFood, error) {
	var (
		f               storage.CustomFood
		id, micros      string
		createMs, updMs int64
	)
	if err := sc.Scan(&id, &f.Name, &f.Brand, &f.Barcode, &f.ServingSize, &f.ServingUnit, &f.Calories,
		&f.Protein, &f.Carbs, &f.Fat, &micros, &createMs, &updMs); err != nil {
		return f, err
	}
	var err error
	if f.ID, err = codec.DecodeID(id); err != nil {
		return f, err
	}
	m, err := codec.DecodeNutrients(micros)
	if err != nil {
		return f, err
	}
	f.Micronutrients = nutrients.FromMap(m)
	f.CreatedAt = codec.DecodeTime(createMs)
	f.UpdatedAt = codec.DecodeTime(updMs)
	return f, nil
}

func (r *customFoodsStorage) InsertCustomFood(ctx context.Context, f *storage.CustomFood) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	query := `
		INSERT INTO custom_foods (` + customFoodColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	micros, err := codec.EncodeNutrients(f.Micronutrients.ToMap())
	if err != nil {
		return storage.Wrap("insert custom food", err)
	}
	_, err = r.s.exec(ctx, "insert custom food", query,
		codec.EncodeID(f.ID), f.Name, f.Brand, f.Barcode, f.ServingSize, f.ServingUnit, f.Calories, f.Protein,
		f.Carbs, f.Fat, micros, codec.EncodeTime(f.CreatedAt),
		codec.EncodeTime(f.UpdatedAt),
	)
	return err
}

func (r *customFoodsStorage) UpdateCustomFood(ctx context.Context, f *storage.CustomFood) error {
	f.UpdatedAt = time.Now()
	query := `
		UPDATE custom_foods
		SET name = ?, brand = ?, barcode = ?, serving_size = ?, serving_unit = ?, calories = ?, protein = ?,
			carbs = ?, fat = ?, micronutrients = ?, updated_ms = ?
		WHERE id = ?
	`
	micros, err := codec.EncodeNutrients(f.Micronutrients.ToMap())
	if err != nil {
		return storage.Wrap("update custom food", err)
	}
	_, err = r.s.exec(ctx, "update custom food", query,
		f.Name, f.Brand, f.Barcode, f.ServingSize, f.ServingUnit, f.Calories, f.Protein, f.Carbs, f.Fat,
		micros, codec.EncodeTime(f.UpdatedAt), codec.EncodeID(f.ID),
	)
	return err
}

func (r *customFoodsStorage) DeleteCustomFood(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete custom food", `DELETE FROM custom_foods WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *customFoodsStorage) GetCustomFood(ctx context.Context, id uuid.UUID) (*storage.CustomFood, error) {
	row := r.s.queryRow(ctx, `SELECT `+customFoodColumns+` FROM custom_foods WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get custom food", scanCustomFood)
}

func (r *customFoodsStorage) GetCustomFoodByBarcode(ctx context.Context, barcode string) (*storage.CustomFood, error) {
	if barcode == "" {
		return nil, nil
	}
	query := `
		SELECT ` + customFoodColumns + `
		FROM custom_foods
		WHERE barcode = ?
		ORDER BY created_ms DESC
		LIMIT 1
	`
	return one(r.s.queryRow(ctx, query, barcode), "get custom food by barcode", scanCustomFood)
}

func (r *customFoodsStorage) SearchCustomFoods(ctx context.Context, q string) ([]storage.CustomFood, error) {
	query := `
		SELECT ` + customFoodColumns + `
		FROM custom_foods
		WHERE LOWER(name) LIKE ? OR LOWER(brand) LIKE ?
		ORDER BY name
	`
	p := likePattern(q)
	rows, err := r.s.query(ctx, "search custom foods", query, p, p)
	if err != nil {
		return nil, err
	}
	return collect(rows, "search custom foods", scanCustomFood)
}

func (r *customFoodsStorage) ListCustomFoods(ctx context.Context) ([]storage.CustomFood, error) {
	rows, err := r.s.query(ctx, "list custom foods", `SELECT `+customFoodColumns+` FROM custom_foods ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, "list custom foods", scanCustomFood)
}
