package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type recipesStorage struct {
	s *Store
}

const recipeColumns = `id, name, description, category, servings, prep_minutes, cook_minutes, calories, protein,
	carbs, fat, ingredients, instructions, tags, is_favorite, source, image_url, created_ms, updated_ms`

func scanRecipe(sc scanner) (storage.Recipe, error) {
	var (
		r                            storage.Recipe
		id, ingredients, steps, tags string
		createMs, updMs              int64
	)
	if err := sc.Scan(&id, &r.Name, &r.Description, &r.Category, &r.Servings, &r.PrepMinutes, &r.CookMinutes,
		&r.Calories, &r.Protein, &r.Carbs, &r.Fat, &ingredients, &steps, &tags, &r.IsFavorite, &r.Source,
		&r.ImageURL, &createMs, &updMs); err != nil {
		return r, err
	}
	var err error
	if r.ID, err = codec.DecodeID(id); err != nil {
		return r, err
	}
	r.Ingredients = codec.DecodeList(ingredients)
	r.Instructions = codec.DecodeList(steps)
	r.Tags = codec.DecodeList(tags)
	r.CreatedAt = codec.DecodeTime(createMs)
	r.UpdatedAt = codec.DecodeTime(updMs)
	return r, nil
}

func (rs *recipesStorage) SaveRecipe(ctx context.Context, r *storage.Recipe) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	query := `
		INSERT INTO recipes (` + recipeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			servings = excluded.servings,
			prep_minutes = excluded.prep_minutes,
			cook_minutes = excluded.cook_minutes,
			calories = excluded.calories,
			protein = excluded.protein,
			carbs = excluded.carbs,
			fat = excluded.fat,
			ingredients = excluded.ingredients,
			instructions = excluded.instructions,
			tags = excluded.tags,
			is_favorite = excluded.is_favorite,
			source = excluded.source,
			image_url = excluded.image_url,
			updated_ms = excluded.updated_ms
	`
	ingredients, err := codec.EncodeList(r.Ingredients)
	if err != nil {
		return storage.Wrap("save recipe ingredients", err)
	}
	instructions, err := codec.EncodeList(r.Instructions)
	if err != nil {
		return storage.Wrap("save recipe instructions", err)
	}
	tags, err := codec.EncodeList(r.Tags)
	if err != nil {
		return storage.Wrap("save recipe tags", err)
	}
	_, err = rs.s.exec(ctx, "save recipe", query,
		codec.EncodeID(r.ID), r.Name, r.Description, r.Category, r.Servings, r.PrepMinutes, r.CookMinutes,
		r.Calories, r.Protein, r.Carbs, r.Fat, ingredients, instructions,
		tags, r.IsFavorite, r.Source, r.ImageURL, codec.EncodeTime(r.CreatedAt),
		codec.EncodeTime(r.UpdatedAt),
	)
	return err
}

func (rs *recipesStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	_, err := rs.s.exec(ctx, "delete recipe", `DELETE FROM recipes WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (rs *recipesStorage) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	row := rs.s.queryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get recipe", scanRecipe)
}

func (rs *recipesStorage) list(ctx context.Context, op, where string, args ...any) ([]storage.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY name`
	rows, err := rs.s.query(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, op, scanRecipe)
}

func (rs *recipesStorage) ListRecipes(ctx context.Context) ([]storage.Recipe, error) {
	return rs.list(ctx, "list recipes", "")
}

func (rs *recipesStorage) ListFavoriteRecipes(ctx context.Context) ([]storage.Recipe, error) {
	return rs.list(ctx, "list favorite recipes", "is_favorite = ?", true)
}

func (rs *recipesStorage) ListRecipesByCategory(ctx context.Context, category string) ([]storage.Recipe, error) {
	return rs.list(ctx, "list recipes by category", "LOWER(category) = LOWER(?)", category)
}

func (rs *recipesStorage) SearchRecipes(ctx context.Context, q string) ([]storage.Recipe, error) {
	p := likePattern(q)
	return rs.list(ctx, "search recipes", "LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", p, p, p)
}

func (rs *recipesStorage) SetRecipeFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	_, err := rs.s.exec(ctx, "set recipe favorite",
		`UPDATE recipes SET is_favorite = ?, updated_ms = ? WHERE id = ?`,
		favorite, codec.EncodeTime(time.Now()), codec.EncodeID(id))
	return err
}

type mealPlansStorage struct {
	s *Store
}

const mealPlanColumns = `id, date_ms, meal_type, recipe_id, name, servings, calories, notes, created_ms`

func scanMealPlan(sc scanner) (storage.MealPlan, error) {
	var (
		p                storage.MealPlan
		id, mealType     string
		recipeID         sql.NullString
		dateMs, createMs int64
	)
	if err := sc.Scan(&id, &dateMs, &mealType, &recipeID, &p.Name, &p.Servings, &p.Calories, &p.Notes, &createMs); err != nil {
		return p, err
	}
	var err error
	if p.ID, err = codec.DecodeID(id); err != nil {
		return p, err
	}
	if recipeID.Valid && recipeID.String != "" {
		rid, err := codec.DecodeID(recipeID.String)
		if err != nil {
			return p, err
		}
		p.RecipeID = &rid
	}
	p.MealType = storage.MealType(mealType)
	p.Date = codec.DecodeTime(dateMs)
	p.CreatedAt = codec.DecodeTime(createMs)
	return p, nil
}

func optionalID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: codec.EncodeID(*id), Valid: true}
}

func (r *mealPlansStorage) InsertMealPlan(ctx context.Context, p *storage.MealPlan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := r.s.exec(ctx, "insert meal plan", `
		INSERT INTO meal_plans (`+mealPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, codec.EncodeID(p.ID), codec.EncodeTime(p.Date), string(p.MealType), optionalID(p.RecipeID), p.Name,
		p.Servings, p.Calories, p.Notes, codec.EncodeTime(p.CreatedAt))
	return err
}

func (r *mealPlansStorage) UpdateMealPlan(ctx context.Context, p *storage.MealPlan) error {
	_, err := r.s.exec(ctx, "update meal plan", `
		UPDATE meal_plans
		SET date_ms = ?, meal_type = ?, recipe_id = ?, name = ?, servings = ?, calories = ?, notes = ?
		WHERE id = ?
	`, codec.EncodeTime(p.Date), string(p.MealType), optionalID(p.RecipeID), p.Name, p.Servings, p.Calories,
		p.Notes, codec.EncodeID(p.ID))
	return err
}

func (r *mealPlansStorage) DeleteMealPlan(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete meal plan", `DELETE FROM meal_plans WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *mealPlansStorage) ListMealPlansByDate(ctx context.Context, day time.Time) ([]storage.MealPlan, error) {
	from, to := codec.DayBounds(day)
	return r.ListMealPlansInRange(ctx, from, to)
}

func (r *mealPlansStorage) ListMealPlansInRange(ctx context.Context, from, to time.Time) ([]storage.MealPlan, error) {
	rows, err := r.s.query(ctx, "list meal plans", `
		SELECT `+mealPlanColumns+`
		FROM meal_plans
		WHERE date_ms >= ? AND date_ms < ?
		ORDER BY date_ms ASC, created_ms ASC
	`, codec.EncodeTime(from), codec.EncodeTime(to))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list meal plans", scanMealPlan)
}

func (r *mealPlansStorage) DeleteMealPlansForDate(ctx context.Context, day time.Time) error {
	from, to := codec.DayBounds(day)
	_, err := r.s.exec(ctx, "delete meal plans for date",
		`DELETE FROM meal_plans WHERE date_ms >= ? AND date_ms < ?`,
		codec.EncodeTime(from), codec.EncodeTime(to))
	return err
}

type groceryListsStorage struct {
	s *Store
}

const groceryColumns = `id, name, items, is_completed, created_ms, updated_ms`

func scanGroceryList(sc scanner) (storage.GroceryList, error) {
	var (
		l               storage.GroceryList
		id, items       string
		createMs, updMs int64
	)
	if err := sc.Scan(&id, &l.Name, &items, &l.IsCompleted, &createMs, &updMs); err != nil {
		return l, err
	}
	var err error
	if l.ID, err = codec.DecodeID(id); err != nil {
		return l, err
	}
	l.Items = codec.DecodeList(items)
	l.CreatedAt = codec.DecodeTime(createMs)
	l.UpdatedAt = codec.DecodeTime(updMs)
	return l, nil
}

func (r *groceryListsStorage) InsertGroceryList(ctx context.Context, l *storage.GroceryList) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	items, err := codec.EncodeList(l.Items)
	if err != nil {
		return storage.Wrap("insert grocery list", err)
	}
	_, err = r.s.exec(ctx, "insert grocery list", `
		INSERT INTO grocery_lists (`+groceryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, codec.EncodeID(l.ID), l.Name, items, l.IsCompleted, codec.EncodeTime(l.CreatedAt),
		codec.EncodeTime(l.UpdatedAt))
	return err
}

func (r *groceryListsStorage) UpdateGroceryList(ctx context.Context, l *storage.GroceryList) error {
	items, err := codec.EncodeList(l.Items)
	if err != nil {
		return storage.Wrap("update grocery list", err)
	}
	l.UpdatedAt = time.Now()
	_, err = r.s.exec(ctx, "update grocery list", `
		UPDATE grocery_lists
		SET name = ?, items = ?, is_completed = ?, updated_ms = ?
		WHERE id = ?
	`, l.Name, items, l.IsCompleted, codec.EncodeTime(l.UpdatedAt), codec.EncodeID(l.ID))
	return err
}

func (r *groceryListsStorage) DeleteGroceryList(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete grocery list", `DELETE FROM grocery_lists WHERE id = ?`, codec.EncodeID(id))
	return err
}

func (r *groceryListsStorage) GetGroceryList(ctx context.Context, id uuid.UUID) (*storage.GroceryList, error) {
	row := r.s.queryRow(ctx, `SELECT `+groceryColumns+` FROM grocery_lists WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get grocery list", scanGroceryList)
}

func (r *groceryListsStorage) ListGroceryLists(ctx context.Context, completed bool) ([]storage.GroceryList, error) {
	rows, err := r.s.query(ctx, "list grocery lists", `
		SELECT `+groceryColumns+`
		FROM grocery_lists
		WHERE is_completed = ?
		ORDER BY created_ms DESC
	`, completed)
	if err != nil {
		return nil, err
	}
	return collect(rows, "list grocery lists", scanGroceryList)
}
