// Package sqlstore implements storage.Store over database/sql for SQLite
// (modernc.org/sqlite) and PostgreSQL (pgx). Both dialects share one schema
// and one set of queries; placeholders are rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store is the SQL implementation of storage.Store.
type Store struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect Dialect

	foods        *foodsStorage
	exercises    *exercisesStorage
	water        *waterStorage
	supplements  *supplementsStorage
	weights      *weightsStorage
	customFoods  *customFoodsStorage
	recipes      *recipesStorage
	mealPlans    *mealPlansStorage
	groceryLists *groceryListsStorage
	goals        *goalsStorage
	profile      *profileStorage
	meta         *metaStorage
	exports      *exportsStorage
}

// New wraps an open database handle.
func New(db *sql.DB, dialect Dialect) *Store {
	s := &Store{db: db, dialect: dialect}
	s.foods = &foodsStorage{s}
	s.exercises = &exercisesStorage{s}
	s.water = &waterStorage{s}
	s.supplements = &supplementsStorage{s}
	s.weights = &weightsStorage{s}
	s.customFoods = &customFoodsStorage{s}
	s.recipes = &recipesStorage{s}
	s.mealPlans = &mealPlansStorage{s}
	s.groceryLists = &groceryListsStorage{s}
	s.goals = &goalsStorage{s}
	s.profile = &profileStorage{s}
	s.meta = &metaStorage{s}
	s.exports = &exportsStorage{s}
	return s
}

// OpenSQLite opens (creating if needed) the database file at path and
// applies pragmas. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := enablePragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	return New(db, DialectSQLite), nil
}

func enablePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// OpenPostgres connects a pgx pool and exposes it through database/sql.
func OpenPostgres(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := New(stdlib.OpenDBFromPool(pool), DialectPostgres)
	s.pool = pool
	return s, nil
}

// Migrate applies pending goose migrations from the embedded FS.
func (s *Store) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.db, s.dialect, "up")
}

// RunMigrations runs a goose command (up, down, status, ...) against db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect, command string) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}
	return nil
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Foods() storage.FoodStorage               { return s.foods }
func (s *Store) Exercises() storage.ExerciseStorage       { return s.exercises }
func (s *Store) Water() storage.WaterStorage              { return s.water }
func (s *Store) Supplements() storage.SupplementStorage   { return s.supplements }
func (s *Store) Weights() storage.WeightStorage           { return s.weights }
func (s *Store) CustomFoods() storage.CustomFoodStorage   { return s.customFoods }
func (s *Store) Recipes() storage.RecipeStorage           { return s.recipes }
func (s *Store) MealPlans() storage.MealPlanStorage       { return s.mealPlans }
func (s *Store) GroceryLists() storage.GroceryListStorage { return s.groceryLists }
func (s *Store) Goals() storage.GoalStorage               { return s.goals }
func (s *Store) Profile() storage.ProfileStorage          { return s.profile }
func (s *Store) Meta() storage.MetaStorage                { return s.meta }
func (s *Store) Exports() storage.ExportStorage           { return s.exports }

func (s *Store) Ping(ctx context.Context) error {
	return storage.Wrap("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inString := false
	for _, r := range query {
		switch {
		case r == '\'':
			inString = !inString
			b.WriteRune(r)
		case r == '?' && !inString:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrConflict
		}
		return nil, storage.Wrap(op, err)
	}
	return res, nil
}

func (s *Store) query(ctx context.Context, op, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return rows, nil
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// isUniqueViolation detects primary-key and unique constraint failures.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

// collect scans every row with scan and returns rows.Err().
func collect[T any](rows *sql.Rows, op string, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, storage.Wrap(op, err)
		}
		out = append(out, v)
	}
	return out, storage.Wrap(op, rows.Err())
}

// one returns nil when the query matched nothing.
func one[T any](row *sql.Row, op string, scan func(scanner) (T, error)) (*T, error) {
	v, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return &v, nil
}

func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.NewReplacer("%", "", "_", "").Replace(q)
	return "%" + q + "%"
}
