package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

const mealColumns = `id, name, calories, protein, carbs, fat, type, is_vegetarian, is_vegan`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (models.Meal, error) {
	var m models.Meal
	err := row.Scan(&m.ID, &m.Name, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Type, &m.IsVegetarian, &m.IsVegan)
	return m, err
}

func queryMeals(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}) ([]models.Meal, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+mealColumns+` FROM meals ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]models.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func insertMeal(ctx context.Context, exec interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, meal models.Meal) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO meals (`+mealColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meal.ID, meal.Name, meal.Calories, meal.Protein, meal.Carbs, meal.Fat,
		meal.Type, meal.IsVegetarian, meal.IsVegan)
	return err
}

// AddMeal inserts meal, assigning a new ID when it has none.
func (s *Store) AddMeal(meal models.Meal) error {
	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}
	if err := insertMeal(context.Background(), s.db, meal); err != nil {
		return fmt.Errorf("failed to add meal %q: %w", meal.Name, err)
	}
	return nil
}

func (s *Store) GetMeal(id string) (models.Meal, error) {
	row := s.db.QueryRow(`SELECT `+mealColumns+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meal{}, fmt.Errorf("meal %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

func (s *Store) GetAllMeals() ([]models.Meal, error) {
	return queryMeals(context.Background(), s.db)
}

func (s *Store) DeleteMeal(id string) error {
	res, err := s.db.Exec(`DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("meal %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ReplaceMeals(meals []models.Meal) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM meals`); err != nil {
		return fmt.Errorf("failed to clear meals: %w", err)
	}
	for _, m := range meals {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if err := insertMeal(ctx, tx, m); err != nil {
			return fmt.Errorf("failed to insert meal %q: %w", m.Name, err)
		}
	}
	return tx.Commit()
}

// catalogSession pins one pooled connection for the life of a request.
type catalogSession struct {
	conn *sql.Conn
}

func (s *Store) OpenCatalog(ctx context.Context) (storage.CatalogSession, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &catalogSession{conn: conn}, nil
}

func (c *catalogSession) FetchAllMeals(ctx context.Context) ([]models.Meal, error) {
	return queryMeals(ctx, c.conn)
}

func (c *catalogSession) Close() error {
	return c.conn.Close()
}
