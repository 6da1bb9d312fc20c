package postgres

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

const insertMealSQL = `
	INSERT INTO meals (` + mealColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func scanMeals(rows *sql.Rows) ([]models.Meal, error) {
	defer rows.Close()

	meals := make([]models.Meal, 0)
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Type, &m.IsVegetarian, &m.IsVegan); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func mealArgs(m models.Meal) []any {
	return []any{m.ID, m.Name, m.Calories, m.Protein, m.Carbs, m.Fat, m.Type, m.IsVegetarian, m.IsVegan}
}

func (s *Store) AddMeal(meal models.Meal) error {
	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}
	if _, err := s.db.Exec(insertMealSQL, mealArgs(meal)...); err != nil {
		return fmt.Errorf("failed to add meal %q: %w", meal.Name, err)
	}
	return nil
}

func (s *Store) GetMeal(id string) (models.Meal, error) {
	var m models.Meal
	err := s.db.QueryRow(`SELECT `+mealColumns+` FROM meals WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Type, &m.IsVegetarian, &m.IsVegan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meal{}, fmt.Errorf("meal %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

func (s *Store) GetAllMeals() ([]models.Meal, error) {
	rows, err := s.db.Query(`SELECT ` + mealColumns + ` FROM meals ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return scanMeals(rows)
}

func (s *Store) DeleteMeal(id string) error {
	res, err := s.db.Exec(`DELETE FROM meals WHERE id = $1`, id)
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
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM meals`); err != nil {
		return fmt.Errorf("failed to clear meals: %w", err)
	}
	stmt, err := tx.Prepare(insertMealSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range meals {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if _, err := stmt.Exec(mealArgs(m)...); err != nil {
			return fmt.Errorf("failed to insert meal %q: %w", m.Name, err)
		}
	}
	return tx.Commit()
}

// catalogSession reads the catalog inside a read-only transaction on a
// dedicated connection.
type catalogSession struct {
	conn *sql.Conn
	tx   *sql.Tx
}

func (s *Store) OpenCatalog(ctx context.Context) (storage.CatalogSession, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	return &catalogSession{conn: conn, tx: tx}, nil
}

func (c *catalogSession) FetchAllMeals(ctx context.Context) ([]models.Meal, error) {
	rows, err := c.tx.QueryContext(ctx, `SELECT `+mealColumns+` FROM meals ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return scanMeals(rows)
}

func (c *catalogSession) Close() error {
	rbErr := c.tx.Rollback()
	if errors.Is(rbErr, sql.ErrTxDone) {
		rbErr = nil
	}
	return errors.Join(rbErr, c.conn.Close())
}
