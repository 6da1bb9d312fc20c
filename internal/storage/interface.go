package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/mealplan/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// CatalogSession is a read-only handle on the meal catalog, scoped to a
// single planning request. Close must be called exactly once.
type CatalogSession interface {
	// FetchAllMeals returns every meal in catalog order.
	FetchAllMeals(ctx context.Context) ([]models.Meal, error)
	Close() error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Meals
	AddMeal(models.Meal) error
	GetMeal(id string) (models.Meal, error)
	GetAllMeals() ([]models.Meal, error)
	DeleteMeal(id string) error
	// ReplaceMeals atomically swaps the whole catalog for meals.
	ReplaceMeals([]models.Meal) error

	// OpenCatalog hands out a dedicated session for one planning request.
	OpenCatalog(ctx context.Context) (CatalogSession, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL backends, which carry a versioned schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
