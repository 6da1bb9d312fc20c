package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/mealplan/internal/backup"
	"github.com/julianstephens/mealplan/internal/cli"
	apperrors "github.com/julianstephens/mealplan/internal/errors"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planner"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/validation"
)

// errSkipped marks a check that does not apply to the current backend.
var errSkipped = errors.New("skipped")

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %v\n", err)
	}
	skip := func(name, reason string) {
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}
	ok := func(name string) {
		ctx.Printf("✓ %s: OK\n", name)
	}

	// Check 1: DB reachable
	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		fail("Database reachable", err)
	} else {
		ok("Database reachable")
		dbReachable = true
	}

	// Check 2: Schema version
	if !dbReachable {
		skip("Schema version", "database not reachable")
	} else if err := checkSchemaVersion(ctx); errors.Is(err, errSkipped) {
		skip("Schema version", "backend has no schema")
	} else if err != nil {
		fail("Schema version", err)
	} else {
		ok("Schema version")
	}

	// Check 3: Settings sane
	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			fail("Settings", err)
		} else {
			ok("Settings")
		}
	} else {
		skip("Settings", "database not reachable")
	}

	// Check 4: Catalog present (warning only)
	var meals []models.Meal
	if dbReachable {
		var err error
		meals, err = ctx.Store.GetAllMeals()
		switch {
		case err != nil:
			fail("Meal catalog", fmt.Errorf("failed to get meals: %w", err))
		case len(meals) == 0:
			warn("Meal catalog", errors.New("catalog is empty - add meals with 'mealplan meals import' or 'mealplan meals add'"))
		default:
			ok(fmt.Sprintf("Meal catalog (%d meals)", len(meals)))
		}
	} else {
		skip("Meal catalog", "database not reachable")
	}

	// Check 5: Catalog validation
	if dbReachable {
		result := validation.New().ValidateMeals(meals)
		if result.HasConflicts() {
			fail("Catalog validation", fmt.Errorf("%d conflict(s), run 'mealplan validate' for details", len(result.Conflicts)))
		} else {
			ok("Catalog validation")
		}
	} else {
		skip("Catalog validation", "database not reachable")
	}

	// Check 6: Default request is plannable (warning only)
	if dbReachable && len(meals) > 0 {
		if err := checkDefaultPlan(ctx); err != nil {
			warn("Default plan", err)
		} else {
			ok("Default plan")
		}
	} else {
		skip("Default plan", "no catalog")
	}

	// Check 7: Backups present (warning only)
	switch err := checkBackupsPresent(ctx); {
	case errors.Is(err, errSkipped):
		skip("Backups present", "backups are only kept for SQLite")
	case err != nil:
		warn("Backups present", err)
	default:
		ok("Backups present")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	// Round trip through a planning session, which is what requests use.
	session, err := ctx.Store.OpenCatalog(context.Background())
	if err != nil {
		return fmt.Errorf("failed to open catalog session: %w", err)
	}
	return session.Close()
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errSkipped
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'mealplan migrate')", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return validation.ValidateSettings(settings)
}

func checkDefaultPlan(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	input := models.UserConstraintInput{
		WeightLossPerWeekKg: settings.DefaultWeightLossKg,
		DietType:            settings.DefaultDietType,
		Restrictions:        []string{},
		MealsPerDay:         settings.DefaultMealsPerDay,
	}
	result, err := planner.New(ctx.Store, planner.OptionsFromSettings(settings)).GeneratePlan(context.Background(), input)
	if err != nil {
		return errors.New(apperrors.Describe(err))
	}
	if len(result.SelectedMeals) == 0 {
		return fmt.Errorf("no meals are tagged %q", settings.DefaultDietType)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return errSkipped
	}

	mgr := backup.NewManager(path)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'mealplan backup create'")
	}
	return nil
}
