package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/models"
)

type InitCmd struct {
	Force  bool   `help:"Reset storage: delete the SQLite file, or empty the catalog and settings on a server."`
	Source string `help:"Source database path or connection string to copy the catalog and settings from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath, isSQLite := ctx.SQLitePath()

	if c.Force && isSQLite {
		// Don't delete the source (user error protection)
		if c.Source != "" {
			absDB, errDB := filepath.Abs(dbPath)
			absSource, errSource := filepath.Abs(c.Source)
			if errDB == nil && errSource == nil && absDB == absSource {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	if c.Force && !isSQLite {
		if err := ctx.Store.ReplaceMeals(nil); err != nil {
			return fmt.Errorf("failed to empty meal catalog: %w", err)
		}
		if err := ctx.Store.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		ctx.Println("Emptied meal catalog and reset settings.")
	}
	ctx.Printf("Initialized mealplan storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source, false)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	ctx.Println("  Copying settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Copying meals...")
	meals, err := source.GetAllMeals()
	if err != nil {
		return fmt.Errorf("failed to get meals from source: %w", err)
	}
	if err := ctx.Store.ReplaceMeals(meals); err != nil {
		return fmt.Errorf("failed to save meals to destination: %w", err)
	}
	ctx.Printf("    Copied %d meals\n", len(meals))

	return nil
}
