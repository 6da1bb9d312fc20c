package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/cli/backups"
	"github.com/julianstephens/mealplan/internal/cli/meals"
	"github.com/julianstephens/mealplan/internal/cli/plans"
	"github.com/julianstephens/mealplan/internal/cli/settings"
	"github.com/julianstephens/mealplan/internal/cli/system"
	"github.com/julianstephens/mealplan/internal/constants"
	apperrors "github.com/julianstephens/mealplan/internal/errors"
	"github.com/julianstephens/mealplan/internal/keyring"
	"github.com/julianstephens/mealplan/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path, or a PostgreSQL or MongoDB connection string. PostgreSQL passwords must NOT be embedded; use the OS keyring, environment variables or .pgpass instead." env:"MEALPLAN_CONFIG" default:"${default_config}"`
	Debug   bool   `help:"Log debug output to stderr." env:"MEALPLAN_DEBUG"`

	Init     system.InitCmd     `cmd:"" help:"Initialize mealplan storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check the meal catalog for conflicts."`
	Plan     plans.PlanCmd      `cmd:"" help:"Generate a daily meal plan."`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the meal planning HTTP API."`
	Meals    struct {
		Browse meals.MealBrowseCmd `cmd:"" help:"Browse the catalog interactively." default:"1"`
		Add    meals.MealAddCmd    `cmd:"" help:"Add a meal."`
		List   meals.MealListCmd   `cmd:"" help:"List meals."`
		Delete meals.MealDeleteCmd `cmd:"" help:"Delete a meal."`
		Import meals.MealImportCmd `cmd:"" help:"Import meals from a JSON or YAML file."`
		Export meals.MealExportCmd `cmd:"" help:"Export the catalog as JSON or YAML."`
	} `cmd:"" help:"Manage the meal catalog."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups (SQLite only)."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the connection string kept in the OS keyring."`
	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Update settings."`
	} `cmd:"" help:"Manage planner settings."`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Pick a day of meals that fits a calorie goal, diet type and restrictions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_addr":   constants.DefaultServerAddr,
		},
	)

	config, fromKeyring := resolveConfig(CLI.Config)

	configDir, err := cli.ConfigDirFor(config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Stderr:    ctx.Command() == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.OpenStore(config, fromKeyring)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:     store,
		ConfigDir: configDir,
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	apperrors.Fatal(err)
}

// resolveConfig prefers a connection string from the OS keyring when --config
// was left at its default.
func resolveConfig(config string) (string, bool) {
	if config != constants.DefaultConfigPath {
		return config, false
	}
	// No keyring on this system is the same as an empty one.
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		return config, false
	}
	return connStr, true
}
