package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/mealplan/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingSolveTimeoutSec:
			if _, err := fmt.Sscanf(value, "%d", &settings.SolveTimeoutSec); err != nil {
				return Settings{}, fmt.Errorf("parsing solve_timeout_sec: %w", err)
			}
		case constants.SettingEmptyCandidates:
			settings.EmptyCandidates = value
		case constants.SettingDefaultDietType:
			settings.DefaultDietType = value
		case constants.SettingDefaultWeightLoss:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing default_weight_loss_kg: %w", err)
			}
			settings.DefaultWeightLossKg = v
		case constants.SettingDefaultMealsPerDay:
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultMealsPerDay); err != nil {
				return Settings{}, fmt.Errorf("parsing default_meals_per_day: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingSolveTimeoutSec:    fmt.Sprintf("%d", settings.SolveTimeoutSec),
		constants.SettingEmptyCandidates:    settings.EmptyCandidates,
		constants.SettingDefaultDietType:    settings.DefaultDietType,
		constants.SettingDefaultWeightLoss:  strconv.FormatFloat(settings.DefaultWeightLossKg, 'f', -1, 64),
		constants.SettingDefaultMealsPerDay: fmt.Sprintf("%d", settings.DefaultMealsPerDay),
	}
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		SolveTimeoutSec:     constants.DefaultSolveTimeoutSec,
		EmptyCandidates:     constants.DefaultEmptyCandidates,
		DefaultDietType:     constants.DefaultDietType,
		DefaultWeightLossKg: constants.DefaultWeightLossKg,
		DefaultMealsPerDay:  constants.DefaultMealsPerDay,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
// A zero DefaultWeightLossKg is a valid maintenance goal and is left alone.
func ApplyDefaultSettings(settings *Settings) {
	if settings.SolveTimeoutSec <= 0 {
		settings.SolveTimeoutSec = constants.DefaultSolveTimeoutSec
	}
	if settings.EmptyCandidates == "" {
		settings.EmptyCandidates = constants.DefaultEmptyCandidates
	}
	if settings.DefaultDietType == "" {
		settings.DefaultDietType = constants.DefaultDietType
	}
	if settings.DefaultMealsPerDay <= 0 {
		settings.DefaultMealsPerDay = constants.DefaultMealsPerDay
	}
}
