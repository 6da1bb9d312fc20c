package models

// Settings represents application-wide settings
type Settings struct {
	SolveTimeoutSec     int     `json:"solve_timeout_sec" yaml:"solve_timeout_sec"`           // upper bound on a single solve
	EmptyCandidates     string  `json:"empty_candidates" yaml:"empty_candidates"`             // "plan" or "infeasible"
	DefaultDietType     string  `json:"default_diet_type" yaml:"default_diet_type"`           // used when a request omits dietType
	DefaultWeightLossKg float64 `json:"default_weight_loss_kg" yaml:"default_weight_loss_kg"` // used when a request omits the goal
	DefaultMealsPerDay  int     `json:"default_meals_per_day" yaml:"default_meals_per_day"`
}
