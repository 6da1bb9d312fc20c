package constants

const (
	// Planner Settings
	SettingSolveTimeoutSec    = "solve_timeout_sec"
	SettingEmptyCandidates    = "empty_candidates"
	SettingDefaultDietType    = "default_diet_type"
	SettingDefaultWeightLoss  = "default_weight_loss_kg"
	SettingDefaultMealsPerDay = "default_meals_per_day"

	// Empty candidate policies
	EmptyCandidatesPlan       = "plan"
	EmptyCandidatesInfeasible = "infeasible"

	// Default Settings Values
	DefaultSolveTimeoutSec = 10
	DefaultEmptyCandidates = EmptyCandidatesPlan
	DefaultDietType        = DietTypeLowCarb
	DefaultWeightLossKg    = 0.5
	DefaultMealsPerDay     = 3
)
