package constants

// Energy-balance baselines. These are fixed and not personalised.
const (
	MaintenanceCalories = 2200.0
	KcalPerKgFat        = 7700.0
	DaysPerWeek         = 7.0
	ProteinMinGrams     = 60.0

	FatMaxLowFat    = 50.0
	FatMaxDefault   = 200.0
	CarbsMaxLowCarb = 100.0
	CarbsMaxDefault = 500.0
)

// Diet type tags understood by the constraint builder. Other tags are
// still matched exactly by the candidate filter.
const (
	DietTypeLowCarb = "low-carb"
	DietTypeLowFat  = "low-fat"
)

// Dietary restriction tags. Unknown tags are ignored.
const (
	RestrictionVegetarian = "vegetarian"
	RestrictionVegan      = "vegan"
)

// Variable naming for the optimisation model.
const VariablePrefix = "meal"
