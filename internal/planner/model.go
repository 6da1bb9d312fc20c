package planner

import (
	"strconv"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/solver"
)

// Nutritional attributes a model can constrain or optimise.
const (
	AttrCalories = "calories"
	AttrProtein  = "protein"
	AttrCarbs    = "carbs"
	AttrFat      = "fat"
)

// Variable is the 0/1 decision for one candidate meal. Variables are tied to
// candidates by position: the i-th variable is VariableID(i).
type Variable struct {
	ID       string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Limit bounds the total of one attribute over the selected meals.
type Limit struct {
	Attribute string
	Sense     solver.Sense
	Value     float64
}

// OptimizationModel is built fresh for each request.
type OptimizationModel struct {
	Objective string // attribute to maximise
	Variables []Variable
	Limits    []Limit
}

// VariableID names the decision variable for the candidate at index i.
func VariableID(i int) string {
	return constants.VariablePrefix + strconv.Itoa(i)
}

// BuildModel creates one variable per candidate, maximising total calories
// subject to the calorie ceiling, the fat and carb maxima and the protein
// floor. An empty candidate list yields a model with no variables.
func BuildModel(candidates []models.Meal, targets models.NutritionalTargets) OptimizationModel {
	vars := make([]Variable, len(candidates))
	for i, meal := range candidates {
		vars[i] = Variable{
			ID:       VariableID(i),
			Calories: meal.Calories,
			Protein:  meal.Protein,
			Carbs:    meal.Carbs,
			Fat:      meal.Fat,
		}
	}

	return OptimizationModel{
		Objective: AttrCalories,
		Variables: vars,
		Limits: []Limit{
			{Attribute: AttrCalories, Sense: solver.LessOrEqual, Value: targets.DailyTargetCalories},
			{Attribute: AttrFat, Sense: solver.LessOrEqual, Value: targets.FatMaxGrams},
			{Attribute: AttrCarbs, Sense: solver.LessOrEqual, Value: targets.CarbsMaxGrams},
			{Attribute: AttrProtein, Sense: solver.GreaterOrEqual, Value: targets.ProteinMinGrams},
		},
	}
}

func (v Variable) coefficient(attr string) float64 {
	switch attr {
	case AttrCalories:
		return v.Calories
	case AttrProtein:
		return v.Protein
	case AttrCarbs:
		return v.Carbs
	case AttrFat:
		return v.Fat
	default:
		return 0
	}
}

// Problem converts the model to the solver's positional form.
func (m OptimizationModel) Problem() solver.Problem {
	p := solver.Problem{
		Objective:   m.column(m.Objective),
		Constraints: make([]solver.Constraint, 0, len(m.Limits)),
	}
	for _, l := range m.Limits {
		p.Constraints = append(p.Constraints, solver.Constraint{
			Name:   l.Attribute,
			Coeffs: m.column(l.Attribute),
			Sense:  l.Sense,
			Bound:  l.Value,
		})
	}
	return p
}

func (m OptimizationModel) column(attr string) []float64 {
	col := make([]float64, len(m.Variables))
	for i, v := range m.Variables {
		col[i] = v.coefficient(attr)
	}
	return col
}
