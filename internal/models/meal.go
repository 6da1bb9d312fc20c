package models

// Meal is a catalog entry. The planner treats meals as read-only.
type Meal struct {
	ID           string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string  `json:"name" yaml:"name"`
	Calories     float64 `json:"calories" yaml:"calories"`
	Protein      float64 `json:"protein" yaml:"protein"` // grams
	Carbs        float64 `json:"carbs" yaml:"carbs"`     // grams
	Fat          float64 `json:"fat" yaml:"fat"`         // grams
	Type         string  `json:"type" yaml:"type"`       // diet type tag, e.g. "low-carb"
	IsVegetarian bool    `json:"isVegetarian" yaml:"isVegetarian"`
	IsVegan      bool    `json:"isVegan" yaml:"isVegan"`
}
