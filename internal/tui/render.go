package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/mealplan/internal/models"
)

// RenderPlan draws the selected meals and their totals as a table.
func RenderPlan(result models.MealPlanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Meal plan"))
	fmt.Fprintf(&b, "Target: %.0f kcal/day (losing %.2f kg/week)\n\n", result.TargetCalories, result.WeightLossPerWeek)

	if len(result.SelectedMeals) == 0 {
		b.WriteString(mutedStyle.Render("No meals match the diet type and restrictions."))
		b.WriteString("\n")
		return b.String()
	}

	t := newTable("Meal", "Type", "kcal", "Protein", "Carbs", "Fat")
	for _, m := range result.SelectedMeals {
		t.Row(m.Name, m.Type, number(m.Calories), grams(m.Protein), grams(m.Carbs), grams(m.Fat))
	}
	cal, protein, carbs, fat := result.Totals()
	t.Row("Total", "", number(cal), grams(protein), grams(carbs), grams(fat))

	b.WriteString(t.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "\n%d meals, %.0f of %.0f kcal\n", len(result.SelectedMeals), result.TotalCalories, result.TargetCalories)
	return b.String()
}

// RenderMeals draws the catalog as a table.
func RenderMeals(meals []models.Meal) string {
	if len(meals) == 0 {
		return mutedStyle.Render("No meals in the catalog. Add some with 'mealplan meals import'.") + "\n"
	}

	t := newTable("ID", "Meal", "Type", "kcal", "Protein", "Carbs", "Fat", "Tags")
	for _, m := range meals {
		t.Row(m.ID, m.Name, m.Type, number(m.Calories), grams(m.Protein), grams(m.Carbs), grams(m.Fat), dietTags(m))
	}
	return t.Render() + "\n"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func dietTags(m models.Meal) string {
	switch {
	case m.IsVegan:
		return "vegan"
	case m.IsVegetarian:
		return "vegetarian"
	default:
		return ""
	}
}

func number(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func grams(v float64) string {
	return fmt.Sprintf("%.0fg", v)
}
