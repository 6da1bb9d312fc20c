// Package tui is the interactive meal catalog browser.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planner"
)

// Store is the subset of storage.Provider the browser needs.
type Store interface {
	planner.Catalog
	GetSettings() (models.Settings, error)
	GetAllMeals() ([]models.Meal, error)
	DeleteMeal(id string) error
}

type sessionState int

const (
	stateBrowse sessionState = iota
	stateConfirmDelete
	statePlan
)

// Item adapts a meal to the list component.
type Item struct {
	Meal models.Meal
}

func (i Item) Title() string {
	if tags := dietTags(i.Meal); tags != "" {
		return fmt.Sprintf("%s (%s)", i.Meal.Name, tags)
	}
	return i.Meal.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %.0f kcal · P %.0fg · C %.0fg · F %.0fg",
		i.Meal.Type, i.Meal.Calories, i.Meal.Protein, i.Meal.Carbs, i.Meal.Fat)
}

func (i Item) FilterValue() string { return i.Meal.Name + " " + i.Meal.Type }

type KeyMap struct {
	Plan    key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Back    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Plan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "plan today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Plan, k.Delete, k.Reload, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Back, k.Confirm, k.Cancel}}
}

// planMsg carries the outcome of a background planning request.
type planMsg struct {
	result models.MealPlanResult
	err    error
}

type Model struct {
	store    Store
	state    sessionState
	keys     KeyMap
	help     help.Model
	list     list.Model
	viewport viewport.Model
	pending  *models.Meal
	status   string
	err      error
	planning bool
	quitting bool
	width    int
	height   int
}

func NewModel(store Store) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Meal catalog"
	l.SetShowHelp(false)

	m := Model{
		store:    store,
		state:    stateBrowse,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		list:     l,
		viewport: viewport.New(0, 0),
	}
	m.loadMeals()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// loadMeals refreshes the list from the store and records any failure in
// the status line.
func (m *Model) loadMeals() tea.Cmd {
	meals, err := m.store.GetAllMeals()
	if err != nil {
		m.err = fmt.Errorf("failed to load meals: %w", err)
		return nil
	}
	items := make([]list.Item, len(meals))
	for i, meal := range meals {
		items[i] = Item{Meal: meal}
	}
	return m.list.SetItems(items)
}

func (m Model) generatePlan() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		settings, err := store.GetSettings()
		if err != nil {
			return planMsg{err: fmt.Errorf("failed to get settings: %w", err)}
		}
		models.ApplyDefaultSettings(&settings)

		input := models.UserConstraintInput{
			WeightLossPerWeekKg: settings.DefaultWeightLossKg,
			DietType:            settings.DefaultDietType,
			Restrictions:        []string{},
			MealsPerDay:         settings.DefaultMealsPerDay,
		}
		result, err := planner.New(store, planner.OptionsFromSettings(settings)).GeneratePlan(context.Background(), input)
		return planMsg{result: result, err: err}
	}
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	h, v := docStyle.GetFrameSize()
	helpHeight := 2
	m.list.SetSize(width-h, height-v-helpHeight)
	m.viewport.Width = width - h
	m.viewport.Height = height - v - helpHeight
}
