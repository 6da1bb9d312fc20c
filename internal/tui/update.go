package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/julianstephens/mealplan/internal/errors"
	"github.com/julianstephens/mealplan/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case planMsg:
		m.planning = false
		m.status = ""
		if msg.err != nil {
			logger.Warn("Meal plan not generated", "error", msg.err)
			m.err = errors.New(apperrors.Describe(msg.err))
			return m, nil
		}
		m.err = nil
		m.state = statePlan
		m.viewport.SetContent(RenderPlan(msg.result))
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case stateConfirmDelete:
			return m.updateConfirmDelete(msg)
		case statePlan:
			if key.Matches(msg, m.keys.Back) || msg.String() == "q" {
				m.state = stateBrowse
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		// Let the list own every key while the user types a filter.
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.Plan):
				if m.planning {
					return m, nil
				}
				m.planning = true
				m.status = "Generating plan..."
				return m, m.generatePlan()
			case key.Matches(msg, m.keys.Delete):
				if item, ok := m.list.SelectedItem().(Item); ok {
					meal := item.Meal
					m.pending = &meal
					m.state = stateConfirmDelete
				}
				return m, nil
			case key.Matches(msg, m.keys.Reload):
				m.err = nil
				m.status = "Catalog reloaded"
				return m, m.loadMeals()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		meal := m.pending
		m.pending = nil
		m.state = stateBrowse
		if meal == nil {
			return m, nil
		}
		if err := m.store.DeleteMeal(meal.ID); err != nil {
			m.err = fmt.Errorf("failed to delete %s: %w", meal.Name, err)
			return m, nil
		}
		logger.Info("Meal deleted", "id", meal.ID, "name", meal.Name)
		m.err = nil
		m.status = fmt.Sprintf("Deleted %s", meal.Name)
		return m, m.loadMeals()
	case key.Matches(msg, m.keys.Cancel):
		m.pending = nil
		m.state = stateBrowse
		return m, nil
	}
	return m, nil
}
