package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	switch m.state {
	case statePlan:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("esc: back to catalog"))
	case stateConfirmDelete:
		b.WriteString(m.list.View())
		b.WriteString("\n")
		if m.pending != nil {
			b.WriteString(dangerStyle.Render(fmt.Sprintf("Delete %s? [y/N]", m.pending.Name)))
		}
	default:
		b.WriteString(m.list.View())
		b.WriteString("\n")
		switch {
		case m.err != nil:
			b.WriteString(warningStyle.Render(m.err.Error()))
		case m.status != "":
			b.WriteString(mutedStyle.Render(m.status))
		default:
			b.WriteString(m.help.View(m.keys))
		}
	}

	return docStyle.Render(b.String())
}
