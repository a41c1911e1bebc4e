package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// ConfirmModel - Interactive yes/no prompt
// =============================================================================

// ConfirmModel is the bubbletea model for the pre-placement confirmation
// prompt. It renders the detected rectangle count and waits for a single
// key: y/enter confirms, n/q/esc declines.
type ConfirmModel struct {
	Rectangles int
	Accepted   bool
	answered   bool
}

// NewConfirmModel creates a confirm prompt for the given rectangle count.
func NewConfirmModel(rectangles int) ConfirmModel {
	return ConfirmModel{Rectangles: rectangles}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.Accepted = true
			m.answered = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.Accepted = false
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}

	var b strings.Builder
	noun := "rectangles"
	if m.Rectangles == 1 {
		noun = "rectangle"
	}
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Found %d %s", m.Rectangles, noun)))
	b.WriteString("\n")
	b.WriteString(StyleValue.Render("Create one column per rectangle?"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render("y confirm · n cancel"))
	b.WriteString("\n")
	return b.String()
}

// confirmPlacement runs the interactive prompt and reports the answer.
// Any prompt failure counts as a decline; placement must never proceed on
// an unconfirmed selection.
func confirmPlacement(rectangles int) bool {
	p := tea.NewProgram(NewConfirmModel(rectangles))
	final, err := p.Run()
	if err != nil {
		return false
	}
	m, ok := final.(ConfirmModel)
	return ok && m.Accepted
}
