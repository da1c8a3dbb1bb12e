package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// BaseModel contains the fields and helpers shared by all screens.
type BaseModel struct {
	State *State

	cursor  int
	title   string
	message string
	err     error
}

func (m BaseModel) Init() tea.Cmd {
	return nil
}

func (m *BaseModel) navigateUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *BaseModel) navigateDown(maxCursor int) {
	if m.cursor < maxCursor {
		m.cursor++
	}
}

func (m *BaseModel) setError(err error) {
	m.err = err
	if err != nil {
		m.message = ""
	}
}

func (m *BaseModel) setMessage(message string) {
	m.message = message
	m.err = nil
}

func (m BaseModel) renderInner(
	f func(*strings.Builder) *strings.Builder,
	help string,
) string {
	var s strings.Builder
	if m.title != "" {
		s.WriteString(Styles.Title.Render(" "+m.title+" ") + "\n\n")
	}

	s = *f(&s)

	if m.message != "" {
		s.WriteString("\n" + Styles.Success.Render(m.message) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + Styles.Error.Render("Error: "+m.err.Error()) + "\n")
	}

	s.WriteString("\n" + Styles.Muted.Render(help) + "\n")

	return s.String()
}
