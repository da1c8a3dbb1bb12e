package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type ConfigPreviewModel struct {
	BaseModel
}

func NewConfigPreviewModel(state *State) ConfigPreviewModel {
	model := ConfigPreviewModel{
		BaseModel: BaseModel{State: state},
	}
	model.title = "Configuration Preview"
	return model
}

func (m ConfigPreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q", "enter":
			return NewMainMenuModel(m.State), nil
		}
	}
	return m, nil
}

func (m ConfigPreviewModel) View() string {
	return m.renderInner(func(s *strings.Builder) *strings.Builder {
		return renderConfigPreview(s, ConfigToEnv(m.State.Config))
	}, "esc back • ctrl+c quit")
}
