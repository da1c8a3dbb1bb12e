package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type MainMenuModel struct {
	BaseModel
}

func NewMainMenuModel(state *State) MainMenuModel {
	return MainMenuModel{
		BaseModel: BaseModel{
			State: state,
			title: "Main Menu",
		},
	}
}

func (m MainMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "down":
			m.navigateDown(len(mainModelOptions) - 1)
		case "up":
			m.navigateUp()
		}
	}
	return m, nil
}

func (m MainMenuModel) View() string {
	return m.renderInner(func(s *strings.Builder) *strings.Builder {
		return renderMenu(s, m.cursor, mainModelOptions)
	}, "↑/↓ navigation • enter select • q quit")
}

func (m MainMenuModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.cursor {
	case 0:
		chat := NewChatModel(m.State)
		return chat, chat.Init()
	case 1:
		return NewPlannerModel(m.State), nil
	case 2:
		return NewConfigPreviewModel(m.State), nil
	}
	return m, nil
}
