package tui

import (
	"fmt"
	"strings"

	"github.com/kiltia/analyst"
	"github.com/kiltia/analyst/extract"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	focusFile = iota
	focusQuestion
)

const apologyMessage = "I apologize, but I encountered a system error while trying to analyze your data."

type chatEntry struct {
	fromUser bool
	text     string
	isError  bool
}

// ChatModel is the report analyst screen: load a report, then ask questions
// about it.
type ChatModel struct {
	BaseModel
	fileInput     textinput.Model
	questionInput textinput.Model
	spinner       spinner.Model
	focus         int

	entries    []chatEntry
	fileStatus string
	preview    string
	loading    string
}

func NewChatModel(state *State) ChatModel {
	fi := textinput.New()
	fi.Placeholder = "path/to/report.csv"
	fi.Prompt = "> "
	fi.Width = 60
	fi.Focus()

	qi := textinput.New()
	qi.Placeholder = "Ask a question about the report"
	qi.Prompt = "> "
	qi.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	model := ChatModel{
		BaseModel: BaseModel{
			State: state,
			title: "AI Report File Analyst",
		},
		fileInput:     fi,
		questionInput: qi,
		spinner:       sp,
		entries:       []chatEntry{{text: welcomeMessage}},
		fileStatus:    "No file loaded",
		preview:       "Awaiting file upload...",
	}
	if name := state.Session.FileName(); name != "" {
		model.fileStatus = fileStatus(name, len([]rune(state.Session.ReportText())))
		model.preview = extract.Preview(state.Session.ReportText())
	}
	for _, message := range state.Session.History() {
		model.entries = append(model.entries, chatEntry{
			fromUser: message.Role == analyst.RoleUser,
			text:     message.Text,
		})
	}
	return model
}

func fileStatus(name string, chars int) string {
	return fmt.Sprintf("File: %s (%d characters loaded)", name, chars)
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.loading != "" {
				return m, nil
			}
			return NewMainMenuModel(m.State), nil
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "enter":
			return m.handleEnter()
		}
	case fileLoadedMsg:
		return m.handleFileLoaded(msg), nil
	case answerMsg:
		return m.handleAnswer(msg), nil
	case spinner.TickMsg:
		if m.loading == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.loading != "" {
		return m, nil
	}
	var cmd tea.Cmd
	if m.focus == focusFile {
		m.fileInput, cmd = m.fileInput.Update(msg)
	} else {
		m.questionInput, cmd = m.questionInput.Update(msg)
	}
	return m, cmd
}

func (m *ChatModel) toggleFocus() {
	if m.focus == focusFile {
		m.focus = focusQuestion
		m.fileInput.Blur()
		m.questionInput.Focus()
	} else {
		m.focus = focusFile
		m.questionInput.Blur()
		m.fileInput.Focus()
	}
}

func (m ChatModel) handleEnter() (tea.Model, tea.Cmd) {
	if m.loading != "" {
		return m, nil
	}
	m.err = nil
	if m.focus == focusFile {
		path := strings.TrimSpace(m.fileInput.Value())
		if path == "" {
			return m, nil
		}
		m.loading = "Extracting text from file..."
		m.preview = "Awaiting file upload..."
		session := m.State.Session
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			doc, err := session.LoadFile(path)
			return fileLoadedMsg{doc: doc, err: err}
		})
	}

	question := strings.TrimSpace(m.questionInput.Value())
	if !m.State.Session.CanSubmit(question) {
		m.setError(analyst.ErrNothingToAsk)
		return m, nil
	}
	m.entries = append(m.entries, chatEntry{fromUser: true, text: question})
	m.questionInput.SetValue("")
	m.loading = "Analyzing report data..."
	ctx, session := m.State.Ctx, m.State.Session
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		answer, err := session.Ask(ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	})
}

func (m ChatModel) handleFileLoaded(msg fileLoadedMsg) ChatModel {
	m.loading = ""
	path := strings.TrimSpace(m.fileInput.Value())
	if msg.err != nil {
		m.fileStatus = fmt.Sprintf("File: %s (Error)", path)
		m.preview = fmt.Sprintf("[Parsing Error] %v", msg.err)
		m.setError(fmt.Errorf("failed to process file: %w", msg.err))
		return m
	}
	m.fileStatus = fileStatus(msg.doc.Name, msg.doc.Len())
	m.preview = extract.Preview(msg.doc.Text)
	if msg.doc.Truncated {
		limit := msg.doc.Len()
		m.setError(fmt.Errorf(
			"file content is too large (> %d characters), only the first %d characters will be analyzed",
			limit, limit,
		))
	} else {
		m.setMessage("Report loaded")
	}
	return m
}

func (m ChatModel) handleAnswer(msg answerMsg) ChatModel {
	m.loading = ""
	if msg.err != nil {
		m.setError(fmt.Errorf("failed to connect or process the request: %w", msg.err))
		m.entries = append(m.entries, chatEntry{text: apologyMessage, isError: true})
		return m
	}
	m.err = nil
	m.entries = append(m.entries, chatEntry{text: msg.answer})
	return m
}

func (m ChatModel) View() string {
	return m.renderInner(func(s *strings.Builder) *strings.Builder {
		var chat strings.Builder
		for _, entry := range m.entries {
			if entry.fromUser {
				chat.WriteString(Styles.User.Render("You") + "\n")
			} else {
				chat.WriteString(Styles.AI.Render("AI Analyst") + "\n")
			}
			if entry.isError {
				chat.WriteString(Styles.Error.Render(entry.text) + "\n\n")
			} else {
				chat.WriteString(entry.text + "\n\n")
			}
		}
		s.WriteString(Styles.Box.Render(strings.TrimRight(chat.String(), "\n")) + "\n\n")

		s.WriteString(Styles.Muted.Render(m.fileStatus) + "\n")
		s.WriteString(Styles.Muted.Render(m.preview) + "\n\n")

		renderField(s, "File:    ", m.fileInput.View(), m.focus == focusFile)
		renderField(s, "Question:", m.questionInput.View(), m.focus == focusQuestion)

		if m.loading != "" {
			s.WriteString("\n" + m.spinner.View() + " " + m.loading + "\n")
		}
		return s
	}, "tab switch field • enter load/ask • esc back • ctrl+c quit")
}
