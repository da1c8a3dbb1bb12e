package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kiltia/analyst/planner"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Focusable rows of the planner screen, in tab order.
const (
	fieldTeam = iota
	fieldSprint
	fieldResource
	fieldLeaveDate
	fieldSummary
	fieldPoints
	fieldBacklog
	fieldCount
)

type PlannerModel struct {
	BaseModel
	sprintInput  textinput.Model
	dateInput    textinput.Model
	summaryInput textinput.Model
	pointsInput  textinput.Model

	focus    int
	resource int
	row      int
	insight  string
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Width = width
	return ti
}

func NewPlannerModel(state *State) PlannerModel {
	sprint := newInput("Sprint name", 30)
	sprint.SetValue("Sprint 1")
	model := PlannerModel{
		BaseModel: BaseModel{
			State: state,
			title: "Sprint Capacity Planner",
		},
		sprintInput:  sprint,
		dateInput:    newInput(planner.DateLayout, 12),
		summaryInput: newInput("Ticket summary", 40),
		pointsInput:  newInput("Points", 6),
	}
	return model
}

func (m PlannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return NewMainMenuModel(m.State), nil
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "left", "right":
			if m.handleArrow(msg.String() == "right") {
				return m, nil
			}
		case "enter":
			return m.handleEnter(), nil
		case "ctrl+f":
			p, ctx := m.State.Planner, m.State.Ctx
			m.setMessage("Fetching tickets...")
			return m, func() tea.Msg {
				return ticketsFetchedMsg{err: p.FetchTickets(ctx)}
			}
		case "ctrl+a":
			m.insight = m.State.Planner.Analyze(m.sprintInput.Value())
			m.setMessage("Capacity calculated and insights generated")
			return m, nil
		case "ctrl+e":
			m.setMessage(m.State.Planner.Export(m.sprintInput.Value()))
			return m, nil
		}
	case ticketsFetchedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setMessage("Tickets fetched")
			m.row = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	if input := m.focusedInput(); input != nil {
		*input, cmd = input.Update(msg)
	}
	return m, cmd
}

func (m *PlannerModel) focusedInput() *textinput.Model {
	switch m.focus {
	case fieldSprint:
		return &m.sprintInput
	case fieldLeaveDate:
		return &m.dateInput
	case fieldSummary:
		return &m.summaryInput
	case fieldPoints:
		return &m.pointsInput
	}
	return nil
}

func (m *PlannerModel) setFocus(focus int) {
	if input := m.focusedInput(); input != nil {
		input.Blur()
	}
	m.focus = focus
	if input := m.focusedInput(); input != nil {
		input.Focus()
	}
}

// handleArrow cycles the selectors and edits backlog estimates. It returns
// false when the key should go to a text input instead.
func (m *PlannerModel) handleArrow(forward bool) bool {
	step := -1
	if forward {
		step = 1
	}
	p := m.State.Planner
	switch m.focus {
	case fieldTeam:
		names := planner.TeamNames()
		current := slices.Index(names, p.Team())
		next := names[(current+step+len(names))%len(names)]
		if err := p.SelectTeam(next); err != nil {
			m.setError(err)
		} else {
			m.setMessage(fmt.Sprintf("Team %s loaded", next))
		}
		m.resource, m.row, m.insight = 0, 0, ""
	case fieldResource:
		members := p.Members()
		if len(members) > 0 {
			m.resource = (m.resource + step + len(members)) % len(members)
		}
	case fieldBacklog:
		backlog := p.Backlog()
		if len(backlog) == 0 {
			return true
		}
		m.row = min(m.row, len(backlog)-1)
		if err := p.SetPoints(m.row, backlog[m.row].Points+step); err != nil {
			m.setError(err)
		}
	default:
		return false
	}
	return true
}

func (m PlannerModel) handleEnter() PlannerModel {
	p := m.State.Planner
	switch m.focus {
	case fieldLeaveDate, fieldResource:
		members := p.Members()
		var resource string
		if m.resource < len(members) {
			resource = members[m.resource]
		}
		if err := p.AddLeave(resource, m.dateInput.Value()); err != nil {
			m.setError(err)
			return m
		}
		m.dateInput.SetValue("")
		m.setMessage(fmt.Sprintf("Leave added for %s", resource))
	case fieldSummary, fieldPoints:
		points, err := strconv.Atoi(strings.TrimSpace(m.pointsInput.Value()))
		if err != nil {
			points = 0
		}
		ticket, err := p.AddManualTicket(m.summaryInput.Value(), points)
		if err != nil {
			m.setError(err)
			return m
		}
		m.summaryInput.SetValue("")
		m.pointsInput.SetValue("")
		m.setMessage(fmt.Sprintf("Ticket %s added", ticket.ID))
	case fieldBacklog:
		if n := len(p.Backlog()); n > 0 {
			m.row = (m.row + 1) % n
		}
	}
	return m
}

func (m PlannerModel) View() string {
	p := m.State.Planner
	capacity := p.Capacity()
	members := p.Members()

	return m.renderInner(func(s *strings.Builder) *strings.Builder {
		renderField(s, "Team:    ", "‹ "+p.Team()+" ›", m.focus == fieldTeam)
		renderField(s, "Sprint:  ", m.sprintInput.View(), m.focus == fieldSprint)

		s.WriteString("\n" + Styles.ConfigVar.Render("Capacity") + "\n")
		fmt.Fprintf(s, "  Total resources: %d\n", capacity.Resources)
		fmt.Fprintf(s, "  Gross capacity:  %d Person-Days\n", capacity.Gross)
		fmt.Fprintf(s, "  Planned leaves:  %s\n", planner.LeaveLabel(capacity.LeaveDays))
		fmt.Fprintf(s, "  Net capacity:    %d Person-Days\n", capacity.Net)

		s.WriteString("\n" + Styles.ConfigVar.Render("Leaves") + "\n")
		resource := ""
		if m.resource < len(members) {
			resource = members[m.resource]
		}
		renderField(s, "Resource:", "‹ "+resource+" ›", m.focus == fieldResource)
		renderField(s, "Date:    ", m.dateInput.View(), m.focus == fieldLeaveDate)
		leaves := p.Leaves()
		if len(leaves) == 0 {
			s.WriteString(Styles.Muted.Render("  No planned leaves submitted for this team.") + "\n")
		}
		for _, leave := range leaves {
			s.WriteString("  • " + leave.String() + "\n")
		}

		s.WriteString("\n" + Styles.ConfigVar.Render("Backlog") + "\n")
		renderField(s, "Summary: ", m.summaryInput.View(), m.focus == fieldSummary)
		renderField(s, "Points:  ", m.pointsInput.View(), m.focus == fieldPoints)
		renderBacklog(s, p.Backlog(), capacity.TotalPoints, m.row, m.focus == fieldBacklog)

		if m.insight != "" {
			s.WriteString("\n" + Styles.Box.Render(m.insight) + "\n")
		}
		return s
	}, "tab/↑/↓ move • ←/→ change • enter add • ctrl+f fetch • ctrl+a analyze • ctrl+e export • esc back")
}

func renderBacklog(
	s *strings.Builder,
	backlog []planner.Ticket,
	total int,
	selected int,
	focused bool,
) {
	if len(backlog) == 0 {
		s.WriteString(Styles.Muted.Render("  No tickets in the backlog. Fetch tickets or add manually.") + "\n")
		return
	}
	for i, row := range planner.TicketRows(backlog) {
		line := fmt.Sprintf("%-9s %-45s %4s", row[0], row[1], row[2])
		if focused && i == selected {
			fmt.Fprintf(s, "→ %s\n", Styles.Selected.Render(line))
		} else {
			fmt.Fprintf(s, "  %s\n", Styles.Normal.Render(line))
		}
	}
	fmt.Fprintf(s, "  %-9s %-45s %4d pts\n", "", "TOTAL ESTIMATED POINTS:", total)
}
