package planner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySource struct {
	failures int32
	calls    atomic.Int32
	tickets  []Ticket
}

func (s *flakySource) Tickets(ctx context.Context, _ string) ([]Ticket, error) {
	if s.calls.Add(1) <= s.failures {
		return nil, errors.New("ticket system unavailable")
	}
	return s.tickets, nil
}

func newPlanner(t *testing.T, team string, opts ...Option) *Planner {
	t.Helper()
	p, err := New(team, nil, opts...)
	require.NoError(t, err)
	return p
}

// plannedSprint is the Alpha plan with the mocked backlog and Alice's leave.
func plannedSprint(t *testing.T) *Planner {
	t.Helper()
	p := newPlanner(t, "Alpha")
	require.NoError(t, p.FetchTickets(context.Background()))
	require.NoError(t, p.AddLeave("Alice", "2025-12-05"))
	return p
}

func TestNewStartsWithEmptyPlan(t *testing.T) {
	p := newPlanner(t, "Alpha")

	assert.Equal(t, "Alpha", p.Team())
	assert.Equal(t, []string{"Alice", "Bob", "Charlie", "David"}, p.Members())
	assert.Empty(t, p.Leaves())
	assert.Empty(t, p.Backlog())
	assert.Equal(t, Capacity{Resources: 4, Gross: 40, Net: 40}, p.Capacity())
}

func TestPlannedSprintCapacity(t *testing.T) {
	p := plannedSprint(t)

	require.Len(t, p.Leaves(), 1)
	assert.Equal(t, "Alice: 2025-12-05", p.Leaves()[0].String())
	assert.Len(t, p.Backlog(), 3)
	assert.Equal(t, Capacity{
		Resources:   4,
		Gross:       40,
		LeaveDays:   1,
		Net:         39,
		TotalPoints: 24,
	}, p.Capacity())
}

func TestNewUnknownTeam(t *testing.T) {
	_, err := New("Delta", nil)
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestSelectTeamClearsPlan(t *testing.T) {
	p := plannedSprint(t)

	require.NoError(t, p.SelectTeam("Gamma"))

	assert.Equal(t, "Gamma", p.Team())
	assert.Empty(t, p.Leaves())
	assert.Empty(t, p.Backlog())
	assert.Equal(t, Capacity{Resources: 4, Gross: 40, Net: 40}, p.Capacity())
	assert.ErrorIs(t, p.SelectTeam("nope"), ErrUnknownTeam)
	assert.Equal(t, "Gamma", p.Team())
}

func TestAddLeave(t *testing.T) {
	p := newPlanner(t, "Alpha", WithSprintDays(5))

	require.NoError(t, p.AddLeave(" Bob ", "2025-12-08"))
	require.NoError(t, p.AddLeave("Bob", "2025-12-09"))

	capacity := p.Capacity()
	assert.Equal(t, 20, capacity.Gross)
	assert.Equal(t, 2, capacity.LeaveDays)
	assert.Equal(t, 18, capacity.Net)

	assert.ErrorIs(t, p.AddLeave("", "2025-12-08"), ErrInvalidLeave)
	assert.ErrorIs(t, p.AddLeave("Bob", ""), ErrInvalidLeave)
	assert.ErrorIs(t, p.AddLeave("Bob", "08/12/2025"), ErrInvalidDate)
	assert.ErrorIs(t, p.AddLeave("Eve", "2025-12-08"), ErrUnknownMember)
	assert.Len(t, p.Leaves(), 2)
}

func TestAddManualTicket(t *testing.T) {
	p := plannedSprint(t)

	ticket, err := p.AddManualTicket("  Write release notes ", 5)
	require.NoError(t, err)
	assert.Equal(t, Ticket{ID: "MANUAL-4", Summary: "Write release notes", Points: 5, Source: SourceManual}, ticket)
	assert.Equal(t, 29, p.Capacity().TotalPoints)

	_, err = p.AddManualTicket("", 3)
	assert.ErrorIs(t, err, ErrInvalidTicket)
	_, err = p.AddManualTicket("zero", 0)
	assert.ErrorIs(t, err, ErrInvalidTicket)
	assert.Len(t, p.Backlog(), 4)
}

func TestSetPoints(t *testing.T) {
	p := plannedSprint(t)

	require.NoError(t, p.SetPoints(0, 1))
	require.NoError(t, p.SetPoints(1, -4))

	backlog := p.Backlog()
	assert.Equal(t, 1, backlog[0].Points)
	assert.Equal(t, 0, backlog[1].Points)
	assert.Equal(t, 14, p.Capacity().TotalPoints)
	assert.ErrorIs(t, p.SetPoints(3, 1), ErrUnknownTicket)
	assert.ErrorIs(t, p.SetPoints(-1, 1), ErrUnknownTicket)
}

func TestAnalyzeInsightText(t *testing.T) {
	p := plannedSprint(t)
	_, err := p.AddManualTicket("extra work", 55)
	require.NoError(t, err)

	assert.Equal(t,
		"Sprint: S2 for Team Alpha. Net capacity: 39 Person-Days. Total estimated Story Points: 79 points."+
			" Moderate Risk: The workload is high. The AI recommends reserving a 10% buffer"+
			" and ensuring critical path items are clearly defined.",
		p.Analyze("S2"),
	)
}

func TestAnalyzeThresholds(t *testing.T) {
	tests := []struct {
		name   string
		extra  int
		prefix string
	}{
		// net capacity is 39, the mock backlog is 24 points
		{name: "balanced", extra: 0, prefix: "Good Balance:"},
		{name: "exactly twice", extra: 54, prefix: "Good Balance:"},
		{name: "moderate", extra: 55, prefix: "Moderate Risk:"},
		{name: "exactly two and a half times", extra: 73, prefix: "Moderate Risk:"},
		{name: "critical", extra: 74, prefix: "CRITICAL OVERLOAD RISK:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := plannedSprint(t)
			if tt.extra > 0 {
				_, err := p.AddManualTicket("extra work", tt.extra)
				require.NoError(t, err)
			}
			insight := p.Analyze("Sprint 7")
			assert.Contains(t, insight, "Sprint: Sprint 7 for Team Alpha.")
			assert.Contains(t, insight, " "+tt.prefix+" ")
		})
	}
}

func TestFetchTicketsRetries(t *testing.T) {
	source := &flakySource{
		failures: 2,
		tickets:  []Ticket{{ID: "TICKET-100", Summary: "Migrate queue", Points: 5, Source: SourceExternal}},
	}
	p, err := New("Beta", source, WithFetchDelay(time.Millisecond), WithFetchAttempts(3))
	require.NoError(t, err)

	require.NoError(t, p.FetchTickets(context.Background()))

	assert.Equal(t, int32(3), source.calls.Load())
	assert.Equal(t, source.tickets, p.Backlog())
	assert.Equal(t, 5, p.Capacity().TotalPoints)
}

func TestFetchTicketsGivesUp(t *testing.T) {
	source := &flakySource{failures: 10}
	p, err := New("Alpha", source, WithFetchDelay(time.Millisecond), WithFetchAttempts(2))
	require.NoError(t, err)

	err = p.FetchTickets(context.Background())

	assert.ErrorContains(t, err, "fetching tickets: ticket system unavailable")
	assert.Equal(t, int32(2), source.calls.Load())
	assert.Empty(t, p.Backlog(), "backlog is kept on failure")
}

func TestMockSource(t *testing.T) {
	tickets, err := MockSource{}.Tickets(context.Background(), "Alpha")
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	tickets[0].Points = 99
	assert.Equal(t, 8, mockBacklog[0].Points)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = MockSource{}.Tickets(ctx, "Alpha")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLeaveLabel(t *testing.T) {
	assert.Equal(t, "0 Days", LeaveLabel(0))
	assert.Equal(t, "1 Day", LeaveLabel(1))
	assert.Equal(t, "3 Days", LeaveLabel(3))
}

func TestTicketRows(t *testing.T) {
	rows := TicketRows([]Ticket{{ID: "MANUAL-1", Summary: "Docs", Points: 2, Source: SourceManual}})
	assert.Equal(t, [][]string{{"Manual", "MANUAL-1: Docs", "2"}}, rows)
}

func TestTeamNames(t *testing.T) {
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, TeamNames())
}

func TestExport(t *testing.T) {
	p := newPlanner(t, "Gamma")
	assert.Equal(t,
		"Exporting planning data for S1 (Gamma) to Excel... (Functionality Mocked)",
		p.Export("S1"),
	)
}
