// Package planner keeps the in-memory state of a sprint capacity plan: team
// members, planned leaves and the backlog of estimated tickets.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kiltia/analyst/pkg/util"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	DefaultSprintDays = 10
	DateLayout        = "2006-01-02"

	SourceExternal = "External"
	SourceManual   = "Manual"
)

var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrInvalidLeave  = errors.New("please select a resource and a date")
	ErrInvalidTicket = errors.New("please enter a summary and valid story points (> 0)")
	ErrUnknownTicket = errors.New("ticket index out of range")
	ErrUnknownMember = errors.New("resource is not a member of the team")
	ErrInvalidDate   = errors.New("leave date must be formatted as YYYY-MM-DD")
)

// Teams is the master list of teams and their members.
var Teams = map[string][]string{
	"Alpha": {"Alice", "Bob", "Charlie", "David"},
	"Beta":  {"Eve", "Frank", "Grace"},
	"Gamma": {"Henry", "Ivy", "Jack", "Kate"},
}

type Ticket struct {
	ID      string
	Summary string
	Points  int
	Source  string
}

type Leave struct {
	Resource string
	Date     time.Time
}

func (l Leave) String() string {
	return fmt.Sprintf("%s: %s", l.Resource, l.Date.Format(DateLayout))
}

type Capacity struct {
	Resources   int
	Gross       int
	LeaveDays   int
	Net         int
	TotalPoints int
}

// TeamNames returns the known team names in alphabetical order.
func TeamNames() []string {
	names := make([]string, 0, len(Teams))
	for name := range Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Planner struct {
	source        TicketSource
	sprintDays    int
	fetchAttempts uint
	fetchDelay    time.Duration

	mu      sync.Mutex
	team    string
	members []string
	leaves  []Leave
	backlog []Ticket
}

type Option func(*Planner)

// WithFetchDelay sets the base backoff delay between ticket fetch attempts.
func WithFetchDelay(d time.Duration) Option {
	return func(p *Planner) {
		p.fetchDelay = d
	}
}

func WithSprintDays(days int) Option {
	return func(p *Planner) {
		if days > 0 {
			p.sprintDays = days
		}
	}
}

func WithFetchAttempts(attempts uint) Option {
	return func(p *Planner) {
		if attempts > 0 {
			p.fetchAttempts = attempts
		}
	}
}

// New creates a planner for team. Like a team switch it starts with no leaves
// and an empty backlog; FetchTickets loads the ticket system state.
func New(team string, source TicketSource, opts ...Option) (*Planner, error) {
	if source == nil {
		source = MockSource{}
	}
	p := &Planner{
		source:        source,
		sprintDays:    DefaultSprintDays,
		fetchAttempts: 3,
		fetchDelay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.SelectTeam(team); err != nil {
		return nil, err
	}
	return p, nil
}

// SelectTeam switches to another team. Leaves and backlog belong to the
// previous team and are cleared.
func (p *Planner) SelectTeam(team string) error {
	members, ok := Teams[team]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.team = team
	p.members = slices.Clone(members)
	p.leaves = nil
	p.backlog = nil
	return nil
}

func (p *Planner) Team() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.team
}

func (p *Planner) Members() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.members)
}

func (p *Planner) Leaves() []Leave {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.leaves)
}

func (p *Planner) Backlog() []Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.backlog)
}

// AddLeave records one day of leave for a team member.
func (p *Planner) AddLeave(resource, date string) error {
	resource, date = strings.TrimSpace(resource), strings.TrimSpace(date)
	if resource == "" || date == "" {
		return ErrInvalidLeave
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.members, resource) {
		return fmt.Errorf("%w: %s", ErrUnknownMember, resource)
	}
	p.leaves = append(p.leaves, Leave{Resource: resource, Date: day})
	return nil
}

// AddManualTicket appends a ticket that does not come from the ticket
// system.
func (p *Planner) AddManualTicket(summary string, points int) (Ticket, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" || points <= 0 {
		return Ticket{}, ErrInvalidTicket
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	ticket := Ticket{
		ID:      fmt.Sprintf("MANUAL-%d", len(p.backlog)+1),
		Summary: summary,
		Points:  points,
		Source:  SourceManual,
	}
	p.backlog = append(p.backlog, ticket)
	return ticket, nil
}

// SetPoints changes the estimate of the ticket at index. Negative values are
// stored as zero.
func (p *Planner) SetPoints(index, points int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.backlog) {
		return fmt.Errorf("%w: %d", ErrUnknownTicket, index)
	}
	p.backlog[index].Points = max(points, 0)
	return nil
}

// FetchTickets replaces the backlog with the tickets of the ticket system.
func (p *Planner) FetchTickets(ctx context.Context) error {
	team := p.Team()
	var tickets []Ticket
	err := retry.Do(
		func() (err error) {
			tickets, err = p.source.Tickets(ctx, team)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(p.fetchAttempts),
		retry.Delay(p.fetchDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			zap.S().Warnw("fetching tickets failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("fetching tickets: %w", err)
	}
	p.mu.Lock()
	p.backlog = tickets
	p.mu.Unlock()
	return nil
}

func (p *Planner) Capacity() Capacity {
	p.mu.Lock()
	defer p.mu.Unlock()
	gross := len(p.members) * p.sprintDays
	return Capacity{
		Resources:   len(p.members),
		Gross:       gross,
		LeaveDays:   len(p.leaves),
		Net:         gross - len(p.leaves),
		TotalPoints: util.SumBy(p.backlog, func(t Ticket) int { return t.Points }),
	}
}

// Analyze summarises the relation between the capacity and the estimated
// workload of the sprint.
func (p *Planner) Analyze(sprint string) string {
	capacity := p.Capacity()
	insight := fmt.Sprintf(
		"Sprint: %s for Team %s. Net capacity: %d Person-Days. Total estimated Story Points: %d points.",
		sprint, p.Team(), capacity.Net, capacity.TotalPoints,
	)
	points, net := float64(capacity.TotalPoints), float64(capacity.Net)
	switch {
	case points > net*2.5:
		insight += " CRITICAL OVERLOAD RISK: Estimated work far exceeds calculated capacity (Capacity/Points mismatch). Highly recommend removing or deferring tickets."
	case points > net*2:
		insight += " Moderate Risk: The workload is high. The AI recommends reserving a 10% buffer and ensuring critical path items are clearly defined."
	default:
		insight += " Good Balance: Capacity and workload are well-aligned. The team has a sufficient buffer for emergent work."
	}
	return insight
}

// Export is a placeholder for the spreadsheet export of the plan.
func (p *Planner) Export(sprint string) string {
	return fmt.Sprintf(
		"Exporting planning data for %s (%s) to Excel... (Functionality Mocked)",
		sprint, p.Team(),
	)
}

// LeaveLabel formats the number of leave days, e.g. "1 Day", "3 Days".
func LeaveLabel(days int) string {
	if days == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", days)
}

// TicketRows renders the backlog as table rows of source, title and points.
func TicketRows(tickets []Ticket) [][]string {
	return util.Map(tickets, func(t Ticket) []string {
		return []string{t.Source, fmt.Sprintf("%s: %s", t.ID, t.Summary), fmt.Sprintf("%d", t.Points)}
	})
}
