package planner

import (
	"context"
	"slices"
)

// TicketSource retrieves the filtered backlog of a team from the ticket
// system.
type TicketSource interface {
	Tickets(ctx context.Context, team string) ([]Ticket, error)
}

var mockBacklog = []Ticket{
	{ID: "TICKET-001", Summary: "Implement User Login (API)", Points: 8, Source: SourceExternal},
	{ID: "TICKET-002", Summary: "Fix Database Connection Bug", Points: 3, Source: SourceExternal},
	{ID: "TICKET-003", Summary: "Optimize Image Upload Service", Points: 13, Source: SourceExternal},
}

// MockSource stands in for the ticket system and always returns the same
// backlog.
type MockSource struct{}

func (MockSource) Tickets(ctx context.Context, _ string) ([]Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(mockBacklog), nil
}
