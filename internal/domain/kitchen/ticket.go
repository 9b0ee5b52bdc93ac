// Package kitchen projects persisted orders onto the kitchen display board
// and tracks each ticket's fulfillment status. Status and bump state are
// process-local by design: they reset when the process restarts, and the
// board rebuilds itself from persisted orders on the next read.
package kitchen

import (
	"context"
	"fmt"
	"time"
)

// Status is a ticket's fulfillment state.
type Status string

// Ticket statuses. A freshly read order with no recorded status is New.
const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// InvalidStatusError reports a transition to an unknown status. The prior
// status is left unchanged.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid kitchen status %q", e.Status)
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", &InvalidStatusError{Status: s}
	}
}

// TicketLine is one displayed item on a ticket: identical drink units are
// aggregated into a single line with a quantity.
type TicketLine struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size,omitempty"`
	Sugar    string   `json:"sugar,omitempty"`
	Ice      string   `json:"ice,omitempty"`
	Toppings []string `json:"toppings,omitempty"`
}

// Ticket is the kitchen's read-only projection of a persisted order overlaid
// with its live status.
type Ticket struct {
	OrderID      int64        `json:"orderid"`
	OrderTime    string       `json:"ordertime"`
	PlacedAt     time.Time    `json:"-"`
	CustomerName string       `json:"customername,omitempty"`
	Items        []TicketLine `json:"items"`
	Status       Status       `json:"status"`
}

// TicketSource reads today's persisted orders as unordered, status-less
// tickets. The store overlays status/bump state and applies the queue
// discipline.
type TicketSource interface {
	TodayTickets(ctx context.Context) ([]Ticket, error)
}
