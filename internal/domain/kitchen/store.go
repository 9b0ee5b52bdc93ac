package kitchen

import (
	"context"
	"sort"
	"sync"

	"github.com/go-faster/errors"
)

// ErrOrderBumped is returned when a transition targets an order that has
// already been removed from the board.
var ErrOrderBumped = errors.New("order has been bumped")

// Store holds the live board state: a status per order and the set of bumped
// orders. Both maps are shared by every kitchen display client hitting this
// process; mutations are atomic per order id under one mutex. Nothing here is
// durable — a restart resets every ticket to New, which is documented
// behavior.
type Store struct {
	source TicketSource

	mu     sync.Mutex
	status map[int64]Status
	bumped map[int64]struct{}
}

// NewStore creates a board store reading persisted orders from source.
func NewStore(source TicketSource) *Store {
	return &Store{
		source: source,
		status: make(map[int64]Status),
		bumped: make(map[int64]struct{}),
	}
}

// Advance moves an order to the given status. New→In Progress and
// In Progress→Done are the normal path; New→Done is allowed as an operator
// override. An invalid status string is a validation error and leaves the
// prior status untouched. Bumped orders reject all transitions.
func (s *Store) Advance(orderID int64, status string) (Status, error) {
	parsed, err := ParseStatus(status)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, gone := s.bumped[orderID]; gone {
		return "", ErrOrderBumped
	}
	s.status[orderID] = parsed
	return parsed, nil
}

// Bump removes an order from the active board from any state and clears its
// stored status. Re-insertion is not supported; the id stays in the bumped
// set until Reset.
func (s *Store) Bump(orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bumped[orderID] = struct{}{}
	delete(s.status, orderID)
}

// Reset clears all status and bump state (daily rollover). Every persisted
// order becomes visible again as New on the next read.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = make(map[int64]Status)
	s.bumped = make(map[int64]struct{})
}

// Tickets reads today's orders from the source, overlays live status
// (defaulting to New), drops bumped orders, and returns the board sorted by
// (order time ascending, order id ascending). The id tie-break keeps the
// queue deterministic even when the time column is coarser than arrival
// order.
func (s *Store) Tickets(ctx context.Context) ([]Ticket, error) {
	tickets, err := s.source.TodayTickets(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read tickets")
	}

	s.mu.Lock()
	board := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if _, gone := s.bumped[t.OrderID]; gone {
			continue
		}
		if st, ok := s.status[t.OrderID]; ok {
			t.Status = st
		} else {
			t.Status = StatusNew
		}
		board = append(board, t)
	}
	s.mu.Unlock()

	sort.SliceStable(board, func(i, j int) bool {
		if !board[i].PlacedAt.Equal(board[j].PlacedAt) {
			return board[i].PlacedAt.Before(board[j].PlacedAt)
		}
		return board[i].OrderID < board[j].OrderID
	})
	return board, nil
}
