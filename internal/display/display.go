// Package display drives a kitchen display: it polls the ticket board on a
// fixed interval, refreshes immediately after any locally issued transition,
// and keeps the last good render visible when a refresh fails.
package display

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/elliemck/boba-pos/internal/domain/kitchen"
)

// DefaultInterval is the board auto-refresh period.
const DefaultInterval = 30 * time.Second

// Client is the display's view of the kitchen API.
type Client interface {
	FetchTickets(ctx context.Context) ([]kitchen.Ticket, error)
	Advance(ctx context.Context, orderID int64, status kitchen.Status) error
	Bump(ctx context.Context, orderID int64) error
}

// Renderer receives board updates. Render replaces the whole ticket set;
// RenderError surfaces a failure inline without clearing the board.
type Renderer interface {
	Render(tickets []kitchen.Ticket)
	RenderError(err error)
}

// Loop is the cooperative polling loop behind one kitchen display.
type Loop struct {
	client   Client
	renderer Renderer
	interval time.Duration
	lg       *zap.Logger

	refresh chan struct{}

	mu   sync.Mutex
	last []kitchen.Ticket
}

// NewLoop creates a display loop. A non-positive interval falls back to
// DefaultInterval.
func NewLoop(client Client, renderer Renderer, interval time.Duration, lg *zap.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Loop{
		client:   client,
		renderer: renderer,
		interval: interval,
		lg:       lg,
		refresh:  make(chan struct{}, 1),
	}
}

// Run fetches and renders immediately, then re-renders on every tick and on
// every requested refresh until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.fetchAndRender(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.fetchAndRender(ctx)
		case <-l.refresh:
			l.fetchAndRender(ctx)
		}
	}
}

// Refresh requests an immediate re-fetch. Non-blocking; coalesces with any
// refresh already pending.
func (l *Loop) Refresh() {
	select {
	case l.refresh <- struct{}{}:
	default:
	}
}

// Advance issues a status transition and then re-fetches so the operator
// sees the authoritative post-transition board, not an optimistic guess.
// The transition error, if any, is returned after the refresh is queued.
func (l *Loop) Advance(ctx context.Context, orderID int64, status kitchen.Status) error {
	err := l.client.Advance(ctx, orderID, status)
	if err != nil {
		l.lg.Warn("advance failed",
			zap.Int64("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
	l.Refresh()
	if err != nil {
		return errors.Wrapf(err, "advance order %d", orderID)
	}
	return nil
}

// Bump removes a ticket from the board and re-fetches.
func (l *Loop) Bump(ctx context.Context, orderID int64) error {
	err := l.client.Bump(ctx, orderID)
	if err != nil {
		l.lg.Warn("bump failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
	l.Refresh()
	if err != nil {
		return errors.Wrapf(err, "bump order %d", orderID)
	}
	return nil
}

// Tickets returns the last successfully fetched board.
func (l *Loop) Tickets() []kitchen.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]kitchen.Ticket, len(l.last))
	copy(out, l.last)
	return out
}

func (l *Loop) fetchAndRender(ctx context.Context) {
	tickets, err := l.client.FetchTickets(ctx)
	if err != nil {
		// Keep the last good render; surface the failure inline.
		l.lg.Warn("fetch tickets failed", zap.Error(err))
		l.renderer.RenderError(err)
		return
	}

	l.mu.Lock()
	l.last = tickets
	l.mu.Unlock()

	l.renderer.Render(tickets)
}
