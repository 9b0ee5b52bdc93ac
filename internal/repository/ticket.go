package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elliemck/boba-pos/internal/domain/kitchen"
)

// Today's drink units with modifier names resolved against the menu. One row
// per drink unit; identical units are aggregated into ticket lines in Go.
const todayTicketsSQL = `SELECT
		o.order_id,
		to_char(o.order_time, 'HH24:MI:SS'),
		(o.order_date + o.order_time)::timestamp,
		COALESCE(TRIM(c.first_name || ' ' || c.last_name), ''),
		d.item_name,
		COALESCE(ms.item_name, ''),
		COALESCE(mg.item_name, ''),
		COALESCE(mi.item_name, ''),
		COALESCE((SELECT array_agg(t.topping_name ORDER BY t.position)
			FROM drink_toppings t WHERE t.drink_id = d.drink_id), '{}')
	FROM orders o
	JOIN drinks d ON d.order_id = o.order_id
	LEFT JOIN customers c ON c.customer_id = o.customer_id
	LEFT JOIN menu ms ON ms.menu_id = d.cup_size
	LEFT JOIN menu mg ON mg.menu_id = d.sugar_level
	LEFT JOIN menu mi ON mi.menu_id = d.ice_amount
	WHERE o.order_date = CURRENT_DATE
	ORDER BY o.order_id, d.drink_id`

var _ kitchen.TicketSource = (*TicketRepository)(nil)

// TicketRepository reads the kitchen's projection of today's orders.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a TicketRepository that uses the given pool.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// TodayTickets returns one ticket per order placed today. Identical drink
// units within an order collapse into a single line with a quantity.
func (r *TicketRepository) TodayTickets(ctx context.Context) ([]kitchen.Ticket, error) {
	rows, err := r.pool.Query(ctx, todayTicketsSQL)
	if err != nil {
		return nil, fmt.Errorf("reading today's tickets: %w", err)
	}
	defer rows.Close()

	var (
		tickets []kitchen.Ticket
		index   = make(map[int64]int)            // order id -> tickets index
		lines   = make(map[int64]map[string]int) // order id -> line key -> Items index
	)
	for rows.Next() {
		var (
			orderID      int64
			orderTime    string
			placedAt     time.Time
			customerName string
			name, size   string
			sugar, ice   string
			toppings     []string
		)
		err := rows.Scan(&orderID, &orderTime, &placedAt, &customerName,
			&name, &size, &sugar, &ice, &toppings)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket row: %w", err)
		}

		pos, ok := index[orderID]
		if !ok {
			pos = len(tickets)
			index[orderID] = pos
			lines[orderID] = make(map[string]int)
			tickets = append(tickets, kitchen.Ticket{
				OrderID:      orderID,
				OrderTime:    orderTime,
				PlacedAt:     placedAt,
				CustomerName: customerName,
			})
		}

		key := strings.Join(append([]string{name, size, sugar, ice}, toppings...), "\x00")
		if li, seen := lines[orderID][key]; seen {
			tickets[pos].Items[li].Quantity++
			continue
		}
		lines[orderID][key] = len(tickets[pos].Items)
		tickets[pos].Items = append(tickets[pos].Items, kitchen.TicketLine{
			Name:     name,
			Quantity: 1,
			Size:     size,
			Sugar:    sugar,
			Ice:      ice,
			Toppings: toppings,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading today's tickets: %w", err)
	}
	return tickets, nil
}
