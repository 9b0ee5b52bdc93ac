package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/elliemck/boba-pos/internal/domain/kitchen"
)

// TermRenderer prints the ticket board to a writer, one frame per render.
// Safe for concurrent use.
type TermRenderer struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewTermRenderer creates a renderer writing frames to out.
func NewTermRenderer(out io.Writer) *TermRenderer {
	return &TermRenderer{out: out, now: time.Now}
}

// Render prints the full board, oldest ticket first.
func (r *TermRenderer) Render(tickets []kitchen.Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "=== Kitchen Board — %s — %d ticket(s) ===\n",
		r.now().Format("15:04:05"), len(tickets))
	if len(tickets) == 0 {
		b.WriteString("(no open orders)\n")
	}
	for _, t := range tickets {
		fmt.Fprintf(&b, "#%d  %s  [%s]", t.OrderID, t.OrderTime, t.Status)
		if t.CustomerName != "" {
			fmt.Fprintf(&b, "  %s", t.CustomerName)
		}
		b.WriteByte('\n')
		for _, item := range t.Items {
			fmt.Fprintf(&b, "  %dx %s", item.Quantity, item.Name)
			if item.Size != "" {
				fmt.Fprintf(&b, " (%s", item.Size)
				if item.Sugar != "" {
					fmt.Fprintf(&b, ", %s sugar", item.Sugar)
				}
				if item.Ice != "" {
					fmt.Fprintf(&b, ", %s ice", item.Ice)
				}
				b.WriteByte(')')
			}
			if len(item.Toppings) > 0 {
				fmt.Fprintf(&b, " + %s", strings.Join(item.Toppings, ", "))
			}
			b.WriteByte('\n')
		}
	}

	io.WriteString(r.out, b.String())
}

// RenderError prints the failure without clearing the previous frame.
func (r *TermRenderer) RenderError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "!!! refresh failed at %s: %v (showing last good board)\n",
		r.now().Format("15:04:05"), err)
}
