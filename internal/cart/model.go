package cart

import (
	"time"

	"fitmrp-client/internal/pricing"
)

type State int

const (
	StateCleared State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "cleared"
}

type Status int

const (
	StatusIdle Status = iota
	StatusBusy
)

func (s Status) String() string {
	if s == StatusBusy {
		return "busy"
	}
	return "idle"
}

// Cart is an immutable snapshot of the server-side cart. Lines keep the
// server's order.
type Cart struct {
	Lines     []pricing.Line
	Totals    pricing.Totals
	FetchedAt time.Time
}

func newCart(lines []pricing.Line, fetchedAt time.Time) Cart {
	if lines == nil {
		lines = []pricing.Line{}
	}
	return Cart{
		Lines:     lines,
		Totals:    pricing.ComputeTotals(lines),
		FetchedAt: fetchedAt,
	}
}

func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c Cart) State() State {
	if c.Empty() {
		return StateCleared
	}
	return StateActive
}

// ItemCount is the total number of units across lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Line(productID string) (pricing.Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return pricing.Line{}, false
}

func (c Cart) clone() Cart {
	lines := make([]pricing.Line, len(c.Lines))
	copy(lines, c.Lines)
	c.Lines = lines
	return c
}
