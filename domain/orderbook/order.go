package orderbook

import (
	"errors"
	"fmt"
)

type Side uint8

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrInvalidSide is returned for side tokens other than "B" or "S".
	ErrInvalidSide = errors.New("orderbook: invalid side token")

	// ErrCrossSideCompare is returned when two orders on different sides
	// are compared. Each side is its own total order; mixing them has no
	// defined meaning.
	ErrCrossSideCompare = errors.New("orderbook: cannot compare orders on different sides")
)

// ParseSide maps the wire tokens "B" and "S" onto Bid and Ask.
func ParseSide(tok string) (Side, error) {
	switch tok {
	case "B":
		return Bid, nil
	case "S":
		return Ask, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, tok)
	}
}

// Order is an immutable value. A partial fill never mutates an Order in
// place; it is replaced by a copy with reduced quantity (see Fill).
type Order struct {
	ID    string
	Side  Side
	Price int64
	Qty   int64
}

// Fill returns a copy of o with qty subtracted from its quantity.
func (o Order) Fill(qty int64) Order {
	return Order{ID: o.ID, Side: o.Side, Price: o.Price, Qty: o.Qty - qty}
}

func (o Order) String() string {
	return fmt.Sprintf("Order{id=%s side=%s price=%d qty=%d}", o.ID, o.Side, o.Price, o.Qty)
}

// lessBid ranks bids: higher price first, ties by ascending ID.
// Ascending IDs approximate arrival order since IDs are assigned
// monotonically upstream.
func lessBid(a, b Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.ID < b.ID
}

// lessAsk ranks asks: lower price first, ties by ascending ID.
func lessAsk(a, b Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.ID < b.ID
}

// Compare reports the priority order of two orders on the same side:
// -1 if o ranks before other, +1 if after, 0 if they share price and ID.
// Comparing across sides fails with ErrCrossSideCompare.
func (o Order) Compare(other Order) (int, error) {
	if o.Side != other.Side {
		return 0, ErrCrossSideCompare
	}
	less := lessAsk
	if o.Side == Bid {
		less = lessBid
	}
	switch {
	case less(o, other):
		return -1, nil
	case less(other, o):
		return 1, nil
	default:
		return 0, nil
	}
}
