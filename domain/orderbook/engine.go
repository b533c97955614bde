package orderbook

// Engine applies incoming orders to one order book under price-time
// priority. It is single-writer: Match runs to completion before the
// next order is accepted, and the book is never observably crossed
// between calls.
type Engine struct {
	book *OrderBook
}

func NewEngine(book *OrderBook) *Engine {
	return &Engine{book: book}
}

func (e *Engine) Book() *OrderBook { return e.book }

// Match consumes an incoming order: fills against the opposite side
// while it is marketable, then rests any remainder on the order's own
// side. Results are side effects on the book (trades appended, resting
// sets mutated); callers inspect the book afterward.
func (e *Engine) Match(incoming Order) {
	if incoming.Side == Bid {
		e.matchAgainstAsks(incoming)
	} else {
		e.matchAgainstBids(incoming)
	}
}

func (e *Engine) matchAgainstAsks(incoming Order) {
	for incoming.Qty > 0 {
		best, ok := e.book.BestAsk()
		if !ok || best.Price > incoming.Price {
			break
		}
		// Taking the best ask commits to it: price-time priority means
		// the top-ranked order is never skipped.
		resting, _ := e.book.TakeBestAsk()
		fill := min(incoming.Qty, resting.Qty)
		e.book.RecordTrade(incoming, resting, fill)
		incoming = incoming.Fill(fill)
		resting = resting.Fill(fill)
		if resting.Qty > 0 {
			// Unchanged price and ID reproduce its original rank.
			e.book.AddOrder(resting)
		}
	}
	if incoming.Qty > 0 {
		e.book.AddOrder(incoming)
	}
}

func (e *Engine) matchAgainstBids(incoming Order) {
	for incoming.Qty > 0 {
		best, ok := e.book.BestBid()
		if !ok || best.Price < incoming.Price {
			break
		}
		resting, _ := e.book.TakeBestBid()
		fill := min(incoming.Qty, resting.Qty)
		e.book.RecordTrade(resting, incoming, fill)
		incoming = incoming.Fill(fill)
		resting = resting.Fill(fill)
		if resting.Qty > 0 {
			e.book.AddOrder(resting)
		}
	}
	if incoming.Qty > 0 {
		e.book.AddOrder(incoming)
	}
}
