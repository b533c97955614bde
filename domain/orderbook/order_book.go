package orderbook

import (
	"fmt"
	"strconv"
	"strings"
)

// Trade records one fill event. Trades are append-only: created once,
// never updated or removed.
type Trade struct {
	Buy   Order
	Sell  Order
	Price int64
	Qty   int64
}

// OrderBook holds the two resting sides and the trade log for one batch.
type OrderBook struct {
	bids   *SideTree
	asks   *SideTree
	trades []Trade
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: NewBidTree(),
		asks: NewAskTree(),
	}
}

// AddOrder rests an order on its own side. Duplicate IDs are an upstream
// data-quality assumption and are not checked here.
func (b *OrderBook) AddOrder(o Order) {
	if o.Side == Bid {
		b.bids.Insert(o)
	} else {
		b.asks.Insert(o)
	}
}

func (b *OrderBook) BidsEmpty() bool { return b.bids.Empty() }

func (b *OrderBook) AsksEmpty() bool { return b.asks.Empty() }

// BestBid returns the highest-priority resting bid without removing it.
func (b *OrderBook) BestBid() (Order, bool) { return b.bids.Min() }

// BestAsk returns the highest-priority resting ask without removing it.
func (b *OrderBook) BestAsk() (Order, bool) { return b.asks.Min() }

// TakeBestBid removes and returns the highest-priority resting bid.
func (b *OrderBook) TakeBestBid() (Order, bool) { return b.bids.PopMin() }

// TakeBestAsk removes and returns the highest-priority resting ask.
func (b *OrderBook) TakeBestAsk() (Order, bool) { return b.asks.PopMin() }

// RecordTrade appends a fill between a buy and a sell order. The trade
// executes at the sell order's limit price. qty must be > 0.
func (b *OrderBook) RecordTrade(buy, sell Order, qty int64) {
	if qty <= 0 {
		panic("orderbook: trade quantity must be positive")
	}
	b.trades = append(b.trades, Trade{Buy: buy, Sell: sell, Price: sell.Price, Qty: qty})
}

// Trades returns the trade log in execution order.
func (b *OrderBook) Trades() []Trade {
	out := make([]Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// RenderTrades formats one line per trade, in execution order:
//
//	trade <buyId>,<sellId>,<price>,<qty>
func (b *OrderBook) RenderTrades() []string {
	out := make([]string, 0, len(b.trades))
	for _, t := range b.trades {
		out = append(out, fmt.Sprintf("trade %s,%s,%d,%d", t.Buy.ID, t.Sell.ID, t.Price, t.Qty))
	}
	return out
}

const blankCell = "                  " // 18 spaces, one empty book column

// RenderBook formats the resting book as two-column rows, one row per
// rank level, best first: left the bid (quantity, price), right the ask
// (price, quantity), blank cells once a side is exhausted. Pure
// presentation; calling it twice without intervening mutation yields
// identical output.
func (b *OrderBook) RenderBook() []string {
	var bids, asks []Order
	b.bids.Ascend(func(o Order) bool {
		bids = append(bids, o)
		return true
	})
	b.asks.Ascend(func(o Order) bool {
		asks = append(asks, o)
		return true
	})

	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}
	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		buyCell := blankCell
		sellCell := blankCell
		if i < len(bids) {
			buyCell = fmt.Sprintf("%11s%7s", groupDigits(bids[i].Qty), strconv.FormatInt(bids[i].Price, 10))
		}
		if i < len(asks) {
			sellCell = fmt.Sprintf("%6s%12s", strconv.FormatInt(asks[i].Price, 10), groupDigits(asks[i].Qty))
		}
		out = append(out, buyCell+" | "+sellCell)
	}
	return out
}

// groupDigits renders a non-negative integer with comma thousands
// separators, e.g. 1234567 -> "1,234,567".
func groupDigits(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
