package service

import "mercury/domain/orderbook"

// ExchangeService is the matching pass over one batch: one order book,
// one engine, both discarded once the batch is reported.
type ExchangeService struct {
	book   *orderbook.OrderBook
	engine *orderbook.Engine
}

func NewExchangeService() *ExchangeService {
	book := orderbook.NewOrderBook()
	return &ExchangeService{
		book:   book,
		engine: orderbook.NewEngine(book),
	}
}

// Match feeds one order into the engine.
func (s *ExchangeService) Match(o orderbook.Order) {
	s.engine.Match(o)
}

func (s *ExchangeService) Book() *orderbook.OrderBook {
	return s.book
}

// Report returns the batch's artifact lines: trades in execution order,
// then the resting book, best to worst.
func (s *ExchangeService) Report() []string {
	lines := s.book.RenderTrades()
	return append(lines, s.book.RenderBook()...)
}
