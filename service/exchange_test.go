package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercury/domain/orderbook"
)

func TestReportTradesThenBook(t *testing.T) {
	svc := NewExchangeService()
	svc.Match(orderbook.Order{ID: "10000", Side: orderbook.Ask, Price: 100, Qty: 10})
	svc.Match(orderbook.Order{ID: "10001", Side: orderbook.Bid, Price: 100, Qty: 4})
	svc.Match(orderbook.Order{ID: "10002", Side: orderbook.Bid, Price: 98, Qty: 25500})

	lines := svc.Report()
	require.Len(t, lines, 2)
	assert.Equal(t, "trade 10001,10000,100,4", lines[0])
	assert.Equal(t, "     25,500     98 |    100           6", lines[1])
}

func TestReportEmptyBatch(t *testing.T) {
	svc := NewExchangeService()
	assert.Empty(t, svc.Report())
}
