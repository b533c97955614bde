// Package orderbook implements the in-memory limit order book and the
// price-time priority matching engine. It maintains two red-black trees,
// one per side, each carrying its own total order (bids rank by
// descending price, asks by ascending price, ties by ascending order ID).
//
// The book is single-writer: one book belongs to exactly one batch of
// orders and is discarded after the batch is reported.
package orderbook
