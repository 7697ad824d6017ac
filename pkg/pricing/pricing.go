package pricing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/trackline/trackline/pkg/types"
)

// ErrUnknownSymbol is returned for symbols without a listed price.
var ErrUnknownSymbol = fmt.Errorf("unknown symbol")

// Table is a fixed in-memory price source.
type Table struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewTable creates a price table from a symbol-to-price map.
func NewTable(prices map[string]float64) *Table {
	t := &Table{prices: make(map[string]float64, len(prices))}
	for sym, p := range prices {
		t.prices[strings.ToUpper(sym)] = p
	}
	return t
}

// Default returns the built-in demo price table.
func Default() *Table {
	return NewTable(map[string]float64{
		"AAPL":  150.0,
		"TSLA":  700.0,
		"GOOGL": 2800.0,
	})
}

// Price returns the listed price for a symbol.
func (t *Table) Price(symbol string) (float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.prices[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return p, nil
}

// Set updates or adds a listed price.
func (t *Table) Set(symbol string, price float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prices[strings.ToUpper(symbol)] = price
}

// Func adapts the table to the shared PriceFunc type.
func (t *Table) Func() types.PriceFunc {
	return t.Price
}
