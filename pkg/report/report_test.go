package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func demoReport() *PortfolioReport {
	r := New("Demo", "USD")
	r.AddPosition("AAPL", 10, 150, ptr(120), map[string]any{"sector": "Technology"})
	r.AddPosition("TSLA", 5, 700, ptr(650), map[string]any{"sector": "Automotive"})
	r.AddPosition("GOLD", 1, 1800, nil, map[string]any{"sector": "Commodity"})
	return r
}

func TestTotals(t *testing.T) {
	r := demoReport()

	assert.Equal(t, 10*150.0+5*700.0+1*1800.0, r.TotalMarketValue())

	cost, ok := r.TotalCostBasis()
	require.True(t, ok)
	assert.Equal(t, 10*120.0+5*650.0, cost)

	pnl, ok := r.UnrealizedPNL()
	require.True(t, ok)
	assert.Equal(t, r.TotalMarketValue()-cost, pnl)
}

func TestNoCostBasis(t *testing.T) {
	r := New("Empty", "USD")
	r.AddPosition("GOLD", 1, 1800, nil, nil)

	_, ok := r.TotalCostBasis()
	assert.False(t, ok)
	_, ok = r.UnrealizedPNL()
	assert.False(t, ok)
}

func TestPositionsComputedFields(t *testing.T) {
	r := demoReport()
	positions := r.Positions()
	require.Len(t, positions, 3)

	// Sorted by symbol: AAPL, GOLD, TSLA.
	aapl := positions[0]
	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, 1500.0, aapl.MarketValue)
	require.NotNil(t, aapl.CostValue)
	assert.Equal(t, 1200.0, *aapl.CostValue)
	require.NotNil(t, aapl.ReturnPct)
	assert.InDelta(t, 0.25, *aapl.ReturnPct, 1e-9)

	gold := positions[1]
	assert.Equal(t, "GOLD", gold.Symbol)
	assert.Nil(t, gold.CostValue)
	assert.Nil(t, gold.UnrealizedPNL)
	assert.Nil(t, gold.ReturnPct)
}

func TestUpdates(t *testing.T) {
	r := demoReport()

	require.NoError(t, r.UpdatePrice("aapl", 200))
	require.NoError(t, r.UpdateQuantity("AAPL", 20))
	require.NoError(t, r.SetCostBasis("gold", 1700))

	assert.Error(t, r.UpdatePrice("MSFT", 100))

	positions := r.Positions()
	assert.Equal(t, 4000.0, positions[0].MarketValue)
	require.NotNil(t, positions[1].CostValue)
}

func TestRemovePosition(t *testing.T) {
	r := demoReport()
	assert.True(t, r.RemovePosition("tsla"))
	assert.False(t, r.RemovePosition("TSLA"))
	assert.Len(t, r.Positions(), 2)
}

func TestWeightsSumToOne(t *testing.T) {
	r := demoReport()
	weights := r.Weights()

	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	empty := New("None", "USD")
	empty.AddPosition("X", 0, 100, nil, nil)
	for _, w := range empty.Weights() {
		assert.Zero(t, w)
	}
}

func TestAllocationBy(t *testing.T) {
	r := demoReport()
	alloc := r.AllocationBy("sector")

	assert.Equal(t, 1500.0, alloc["Technology"])
	assert.Equal(t, 3500.0, alloc["Automotive"])
	assert.Equal(t, 1800.0, alloc["Commodity"])

	r.AddPosition("MISC", 1, 10, nil, nil)
	alloc = r.AllocationBy("sector")
	assert.Equal(t, 10.0, alloc[""], "positions without the key group together")
}

func TestTextReport(t *testing.T) {
	text := demoReport().Text()

	assert.Contains(t, text, "Portfolio Report: Demo")
	assert.Contains(t, text, "Currency: USD")
	assert.Contains(t, text, "AAPL")
	assert.Contains(t, text, "N/A", "positions without cost basis render as N/A")
}

func TestCSVReport(t *testing.T) {
	out, err := demoReport().CSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4, "header plus one row per position")
	assert.Equal(t, "symbol,quantity,price,market_value,cost_basis,cost_value,unrealized_pnl,return_pct", lines[0])
}

func TestJSONReport(t *testing.T) {
	out, err := demoReport().JSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"total_market_value"`)
	assert.Contains(t, out, `"positions"`)
}

func TestFromHoldings(t *testing.T) {
	r, err := FromHoldings("alice", "USD", map[string]float64{"AAPL": 2}, func(string) (float64, error) {
		return 150, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, r.TotalMarketValue())

	_, err = FromHoldings("alice", "USD", map[string]float64{"X": 1}, func(string) (float64, error) {
		return 0, assert.AnError
	})
	assert.Error(t, err)
}
