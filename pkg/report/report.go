package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/trackline/trackline/pkg/types"
)

// Position is one reported holding with its computed valuation fields.
type Position struct {
	types.Position
	MarketValue   float64  `json:"market_value"`
	CostValue     *float64 `json:"cost_value"`
	UnrealizedPNL *float64 `json:"unrealized_pnl"`
	ReturnPct     *float64 `json:"return_pct"`
}

// PortfolioReport aggregates a set of positions and computes valuation
// metrics over them. Symbols are normalized to upper case; adding an
// existing symbol replaces it.
type PortfolioReport struct {
	mu        sync.Mutex
	name      string
	currency  string
	positions map[string]*types.Position
}

// New creates an empty report.
func New(name, currency string) *PortfolioReport {
	if name == "" {
		name = "Portfolio"
	}
	if currency == "" {
		currency = "USD"
	}
	return &PortfolioReport{
		name:      name,
		currency:  currency,
		positions: make(map[string]*types.Position),
	}
}

// FromHoldings builds a report from raw holdings priced by the given
// source.
func FromHoldings(name, currency string, holdings map[string]float64, price types.PriceFunc) (*PortfolioReport, error) {
	r := New(name, currency)
	for sym, qty := range holdings {
		p, err := price(sym)
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", sym, err)
		}
		r.AddPosition(sym, qty, p, nil, nil)
	}
	return r, nil
}

// AddPosition inserts or replaces a position.
func (r *PortfolioReport) AddPosition(symbol string, quantity, price float64, costBasis *float64, metadata map[string]any) {
	sym := strings.ToUpper(symbol)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[sym] = &types.Position{
		Symbol:    sym,
		Quantity:  quantity,
		Price:     price,
		CostBasis: costBasis,
		Metadata:  metadata,
	}
}

// RemovePosition deletes a position, reporting whether it existed.
func (r *PortfolioReport) RemovePosition(symbol string) bool {
	sym := strings.ToUpper(symbol)
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.positions[sym]
	delete(r.positions, sym)
	return ok
}

// UpdatePrice sets the market price of an existing position.
func (r *PortfolioReport) UpdatePrice(symbol string, price float64) error {
	return r.update(symbol, func(p *types.Position) { p.Price = price })
}

// UpdateQuantity sets the quantity of an existing position.
func (r *PortfolioReport) UpdateQuantity(symbol string, quantity float64) error {
	return r.update(symbol, func(p *types.Position) { p.Quantity = quantity })
}

// SetCostBasis sets the cost basis of an existing position.
func (r *PortfolioReport) SetCostBasis(symbol string, costBasis float64) error {
	return r.update(symbol, func(p *types.Position) { p.CostBasis = &costBasis })
}

func (r *PortfolioReport) update(symbol string, fn func(*types.Position)) error {
	sym := strings.ToUpper(symbol)
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.positions[sym]
	if !ok {
		return fmt.Errorf("position %s not found", sym)
	}
	fn(p)
	return nil
}

// Positions returns the computed view of every position, sorted by
// symbol.
func (r *PortfolioReport) Positions() []Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Position, 0, len(r.positions))
	for _, p := range r.positions {
		out = append(out, compute(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func compute(p *types.Position) Position {
	pos := Position{Position: *p}
	pos.MarketValue = p.Quantity * p.Price
	if p.CostBasis != nil {
		cv := p.Quantity * *p.CostBasis
		pnl := pos.MarketValue - cv
		pos.CostValue = &cv
		pos.UnrealizedPNL = &pnl
		if *p.CostBasis != 0 {
			ret := (p.Price - *p.CostBasis) / *p.CostBasis
			pos.ReturnPct = &ret
		}
	}
	return pos
}

// TotalMarketValue sums the market value of all positions.
func (r *PortfolioReport) TotalMarketValue() float64 {
	var total float64
	for _, p := range r.Positions() {
		total += p.MarketValue
	}
	return total
}

// TotalCostBasis sums cost values over positions that have one. The
// second result is false when none do.
func (r *PortfolioReport) TotalCostBasis() (float64, bool) {
	var total float64
	var any bool
	for _, p := range r.Positions() {
		if p.CostValue != nil {
			total += *p.CostValue
			any = true
		}
	}
	return total, any
}

// UnrealizedPNL is total market value minus total cost basis, absent
// when no position carries a cost basis.
func (r *PortfolioReport) UnrealizedPNL() (float64, bool) {
	cost, ok := r.TotalCostBasis()
	if !ok {
		return 0, false
	}
	return r.TotalMarketValue() - cost, true
}

// Weights returns each position's share of total market value.
func (r *PortfolioReport) Weights() map[string]float64 {
	positions := r.Positions()
	total := 0.0
	for _, p := range positions {
		total += p.MarketValue
	}
	weights := make(map[string]float64, len(positions))
	for _, p := range positions {
		if total == 0 {
			weights[p.Symbol] = 0
			continue
		}
		weights[p.Symbol] = p.MarketValue / total
	}
	return weights
}

// AllocationBy aggregates market value by a metadata key. Positions
// missing the key group under the empty string.
func (r *PortfolioReport) AllocationBy(key string) map[string]float64 {
	agg := make(map[string]float64)
	for _, p := range r.Positions() {
		group := ""
		if v, ok := p.Metadata[key]; ok {
			group = fmt.Sprint(v)
		}
		agg[group] += p.MarketValue
	}
	return agg
}

// Text renders a human-readable report with one row per position.
func (r *PortfolioReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio Report: %s\n", r.name)
	fmt.Fprintf(&b, "Currency: %s\n\n", r.currency)
	fmt.Fprintf(&b, "Total Market Value: %.2f\n", r.TotalMarketValue())
	fmt.Fprintf(&b, "Total Cost Basis: %s\n", optional(r.TotalCostBasis()))
	fmt.Fprintf(&b, "Unrealized P&L: %s\n\n", optional(r.UnrealizedPNL()))

	fmt.Fprintf(&b, "%-8s %12s %12s %12s %12s %12s %10s\n",
		"Symbol", "Qty", "Price", "Mkt Value", "Cost Value", "Unreal P&L", "Return%")
	for _, p := range r.Positions() {
		fmt.Fprintf(&b, "%-8s %12.2f %12.2f %12.2f %12s %12s %10s\n",
			p.Symbol, p.Quantity, p.Price, p.MarketValue,
			optionalPtr(p.CostValue), optionalPtr(p.UnrealizedPNL), percent(p.ReturnPct))
	}
	return b.String()
}

// JSON renders the report as an indented JSON document.
func (r *PortfolioReport) JSON() (string, error) {
	totalCost, hasCost := r.TotalCostBasis()
	pnl, hasPNL := r.UnrealizedPNL()
	payload := map[string]any{
		"name":               r.name,
		"currency":           r.currency,
		"total_market_value": r.TotalMarketValue(),
		"total_cost_basis":   nilUnless(totalCost, hasCost),
		"unrealized_pnl":     nilUnless(pnl, hasPNL),
		"positions":          r.Positions(),
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(b), nil
}

// CSV renders the positions with their computed fields.
func (r *PortfolioReport) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"symbol", "quantity", "price", "market_value", "cost_basis", "cost_value", "unrealized_pnl", "return_pct"}); err != nil {
		return "", err
	}
	for _, p := range r.Positions() {
		row := []string{
			p.Symbol,
			formatFloat(p.Quantity),
			formatFloat(p.Price),
			formatFloat(p.MarketValue),
			formatPtr(p.CostBasis),
			formatPtr(p.CostValue),
			formatPtr(p.UnrealizedPNL),
			formatPtr(p.ReturnPct),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func optional(v float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func optionalPtr(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *f)
}

func percent(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *f*100)
}

func nilUnless(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
