package types

// TradeSide distinguishes the two directions of a trade
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradeAction names the operations an account can record
type TradeAction string

const (
	ActionDeposit  TradeAction = "deposit"
	ActionWithdraw TradeAction = "withdraw"
	ActionBuy      TradeAction = "buy"
	ActionSell     TradeAction = "sell"
	ActionTransfer TradeAction = "transfer"
)

// AccountRecord is the persisted snapshot of a user account
type AccountRecord struct {
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Balance   float64            `json:"balance"`
	Portfolio map[string]float64 `json:"portfolio"`
	CreatedAt string             `json:"created_at"`
}

// Position is one holding inside a portfolio report
type Position struct {
	Symbol    string         `json:"symbol"`
	Quantity  float64        `json:"quantity"`
	Price     float64        `json:"price"`
	CostBasis *float64       `json:"cost_basis"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// PriceFunc resolves the current market price for a symbol
type PriceFunc func(symbol string) (float64, error)
