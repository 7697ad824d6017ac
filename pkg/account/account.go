package account

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trackline/trackline/pkg/txnlog"
	"github.com/trackline/trackline/pkg/types"
)

// epsilon absorbs float rounding when comparing balances and holdings.
const epsilon = 1e-12

var (
	// ErrInsufficientFunds indicates the cash balance cannot cover an operation.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings indicates a sell exceeds the held quantity.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrInvalidOperation indicates a malformed operation such as a
	// non-positive amount or quantity.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Account is a user account holding a cash balance and a portfolio of
// symbol holdings. Every successful mutation is recorded as a
// transaction through the attached logger; rejected operations are
// recorded at WARNING level.
type Account struct {
	mu        sync.Mutex
	username  string
	email     string
	balance   float64
	holdings  map[string]float64
	createdAt string

	lg *txnlog.Logger
}

// New creates an account. The logger may be nil, in which case no
// transaction records are emitted.
func New(username, email string, openingBalance float64, lg *txnlog.Logger) (*Account, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username must be non-empty", ErrInvalidOperation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidOperation, email)
	}
	if openingBalance < 0 {
		return nil, fmt.Errorf("%w: opening balance must not be negative", ErrInvalidOperation)
	}
	return &Account{
		username:  username,
		email:     email,
		balance:   openingBalance,
		holdings:  make(map[string]float64),
		createdAt: time.Now().UTC().Format(time.RFC3339),
		lg:        lg,
	}, nil
}

// FromRecord restores an account from a persisted snapshot. Holdings
// with non-positive quantities are dropped.
func FromRecord(rec *types.AccountRecord, lg *txnlog.Logger) (*Account, error) {
	a, err := New(rec.Username, rec.Email, rec.Balance, lg)
	if err != nil {
		return nil, err
	}
	if rec.CreatedAt != "" {
		a.createdAt = rec.CreatedAt
	}
	for sym, qty := range rec.Portfolio {
		if qty > 0 {
			a.holdings[strings.ToUpper(sym)] = qty
		}
	}
	return a, nil
}

// Username returns the account identifier.
func (a *Account) Username() string { return a.username }

// Balance returns the current cash balance.
func (a *Account) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Quantity returns the held quantity for a symbol, zero when none.
func (a *Account) Quantity(symbol string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holdings[strings.ToUpper(symbol)]
}

// Holdings returns a copy of the portfolio.
func (a *Account) Holdings() map[string]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]float64, len(a.holdings))
	for k, v := range a.holdings {
		out[k] = v
	}
	return out
}

// Deposit adds cash to the account.
func (a *Account) Deposit(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidOperation)
	}
	a.mu.Lock()
	a.balance += amount
	balance := a.balance
	a.mu.Unlock()

	a.record(txnlog.LevelInfo, txnlog.Transaction{
		"action": string(types.ActionDeposit), "amount": amount, "balance": balance,
	})
	return nil
}

// Withdraw removes cash from the account, requiring sufficient funds.
func (a *Account) Withdraw(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: withdraw amount must be positive", ErrInvalidOperation)
	}
	a.mu.Lock()
	if amount > a.balance+epsilon {
		balance := a.balance
		a.mu.Unlock()
		a.record(txnlog.LevelWarning, txnlog.Transaction{
			"action": string(types.ActionWithdraw), "amount": amount, "balance": balance, "rejected": true,
		})
		return fmt.Errorf("%w: have %.2f, tried to withdraw %.2f", ErrInsufficientFunds, balance, amount)
	}
	a.balance -= amount
	balance := a.balance
	a.mu.Unlock()

	a.record(txnlog.LevelInfo, txnlog.Transaction{
		"action": string(types.ActionWithdraw), "amount": amount, "balance": balance,
	})
	return nil
}

// Buy purchases quantity of symbol at the given unit price, deducting
// the cost from the cash balance.
func (a *Account) Buy(symbol string, quantity, price float64) error {
	if quantity <= 0 || price < 0 {
		return fmt.Errorf("%w: quantity must be positive and price non-negative", ErrInvalidOperation)
	}
	sym := strings.ToUpper(symbol)
	cost := quantity * price

	a.mu.Lock()
	if cost > a.balance+epsilon {
		balance := a.balance
		a.mu.Unlock()
		a.record(txnlog.LevelWarning, txnlog.Transaction{
			"action": string(types.ActionBuy), "symbol": sym, "quantity": quantity,
			"price": price, "cost": cost, "balance": balance, "rejected": true,
		})
		return fmt.Errorf("%w: cost %.2f exceeds balance %.2f", ErrInsufficientFunds, cost, balance)
	}
	a.balance -= cost
	a.holdings[sym] += quantity
	balance := a.balance
	a.mu.Unlock()

	a.record(txnlog.LevelInfo, txnlog.Transaction{
		"action": string(types.ActionBuy), "symbol": sym, "quantity": quantity,
		"price": price, "cost": cost, "balance": balance,
	})
	return nil
}

// Sell disposes quantity of symbol at the given unit price, crediting
// the proceeds to the cash balance.
func (a *Account) Sell(symbol string, quantity, price float64) error {
	if quantity <= 0 || price < 0 {
		return fmt.Errorf("%w: quantity must be positive and price non-negative", ErrInvalidOperation)
	}
	sym := strings.ToUpper(symbol)

	a.mu.Lock()
	held := a.holdings[sym]
	if quantity > held+epsilon {
		a.mu.Unlock()
		a.record(txnlog.LevelWarning, txnlog.Transaction{
			"action": string(types.ActionSell), "symbol": sym, "quantity": quantity,
			"held": held, "rejected": true,
		})
		return fmt.Errorf("%w: have %v of %s, tried to sell %v", ErrInsufficientHoldings, held, sym, quantity)
	}
	rest := held - quantity
	if rest <= epsilon {
		delete(a.holdings, sym)
	} else {
		a.holdings[sym] = rest
	}
	proceeds := quantity * price
	a.balance += proceeds
	balance := a.balance
	a.mu.Unlock()

	a.record(txnlog.LevelInfo, txnlog.Transaction{
		"action": string(types.ActionSell), "symbol": sym, "quantity": quantity,
		"price": price, "proceeds": proceeds, "balance": balance,
	})
	return nil
}

// TransferTo moves cash to another account. Both accounts are locked
// in a stable order so reciprocal transfers cannot deadlock.
func (a *Account) TransferTo(other *Account, amount float64) error {
	if other == nil || other == a {
		return fmt.Errorf("%w: transfer requires a distinct destination account", ErrInvalidOperation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidOperation)
	}

	first, second := a, other
	if other.username < a.username {
		first, second = other, a
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if amount > a.balance+epsilon {
		return fmt.Errorf("%w: have %.2f, tried to transfer %.2f", ErrInsufficientFunds, a.balance, amount)
	}
	a.balance -= amount
	other.balance += amount

	a.record(txnlog.LevelInfo, txnlog.Transaction{
		"action": string(types.ActionTransfer), "amount": amount,
		"to": other.username, "balance": a.balance,
	})
	return nil
}

// TotalValue prices the portfolio with the given price source.
func (a *Account) TotalValue(price types.PriceFunc) (float64, error) {
	if price == nil {
		return 0, fmt.Errorf("%w: a price source is required", ErrInvalidOperation)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var total float64
	for sym, qty := range a.holdings {
		p, err := price(sym)
		if err != nil {
			return 0, fmt.Errorf("price %s: %w", sym, err)
		}
		total += qty * p
	}
	return total, nil
}

// Snapshot returns a persistable copy of the account state.
func (a *Account) Snapshot() *types.AccountRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	portfolio := make(map[string]float64, len(a.holdings))
	for k, v := range a.holdings {
		portfolio[k] = v
	}
	return &types.AccountRecord{
		Username:  a.username,
		Email:     a.email,
		Balance:   a.balance,
		Portfolio: portfolio,
		CreatedAt: a.createdAt,
	}
}

// record emits one transaction through the attached logger. A failed
// audit write does not fail the bookkeeping operation.
func (a *Account) record(level txnlog.Level, txn txnlog.Transaction) {
	if a.lg == nil {
		return
	}
	txn["id"] = uuid.NewString()
	txn["username"] = a.username
	_ = a.lg.Log(txn, level)
}
