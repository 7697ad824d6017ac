package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trackline/trackline/pkg/account"
	"github.com/trackline/trackline/pkg/pricing"
	"github.com/trackline/trackline/pkg/report"
	"github.com/trackline/trackline/pkg/storage"
	"github.com/trackline/trackline/pkg/txnlog"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage ledger accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create [username] [email]",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		balance, _ := cmd.Flags().GetFloat64("balance")
		return withLedger(cmd, func(store storage.Store, lg *txnlog.Logger) error {
			acc, err := account.New(args[0], args[1], balance, lg)
			if err != nil {
				return err
			}
			if err := store.SaveAccount(acc.Snapshot()); err != nil {
				return err
			}
			fmt.Printf("✓ Account %s created\n", args[0])
			return nil
		})
	},
}

var accountDepositCmd = &cobra.Command{
	Use:   "deposit [username] [amount]",
	Short: "Deposit cash into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateAccount(cmd, args[0], func(acc *account.Account) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return acc.Deposit(amount)
		})
	},
}

var accountWithdrawCmd = &cobra.Command{
	Use:   "withdraw [username] [amount]",
	Short: "Withdraw cash from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateAccount(cmd, args[0], func(acc *account.Account) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return acc.Withdraw(amount)
		})
	},
}

var accountBuyCmd = &cobra.Command{
	Use:   "buy [username] [symbol] [quantity]",
	Short: "Buy shares at the listed price",
	Args:  cobra.ExactArgs(3),
	RunE:  func(cmd *cobra.Command, args []string) error { return trade(cmd, args, true) },
}

var accountSellCmd = &cobra.Command{
	Use:   "sell [username] [symbol] [quantity]",
	Short: "Sell shares at the listed price",
	Args:  cobra.ExactArgs(3),
	RunE:  func(cmd *cobra.Command, args []string) error { return trade(cmd, args, false) },
}

var accountShowCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show an account's balance and holdings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(store storage.Store, lg *txnlog.Logger) error {
			rec, err := store.GetAccount(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Account:  %s <%s>\n", rec.Username, rec.Email)
			fmt.Printf("Balance:  %.2f\n", rec.Balance)
			fmt.Printf("Created:  %s\n", rec.CreatedAt)
			for sym, qty := range rec.Portfolio {
				fmt.Printf("  %-8s %g\n", sym, qty)
			}
			return nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [username]",
	Short: "Print a valuation report for an account's portfolio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(store storage.Store, lg *txnlog.Logger) error {
			rec, err := store.GetAccount(args[0])
			if err != nil {
				return err
			}
			r, err := report.FromHoldings(rec.Username, "USD", rec.Portfolio, pricing.Default().Func())
			if err != nil {
				return err
			}
			fmt.Print(r.Text())
			return nil
		})
	},
}

func trade(cmd *cobra.Command, args []string, buy bool) error {
	return mutateAccount(cmd, args[0], func(acc *account.Account) error {
		qty, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		price, err := pricing.Default().Price(args[1])
		if err != nil {
			return err
		}
		if buy {
			return acc.Buy(args[1], qty, price)
		}
		return acc.Sell(args[1], qty, price)
	})
}

// withLedger opens the account store plus the transaction logger and
// tears both down afterwards.
func withLedger(cmd *cobra.Command, fn func(storage.Store, *txnlog.Logger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	lg, err := openLogger(cmd)
	if err != nil {
		return err
	}
	defer lg.Close()

	return fn(store, lg)
}

// mutateAccount loads an account, applies fn, and persists the result.
func mutateAccount(cmd *cobra.Command, username string, fn func(*account.Account) error) error {
	return withLedger(cmd, func(store storage.Store, lg *txnlog.Logger) error {
		rec, err := store.GetAccount(username)
		if err != nil {
			return err
		}
		acc, err := account.FromRecord(rec, lg)
		if err != nil {
			return err
		}
		if err := fn(acc); err != nil {
			return err
		}
		if err := store.SaveAccount(acc.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("✓ Balance: %.2f\n", acc.Balance())
		return nil
	})
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

func init() {
	accountCreateCmd.Flags().Float64("balance", 0, "opening cash balance")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountDepositCmd)
	accountCmd.AddCommand(accountWithdrawCmd)
	accountCmd.AddCommand(accountBuyCmd)
	accountCmd.AddCommand(accountSellCmd)
	accountCmd.AddCommand(accountShowCmd)
}
