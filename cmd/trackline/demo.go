package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trackline/trackline/pkg/account"
	"github.com/trackline/trackline/pkg/log"
	"github.com/trackline/trackline/pkg/metrics"
	"github.com/trackline/trackline/pkg/pricing"
	"github.com/trackline/trackline/pkg/report"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a small trading session against the engine",
	Long: `Seed an in-memory account, run a few trades through the transaction
log, print the resulting statistics and portfolio report, and
optionally keep serving engine metrics until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		lg, err := openLogger(cmd)
		if err != nil {
			return err
		}
		defer lg.Close()

		prices := pricing.Default()
		acc, err := account.New("demo", "demo@trackline.dev", 10000, lg)
		if err != nil {
			return err
		}

		steps := []func() error{
			func() error { return acc.Deposit(5000) },
			func() error { return buyAt(acc, prices, "AAPL", 10) },
			func() error { return buyAt(acc, prices, "TSLA", 4) },
			func() error { return sellAt(acc, prices, "AAPL", 3) },
			func() error { return acc.Withdraw(250) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		count, err := lg.Count(nil)
		if err != nil {
			return err
		}
		total, err := lg.SumField("amount")
		if err != nil {
			return err
		}
		fmt.Printf("Logged entries: %d\n", count)
		fmt.Printf("Cash moved:     %.2f\n", total)
		fmt.Printf("Balance:        %.2f\n\n", acc.Balance())

		r, err := report.FromHoldings("demo", "USD", acc.Holdings(), prices.Func())
		if err != nil {
			return err
		}
		fmt.Print(r.Text())

		if metricsAddr == "" {
			return nil
		}

		http.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				log.Errorf("metrics server stopped", err)
			}
		}()
		fmt.Printf("\nServing metrics on %s/metrics (Ctrl+C to stop)\n", metricsAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		return nil
	},
}

func buyAt(acc *account.Account, prices *pricing.Table, symbol string, qty float64) error {
	p, err := prices.Price(symbol)
	if err != nil {
		return err
	}
	return acc.Buy(symbol, qty, p)
}

func sellAt(acc *account.Account, prices *pricing.Table, symbol string, qty float64) error {
	p, err := prices.Price(symbol)
	if err != nil {
		return err
	}
	return acc.Sell(symbol, qty, p)
}

func init() {
	demoCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address after the session")
}
