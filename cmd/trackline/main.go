package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trackline/trackline/pkg/log"
	"github.com/trackline/trackline/pkg/txnlog"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trackline",
	Short: "Trackline - structured transaction logging and portfolio ledger",
	Long: `Trackline records structured transaction entries to a rotating log
file and reads them back for querying, statistics, and export. It also
keeps a small account ledger whose operations feed the transaction log.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		log.Init(log.Config{Level: level})
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Trackline version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug diagnostics")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(demoCmd)
}

// openLogger builds the engine from the config file plus flags.
func openLogger(cmd *cobra.Command) (*txnlog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return txnlog.New(txnlog.Config{
		Path:        cfg.Log.Path,
		Format:      txnlog.Format(cfg.Log.Format),
		MaxBytes:    cfg.Log.MaxBytes,
		BackupCount: cfg.Log.BackupCount,
		BufferSize:  cfg.Log.BufferSize,
		Level:       txnlog.Level(cfg.Log.Level),
		Diag:        log.WithComponent("txnlog"),
	})
}

var logCmd = &cobra.Command{
	Use:   "log [payload-json]",
	Short: "Append one transaction entry to the log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")

		var txn txnlog.Transaction
		if err := json.Unmarshal([]byte(args[0]), &txn); err != nil {
			return fmt.Errorf("payload must be a JSON object: %w", err)
		}

		lg, err := openLogger(cmd)
		if err != nil {
			return err
		}
		defer lg.Close()

		return lg.Log(txn, txnlog.Level(level))
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print persisted entries, optionally filtered by level",
	RunE: func(cmd *cobra.Command, args []string) error {
		levelFilter, _ := cmd.Flags().GetString("level")

		lg, err := openLogger(cmd)
		if err != nil {
			return err
		}
		defer lg.Close()

		var pred txnlog.Predicate
		if levelFilter != "" {
			want, err := txnlog.ParseLevel(levelFilter)
			if err != nil {
				return err
			}
			pred = func(e *txnlog.Entry) bool { return e.Level == want }
		}

		entries, err := lg.Query(pred)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Raw != "" {
				fmt.Println(e.Raw)
				continue
			}
			b, _ := json.Marshal(e.Transaction)
			fmt.Printf("%s %s %s\n", e.Timestamp, e.Level, b)
		}
		fmt.Fprintf(os.Stderr, "%d entries\n", len(entries))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [field]",
	Short: "Count, sum, and average a numeric transaction field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		field := args[0]

		lg, err := openLogger(cmd)
		if err != nil {
			return err
		}
		defer lg.Close()

		count, err := lg.Count(nil)
		if err != nil {
			return err
		}
		sum, err := lg.SumField(field)
		if err != nil {
			return err
		}
		avg, ok, err := lg.AvgField(field)
		if err != nil {
			return err
		}

		fmt.Printf("Entries: %d\n", count)
		fmt.Printf("Sum(%s): %g\n", field, sum)
		if ok {
			fmt.Printf("Avg(%s): %g\n", field, avg)
		} else {
			fmt.Printf("Avg(%s): N/A\n", field)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [output-path]",
	Short: "Convert the log to NDJSON or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		lg, err := openLogger(cmd)
		if err != nil {
			return err
		}
		defer lg.Close()

		if err := lg.Export(args[0], txnlog.ExportFormat(format)); err != nil {
			return err
		}
		fmt.Printf("✓ Exported to %s\n", args[0])
		return nil
	},
}

func init() {
	logCmd.Flags().String("level", "INFO", "severity level for the entry")
	queryCmd.Flags().String("level", "", "only print entries at this level")
	exportCmd.Flags().String("format", "json", "export format (json or csv)")
}
