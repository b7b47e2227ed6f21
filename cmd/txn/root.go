package txn

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/util"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/txlog"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	txnLogger txlog.ITransactionLogger

	// TransactionLogCommands represents the transaction log command group
	TransactionLogCommands = &cobra.Command{
		Use:               "log",
		Short:             "Inspect and manage the transaction log",
		PersistentPreRunE: setupLogger,
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Shows transaction log records",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Truncates the transaction log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := txnLogger.Clear(); err != nil {
				return err
			}
			fmt.Println("transaction log cleared")
			return nil
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Shows per-operation transaction counts",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	followCmd = &cobra.Command{
		Use:   "follow",
		Short: "Streams new transaction records until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runFollow,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add flags for show
	key := "operation"
	showCmd.Flags().String(key, "", util.WrapString("Only show records of this operation (PUT, GET, DELETE, CLEAR)"))
	key = "key"
	showCmd.Flags().String(key, "", util.WrapString("Only show records touching this key"))
	key = "limit"
	showCmd.Flags().Int(key, 0, util.WrapString("Only show the most recent N matching records"))

	// Add subcommands
	TransactionLogCommands.AddCommand(showCmd)
	TransactionLogCommands.AddCommand(clearCmd)
	TransactionLogCommands.AddCommand(statsCmd)
	TransactionLogCommands.AddCommand(followCmd)
}

// setupLogger opens the transaction logger configured by the persistent flags
func setupLogger(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	util.SetupLogger()

	var err error
	txnLogger, err = util.OpenLogger()
	return err
}

// parseFilter builds the record filter from the show flags
func parseFilter() (txlog.Filter, error) {
	f := txlog.Filter{
		Key:   viper.GetString("key"),
		Limit: viper.GetInt("limit"),
	}

	if raw := viper.GetString("operation"); raw != "" {
		op := txlog.Operation(strings.ToUpper(raw))
		if !op.Valid() {
			return f, fmt.Errorf("unknown operation %q (want PUT, GET, DELETE or CLEAR)", raw)
		}
		f.Operation = op
	}

	return f, nil
}

func runShow(_ *cobra.Command, _ []string) error {
	filter, err := parseFilter()
	if err != nil {
		return err
	}

	records := txnLogger.Query(filter)
	if len(records) == 0 {
		fmt.Println("transaction log is empty")
		return nil
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("found %d transactions\n%s\n", len(records), out)
	return nil
}

func runStats(_ *cobra.Command, _ []string) error {
	records := txnLogger.Query(txlog.Filter{})

	operations := make(map[txlog.Operation]int)
	for _, rec := range records {
		operations[rec.Operation]++
	}

	stats := struct {
		TotalTransactions int                     `json:"total_transactions"`
		Operations        map[txlog.Operation]int `json:"operations"`
		LogFile           string                  `json:"log_file,omitempty"`
	}{
		TotalTransactions: len(records),
		Operations:        operations,
		LogFile:           util.LogFile(),
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runFollow(_ *cobra.Command, _ []string) error {
	logFile := util.LogFile()
	if logFile == "" {
		return fmt.Errorf("no log file configured, nothing to follow")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(logFile); err != nil {
		return err
	}

	// Records already present are not replayed; start behind the newest id.
	lastID := maxTransactionID(txnLogger.Query(txlog.Filter{}))

	fmt.Printf("following %s (interrupt to stop)\n", logFile)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			for _, rec := range txnLogger.Query(txlog.Filter{}) {
				if rec.TransactionID <= lastID {
					continue
				}
				lastID = rec.TransactionID
				out, err := json.Marshal(rec)
				if err != nil {
					continue
				}
				fmt.Println(string(out))
			}
		}
	}
}

// maxTransactionID returns the highest id in the given records
func maxTransactionID(records []txlog.Record) uint64 {
	var max uint64
	for _, rec := range records {
		if rec.TransactionID > max {
			max = rec.TransactionID
		}
	}
	return max
}
