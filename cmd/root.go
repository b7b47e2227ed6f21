package cmd

import (
	"fmt"
	"os"

	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/kv"
	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/shell"
	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/txn"
	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/util"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"

	defaultDataFile = "kv_store_data.json"
	defaultLogFile  = "kv_store_log.json"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvstore",
		Short: "durable key-value store with a transaction log",
		Long: fmt.Sprintf(`kvstore (v%s)

A thread-safe key-value store with durable JSON persistence and an
append-only transaction log that records every operation, reads included.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvstore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvstore v%s\n", Version)
		},
	}

	// metricsCmd dumps the in-process metrics in Prometheus text format
	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "Print in-process metrics in Prometheus text format",
		Run: func(cmd *cobra.Command, args []string) {
			metrics.WritePrometheus(os.Stdout, true)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(txn.TransactionLogCommands)
	RootCmd.AddCommand(shell.ShellCmd)
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(metricsCmd)

	// Add Flags
	key := "data-file"
	RootCmd.PersistentFlags().String(key, defaultDataFile, util.WrapString("path of the JSON data file (empty for a non-durable in-memory store)"))
	key = "log-file"
	RootCmd.PersistentFlags().String(key, defaultLogFile, util.WrapString("path of the JSON transaction log (empty to disable log retention)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("diagnostic log level (debug, info, warn, error)"))
	key = "no-color"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("disable colored diagnostic output"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
