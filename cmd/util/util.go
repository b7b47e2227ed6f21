package util

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Ere11i/KV-Store-CLI-Utility/lib/store"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/store/fstore"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/txlog"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("kvstore")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// SetupLogger installs the process-wide slog handler according to the
// --log-level and --no-color settings.
func SetupLogger() {
	noColor := viper.GetBool("no-color") || !isatty.IsTerminal(os.Stderr.Fd())
	handler := tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      parseLogLevel(viper.GetString("log-level")),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})
	slog.SetDefault(slog.New(handler))
}

// parseLogLevel converts a string level to a slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "invalid log level %q, using info\n", level)
		return slog.LevelInfo
	}
}

// LogFile returns the configured transaction log path ("" = no log file).
func LogFile() string {
	return viper.GetString("log-file")
}

// OpenLogger creates the transaction logger from the current configuration.
func OpenLogger() (txlog.ITransactionLogger, error) {
	return txlog.New(txlog.Options{
		LogFile: LogFile(),
		Log:     slog.Default(),
	})
}

// OpenStore creates the store and its transaction logger from the current
// configuration. Every record written through this store is tagged with a
// fresh invocation id so log entries can be traced back to a single CLI run.
func OpenStore() (store.IStore, txlog.ITransactionLogger, error) {
	logger, err := OpenLogger()
	if err != nil {
		return nil, nil, err
	}

	st, err := fstore.New(fstore.Options{
		DataFile: viper.GetString("data-file"),
		Logger:   logger,
		Metadata: map[string]string{
			"source":     "cli",
			"invocation": uuid.NewString(),
		},
		Log: slog.Default(),
	})
	if err != nil {
		return nil, nil, err
	}

	return st, logger, nil
}

// FormatError maps the store's error kinds to user-facing messages.
func FormatError(err error) string {
	switch {
	case store.IsInvalidKey(err), store.IsInvalidValue(err), store.IsKeyNotFound(err):
		return err.Error()
	case store.IsTransaction(err):
		return fmt.Sprintf("storage failure: %v", err)
	default:
		return err.Error()
	}
}
