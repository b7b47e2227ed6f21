package shell

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/util"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/store"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/txlog"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
	"github.com/spf13/cobra"
)

const helpText = `commands:
  put <key> <value>           store a value (value parsed as JSON, else text)
  get <key>                   read a value
  del <key>                   delete a key
  has <key>                   check whether a key exists
  keys                        list all keys
  list                        list all entries
  size                        number of entries
  clear                       remove all entries
  log show [op] [key] [n]     show log records, newest n, filtered
  log clear                   truncate the log
  log stats                   per-operation counts for this session
  help                        this text
  exit                        leave the shell`

var (
	// ShellCmd starts the interactive shell
	ShellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Interactive key-value store shell",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)
}

func runShell(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	util.SetupLogger()

	st, logger, err := util.OpenStore()
	if err != nil {
		return err
	}

	session := &shellSession{store: st, logger: logger}

	fmt.Println("kvstore interactive shell - type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("kv> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		if err := session.dispatch(fields[0], fields[1:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", util.FormatError(err))
		}
	}
}

// shellSession holds the store and logger for one interactive run
type shellSession struct {
	store  store.IStore
	logger txlog.ITransactionLogger
}

func (s *shellSession) dispatch(command string, args []string) error {
	switch command {
	case "help":
		fmt.Println(helpText)
		return nil
	case "put":
		if len(args) < 2 {
			return fmt.Errorf("usage: put <key> <value>")
		}
		raw := strings.Join(args[1:], " ")
		v, err := value.Parse([]byte(raw))
		if err != nil {
			v = value.String(raw)
		}
		if err := s.store.Put(args[0], v); err != nil {
			return err
		}
		fmt.Printf("stored %s = %s\n", args[0], v)
		return nil
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: get <key>")
		}
		v, err := s.store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	case "del", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: del <key>")
		}
		old, err := s.store.Delete(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("deleted %s (was %s)\n", args[0], old)
		return nil
	case "has", "exists":
		if len(args) != 1 {
			return fmt.Errorf("usage: has <key>")
		}
		found, err := s.store.Exists(args[0])
		if err != nil {
			return err
		}
		fmt.Println(found)
		return nil
	case "keys":
		for _, key := range s.store.Keys() {
			fmt.Println(key)
		}
		return nil
	case "list":
		entries := s.store.Entries()
		if len(entries) == 0 {
			fmt.Println("store is empty")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("  %s: %s\n", entry.Key, entry.Value)
		}
		return nil
	case "size":
		fmt.Println(s.store.Size())
		return nil
	case "clear":
		removed := s.store.Size()
		if err := s.store.Clear(); err != nil {
			return err
		}
		fmt.Printf("store cleared (%d entries removed)\n", removed)
		return nil
	case "log":
		return s.dispatchLog(args)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", command)
	}
}

func (s *shellSession) dispatchLog(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: log <show|clear|stats>")
	}

	switch args[0] {
	case "show":
		filter, err := parseShowArgs(args[1:])
		if err != nil {
			return err
		}
		records := s.logger.Query(filter)
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
	case "clear":
		if err := s.logger.Clear(); err != nil {
			return err
		}
		fmt.Println("transaction log cleared")
		return nil
	case "stats":
		// In-process counters: appends done by this shell session.
		out, err := json.MarshalIndent(s.logger.Info(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	default:
		return fmt.Errorf("unknown log command %q", args[0])
	}
}

// parseShowArgs parses the positional [op] [key] [limit] arguments
func parseShowArgs(args []string) (txlog.Filter, error) {
	var f txlog.Filter

	if len(args) > 0 && args[0] != "" {
		op := txlog.Operation(strings.ToUpper(args[0]))
		if !op.Valid() {
			return f, fmt.Errorf("unknown operation %q (want PUT, GET, DELETE or CLEAR)", args[0])
		}
		f.Operation = op
	}
	if len(args) > 1 {
		f.Key = args[1]
	}
	if len(args) > 2 {
		limit, err := strconv.Atoi(args[2])
		if err != nil {
			return f, fmt.Errorf("limit must be a number: %w", err)
		}
		f.Limit = limit
	}

	return f, nil
}
