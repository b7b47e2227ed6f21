package kv

import (
	"encoding/json"
	"fmt"

	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
	"github.com/spf13/cobra"
)

// parseValueArg interprets a raw argument as a JSON value and falls back to
// a plain string when it does not parse.
func parseValueArg(arg string) value.Value {
	if v, err := value.Parse([]byte(arg)); err == nil {
		return v
	}
	return value.String(arg)
}

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores a value under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			v := parseValueArg(args[1])
			if err := kvStore.Put(key, v); err != nil {
				return err
			}
			fmt.Printf("stored %s = %s\n", key, v)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := kvStore.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key-value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			old, err := kvStore.Delete(key)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %s (was %s)\n", key, old)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			found, err := kvStore.Exists(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", key, found)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range kvStore.Keys() {
				fmt.Println(key)
			}
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all key-value pairs as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := kvStore.Entries()
			if len(entries) == 0 {
				fmt.Println("store is empty")
				return nil
			}
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "Prints the number of stored entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(kvStore.Size())
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := kvStore.Size()
			if err := kvStore.Clear(); err != nil {
				return err
			}
			fmt.Printf("store cleared (%d entries removed)\n", removed)
			return nil
		},
	}
)
