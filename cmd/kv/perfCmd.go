package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Ere11i/KV-Store-CLI-Utility/cmd/util"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/store"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/store/fstore"
	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Micro-benchmark put/get against a throwaway store",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfOps       = 1000
	perfThreads   = 4
	perfValueSize = 64
	perfDurable   = true
)

func init() {
	// add flags
	key := "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Total number of operations per benchmark"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 4, util.WrapString("Number of goroutines to use for the benchmark"))
	key = "value-size"
	perfTestCmd.Flags().Int(key, 64, util.WrapString("Size of the benchmark values (in bytes)"))
	key = "durable"
	perfTestCmd.Flags().Bool(key, true, util.WrapString("Whether the throwaway store should write a data file (measures the full-snapshot rewrite)"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfOps = viper.GetInt("ops")
	perfThreads = viper.GetInt("threads")
	perfValueSize = viper.GetInt("value-size")
	perfDurable = viper.GetBool("durable")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("kvstore micro-benchmark")
	fmt.Printf("ops=%d threads=%d value-size=%dB durable=%t\n\n", perfOps, perfThreads, perfValueSize, perfDurable)

	// The benchmark runs against its own throwaway store so that it never
	// touches the configured data or log files.
	dataFile := ""
	if perfDurable {
		dir, err := os.MkdirTemp("", "kvstore-perf-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		dataFile = filepath.Join(dir, "perf_data.json")
	}

	st, err := fstore.New(fstore.Options{DataFile: dataFile})
	if err != nil {
		return err
	}

	registry := gometrics.NewRegistry()
	testValue := value.String(strings.Repeat("x", perfValueSize))

	putTimer := gometrics.NewRegisteredTimer("put", registry)
	runParallel(perfThreads, perfOps, func(i int) {
		putTimer.Time(func() {
			if err := st.Put(perfKey(i), testValue); err != nil {
				fmt.Fprintf(os.Stderr, "(put) - error: %v\n", err)
			}
		})
	})
	printTimer("put", putTimer)

	getTimer := gometrics.NewRegisteredTimer("get", registry)
	runParallel(perfThreads, perfOps, func(i int) {
		getTimer.Time(func() {
			if _, err := st.Get(perfKey(i)); err != nil {
				fmt.Fprintf(os.Stderr, "(get) - error: %v\n", err)
			}
		})
	})
	printTimer("get", getTimer)

	mixedTimer := gometrics.NewRegisteredTimer("mixed", registry)
	runParallel(perfThreads, perfOps, func(i int) {
		mixedTimer.Time(func() {
			var err error
			switch i % 4 {
			case 0:
				err = st.Put(perfKey(i), testValue)
			default:
				_, err = st.Get(perfKey(i))
			}
			if err != nil && !store.IsKeyNotFound(err) {
				fmt.Fprintf(os.Stderr, "(mixed) - error: %v\n", err)
			}
		})
	})
	printTimer("mixed", mixedTimer)

	return nil
}

// perfKey spreads benchmark keys over the thread count
func perfKey(i int) string {
	return fmt.Sprintf("__perf:%d", i)
}

// runParallel distributes ops calls of fn over the configured goroutines
func runParallel(threads, ops int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(threads)

	for t := 0; t < threads; t++ {
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < ops; i += threads {
				fn(i)
			}
		}(t)
	}

	wg.Wait()
}

// printTimer prints one benchmark result line from the timer's snapshot
func printTimer(name string, t gometrics.Timer) {
	snap := t.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-8s count=%-8d mean=%-10s p50=%-10s p95=%-10s p99=%s\n",
		name,
		snap.Count(),
		time.Duration(int64(snap.Mean())),
		time.Duration(int64(ps[0])),
		time.Duration(int64(ps[1])),
		time.Duration(int64(ps[2])),
	)
}
