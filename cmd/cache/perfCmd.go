package cache

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buildcache/dbc/cmd/util"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dBC servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfOpsPerTest       = 10000
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("How many operations to run per test"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfOpsPerTest = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dBC servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Ops per test: %d\n", perfNumThreads, perfOpsPerTest)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]gometrics.Timer)

	// put
	results["put"] = runTimed("put", func(counter int, getKey func(int) string) error {
		return remoteCache.Put(getKey(counter), []byte("test"))
	}, nil)

	// put-large
	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	results["put-large"] = runTimed("put-large", func(counter int, getKey func(int) string) error {
		return remoteCache.Put(getKey(counter), largeValue)
	}, nil)

	// get
	results["get"] = runTimed("get", func(counter int, getKey func(int) string) error {
		_, _, err := remoteCache.Get(getKey(counter))
		return err
	}, seedKeys)

	// has
	results["has"] = runTimed("has", func(counter int, getKey func(int) string) error {
		_, err := remoteCache.Has(getKey(counter))
		return err
	}, seedKeys)

	// has-not
	results["has-not"] = runTimed("has-not", func(counter int, _ func(int) string) error {
		_, err := remoteCache.Has(fmt.Sprintf("%s/has-not-%d", perfKeyPrefix, counter%perfKeySpread))
		return err
	}, nil)

	// delete
	results["delete"] = runTimed("delete", func(counter int, getKey func(int) string) error {
		return remoteCache.Delete(getKey(counter))
	}, seedKeys)

	// mixed
	results["mixed"] = runTimed("mixed", func(counter int, getKey func(int) string) error {
		key := getKey(counter)
		switch counter % 4 {
		case 0:
			return remoteCache.Put(key, []byte("test"))
		case 1:
			_, _, err := remoteCache.Get(key)
			return err
		case 2:
			return remoteCache.Delete(key)
		default:
			_, err := remoteCache.Has(key)
			return err
		}
	}, nil)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// seedKeys stores a small value under every test key before a test runs
func seedKeys(test string, iter func(func(string))) {
	iter(func(k string) {
		if err := remoteCache.Put(k, []byte("test")); err != nil {
			fmt.Printf("(%s) - error seeding key: %v\n", test, err)
		}
	})
}

// runTimed runs one benchmark across perfNumThreads goroutines, recording
// each operation in a timer, and prints the result
func runTimed(test string, op func(counter int, getKey func(int) string) error, seed func(string, func(func(string)))) gometrics.Timer {
	timer := gometrics.NewTimer()

	if shouldSkip(test) {
		printResult(test, timer)
		return timer
	}

	// prepare keys
	getKey, iter := getKeys(test)

	if seed != nil {
		seed(test, iter)
	}

	// distribute the operations over the worker threads
	var wg sync.WaitGroup
	opsPerThread := perfOpsPerTest / perfNumThreads
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < opsPerThread; i++ {
				counter := base + i
				start := time.Now()
				if err := op(counter, getKey); err != nil {
					fmt.Printf("(%s) - error performing operation: %v\n", test, err)
					continue
				}
				timer.UpdateSince(start)
			}
		}(t * opsPerThread)
	}
	wg.Wait()

	// cleanup
	iter(func(k string) {
		if err := remoteCache.Delete(k); err != nil {
			fmt.Printf("(%s) - error deleting key: %v\n", test, err)
		}
	})

	printResult(test, timer)
	return timer
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer gometrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-20s%10.2f ops/sec\tmean %s\tp50 %s\tp95 %s\tp99 %s\n",
		test,
		timer.RateMean(),
		time.Duration(timer.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
	)
}

// writeResultsToCSV exports the benchmark results to a CSV file
func writeResultsToCSV(path string, results map[string]gometrics.Timer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"test", "ops", "ops_per_sec", "mean_ns", "p50_ns", "p95_ns", "p99_ns"}); err != nil {
		return err
	}

	for test, timer := range results {
		ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
		record := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			strconv.FormatFloat(timer.RateMean(), 'f', 2, 64),
			strconv.FormatFloat(timer.Mean(), 'f', 0, 64),
			strconv.FormatFloat(ps[0], 'f', 0, 64),
			strconv.FormatFloat(ps[1], 'f', 0, 64),
			strconv.FormatFloat(ps[2], 'f', 0, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
