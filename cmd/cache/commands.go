package cache

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the cached artifact for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, ok, err := remoteCache.Get(key)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			if output, _ := cmd.Flags().GetString("output"); output != "" {
				if err := os.WriteFile(output, value, 0o644); err != nil {
					return err
				}
				fmt.Printf("key=%s, found=true, %d bytes written to %s\n", key, len(value), output)
			} else {
				fmt.Printf("key=%s, found=true, value=%s\n", key, value)
			}
			return nil
		},
	}
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores an artifact under a key",
		Long:  "Stores an artifact under a key. The artifact is either the second argument or, with --file, the contents of a file.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			var value []byte
			if file, _ := cmd.Flags().GetString("file"); file != "" {
				var err error
				if value, err = os.ReadFile(file); err != nil {
					return err
				}
			} else if len(args) == 2 {
				value = []byte(args[1])
			} else {
				return fmt.Errorf("either a value argument or --file is required")
			}

			if err := remoteCache.Put(key, value); err != nil {
				return err
			}
			fmt.Printf("put successfully (%d bytes)\n", len(value))
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key is cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if found, err := remoteCache.Has(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%t\n", key, found)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a cached artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := remoteCache.Delete(key); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := remoteCache.Clear(); err != nil {
				return err
			} else {
				fmt.Println("clear successfully")
			}
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := remoteCache.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("%-20s%d\n", "Entries", stats.Entries)
			fmt.Printf("%-20s%d / %d bytes\n", "Size", stats.SizeBytes, stats.MaxBytes)
			fmt.Printf("%-20s%d hits, %d misses\n", "Lookups", stats.Hits, stats.Misses)
			fmt.Printf("%-20s%d\n", "Puts", stats.Puts)
			fmt.Printf("%-20s%d\n", "Evictions", stats.Evictions)
			fmt.Printf("%-20s%d bytes avg, %d bytes median\n", "Artifact size", stats.AvgArtifactBytes, stats.MedianArtifactBytes)
			return nil
		},
	}
	shutdownCmd = &cobra.Command{
		Use:   "shutdown",
		Short: "Asks the server to shut down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := remoteCache.Shutdown(); err != nil {
				return err
			}
			fmt.Println("server is shutting down")
			return nil
		},
	}
)

func init() {
	getCmd.Flags().StringP("output", "o", "", "Write the artifact to a file instead of stdout")
	putCmd.Flags().StringP("file", "f", "", "Read the artifact from a file")
}
