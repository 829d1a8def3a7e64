package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildcache/dbc/cmd/cache"
	"github.com/buildcache/dbc/cmd/serve"
	"github.com/buildcache/dbc/cmd/util"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dbc",
		Short: "distributed build cache",
		Long: fmt.Sprintf(`dBC (v%s)

A build cache server and client written in Go. Compiler wrappers store
and retrieve compilation artifacts over tcp, unix or abstract sockets.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dBC",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dBC v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(cache.CacheCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
