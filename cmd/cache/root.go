package cache

import (
	"github.com/spf13/cobra"

	"github.com/buildcache/dbc/cmd/util"
	"github.com/buildcache/dbc/rpc/client"
)

var (
	remoteCache client.IRemoteCache

	// CacheCommands represents the cache command group
	CacheCommands = &cobra.Command{
		Use:               "cache",
		Short:             "Perform cache operations against a dBC server",
		PersistentPreRunE: setupCacheClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the cache command
	util.SetupRPCClientFlags(CacheCommands)

	// Add subcommands
	CacheCommands.AddCommand(getCmd)
	CacheCommands.AddCommand(putCmd)
	CacheCommands.AddCommand(hasCmd)
	CacheCommands.AddCommand(delCmd)
	CacheCommands.AddCommand(clearCmd)
	CacheCommands.AddCommand(statsCmd)
	CacheCommands.AddCommand(shutdownCmd)
	CacheCommands.AddCommand(perfTestCmd)
}

// setupCacheClient initializes the RPC cache client
func setupCacheClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration
	config := util.GetClientConfig()

	// Get serializer
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	// Create the cache client
	remoteCache, err = client.NewRPCCache(
		*config,
		s,
	)

	return err
}
