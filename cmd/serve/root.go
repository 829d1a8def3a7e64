package serve

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/buildcache/dbc/cmd/util"
	"github.com/buildcache/dbc/rpc/common"
	"github.com/buildcache/dbc/rpc/server"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dBC server",
		Long:    `Start the dBC server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DBC_<flag> (e.g. DBC_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:4226", cmdUtil.WrapString("The address on which the server will listen (e.g. 0.0.0.0:4226, /tmp/dbc.sock, \\x00dbc)"))

	key = "engine"
	ServeCmd.PersistentFlags().String(key, "mem", cmdUtil.WrapString("Cache engine to use. One of: mem, disk"))

	key = "cache-dir"
	ServeCmd.PersistentFlags().String(key, ".dbc-cache", cmdUtil.WrapString("Directory for cached artifacts (disk engine only)"))

	key = "max-cache-size"
	ServeCmd.PersistentFlags().Uint64(key, 10*1024*1024*1024, cmdUtil.WrapString("Maximum total size of cached artifacts in bytes, 0 for unbounded"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Per-request read/write timeout in seconds, 0 to disable"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse the engine
	switch engine := viper.GetString("engine"); engine {
	case "mem":
		serveCmdConfig.Engine = common.EngineMemory
	case "disk":
		serveCmdConfig.Engine = common.EngineDisk
	default:
		return fmt.Errorf("invalid engine: %s (expected one of: mem, disk)", engine)
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.CacheDir = viper.GetString("cache-dir")
	serveCmdConfig.MaxCacheBytes = viper.GetUint64("max-cache-size")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// run starts the dBC server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dbc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
