package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// CacheEngine selects the storage engine backing the cache server.
type CacheEngine string

const (
	EngineMemory CacheEngine = "mem"
	EngineDisk   CacheEngine = "disk"
)

// ServerConfig holds all configuration parameters for the cache server.
type ServerConfig struct {
	// Endpoint is the textual address the server listens on. It is parsed
	// by the transport layer and may name a tcp address, a unix socket
	// path or an abstract socket name.
	Endpoint string

	// Cache engine settings
	Engine        CacheEngine
	CacheDir      string // only used by the disk engine
	MaxCacheBytes uint64 // 0 means unbounded

	// Per-connection read/write deadline in seconds, 0 disables deadlines
	TimeoutSecond int64

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("Cache Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	// Cache engine
	addSection("Cache Engine")
	addField("Engine", string(c.Engine))
	if c.Engine == EngineDisk {
		addField("Cache Directory", c.CacheDir)
	}
	if c.MaxCacheBytes > 0 {
		addField("Max Cache Size", fmt.Sprintf("%d bytes", c.MaxCacheBytes))
	} else {
		addField("Max Cache Size", "unbounded")
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for cache clients.
type ClientConfig struct {
	// Endpoint is the textual address of the cache server (see ServerConfig)
	Endpoint string

	// TimeoutSecond bounds a single request/response exchange, 0 disables it
	TimeoutSecond int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", strconv.Itoa(c.TimeoutSecond)+" sec")

	return sb.String()
}
