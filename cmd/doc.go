// Package cmd implements the command-line interface for the dBC build
// cache. It provides a hierarchical command structure with operations
// for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - cache: Commands for cache operations (get, put, delete, stats, etc.)
//   - serve: Commands for starting and configuring the dBC server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dbc -help for a list of all commands.
package cmd
