// Package common provides core data structures and utilities shared across
// the distributed build cache. It defines fundamental types, configuration
// structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - Custom logging implementation built on the dragonboat logger facade
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication between the
//     cache client and server, with a flexible structure that adapts to
//     different operation types. Includes factory methods for creating the
//     various request and response messages.
//
//   - MessageType: Enumeration defining all supported operation types in the
//     system, categorized into cache operations and control messages.
//
//   - ServerConfig: Configuration for the cache server, including the listen
//     endpoint, cache engine selection, size limits and timeouts.
//
//   - ClientConfig: Configuration for client components, controlling the
//     target endpoint and request timeouts.
//
//   - Logger: Custom logging implementation that plugs into the dragonboat
//     logging facade while providing consistent formatting across the
//     application.
package common
