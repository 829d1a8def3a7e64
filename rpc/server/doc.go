// Package server implements the RPC server for the build cache system.
// It accepts connections on a configurable endpoint (tcp, unix or abstract
// socket), reads length-delimited request frames and dispatches them to a
// cache engine through a server adapter.
//
// The package focuses on:
//   - Socket lifecycle (bind, accept loop, clean shutdown)
//   - Per-connection request processing with read/write deadlines
//   - Adapting serialized messages onto the cache.ICache interface
//
// Key Components:
//
//   - RPCServer: Binds the configured endpoint, creates the configured cache
//     engine (in-memory or disk backed) and serves requests until Stop is
//     called or a shutdown request arrives over the wire.
//
//   - IRPCServerAdapter: The interface between decoded messages and a cache
//     implementation. NewICacheServerAdapter returns the default adapter
//     covering all cache operations.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint:      "127.0.0.1:5000",
//	  Engine:        common.EngineMemory,
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(config, serializer.NewBinarySerializer())
//	if err := s.Serve(); err != nil {
//	  panic(err)
//	}
//
// Shutdown:
//
//	A shutdown request is acknowledged on the connection that sent it before
//	the listening socket closes. Serve then waits for in-flight connections
//	to drain and returns nil.
package server
