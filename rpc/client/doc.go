// Package client implements the RPC client for the build cache system.
// It provides an implementation of the cache.ICache interface that forwards
// all operations to a remote cache server over a length-delimited framing
// protocol.
//
// The package focuses on:
//   - Transparent RPC access to remote cache implementations
//   - Connection establishment with retry while a server spawns
//   - Error classification (transport errors, decode errors, timeouts)
//
// Key Components:
//
//   - NewRPCCache: Factory function that creates a client implementing the
//     IRemoteCache interface. This client forwards all operations to a remote
//     server via the transport layer.
//
//   - ServerConnection: A single established connection to the server. Each
//     request uses two independent clones of the underlying connection, one
//     to write the request frame and one to read the response frame, so a
//     half-closed write side never blocks the read side.
//
//   - ConnectWithRetry: Dials the server address repeatedly with a fixed
//     delay between attempts. This covers the window between spawning a
//     server process and the server binding its socket. When all attempts
//     fail, ErrConnTimedOut is returned.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoint:      "127.0.0.1:5000",
//	  TimeoutSecond: 5,
//	}
//
//	// Create a serializer
//	serializer := serializer.NewBinarySerializer()
//
//	// Create cache client
//	remote, _ := client.NewRPCCache(config, serializer)
//	defer remote.Close()
//
//	// Use the cache
//	remote.Put("mykey", []byte("myvalue"))
//	value, exists, _ := remote.Get("mykey")
//
// Error Handling:
//
//	Failures while writing or reading frames are reported as *TransportError.
//	A frame that arrives intact but cannot be deserialized is reported as
//	*DecodeError. Both wrap the underlying error for errors.Is / errors.As.
//
// Thread Safety:
//
//	A ServerConnection supports only one exchange in flight at a time and is
//	not safe for concurrent use. The IRemoteCache returned by NewRPCCache
//	serializes its requests and can be shared between goroutines.
package client
