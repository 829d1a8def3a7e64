package client

import (
	"time"

	"github.com/buildcache/dbc/rpc/serializer"
	"github.com/buildcache/dbc/rpc/transport"
)

// Retry policy for clients racing the server's startup. Held in vars so
// tests can tighten them.
var (
	connectAttempts   = 10
	connectRetryDelay = 1 * time.Second
)

// Connect establishes a single connection to the cache server at addr.
func Connect(addr transport.Address, s serializer.IRPCSerializer) (*ServerConnection, error) {
	conn, err := transport.Dial(addr)
	if err != nil {
		return nil, err
	}
	return NewServerConnection(conn, s), nil
}

// ConnectWithRetry attempts to establish a connection to the cache server at
// addr, retrying a few times with a fixed delay.
//
// The server process may have been spawned concurrently and need a moment
// before its listening endpoint is ready; polling with a small fixed budget
// tolerates that startup latency without hanging forever. When every attempt
// fails the per-attempt errors are collapsed into ErrConnTimedOut.
//
// TODOs:
//   - Pass the server process handle in here, so we can stop retrying
//     if the process exited.
//   - Let the server process notify us once it listens instead of polling.
func ConnectWithRetry(addr transport.Address, s serializer.IRPCSerializer) (*ServerConnection, error) {
	for attempt := 0; attempt < connectAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(connectRetryDelay)
		}

		conn, err := Connect(addr, s)
		if err == nil {
			return conn, nil
		}
		Logger.Debugf("connect attempt %d/%d to %s failed: %v", attempt+1, connectAttempts, addr, err)
	}
	return nil, ErrConnTimedOut
}
