package client

import (
	"bufio"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/buildcache/dbc/rpc/common"
	"github.com/buildcache/dbc/rpc/serializer"
	"github.com/buildcache/dbc/rpc/server"
	"github.com/buildcache/dbc/rpc/transport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startServer runs an in-memory cache server on a kernel-assigned port and
// returns its address plus the channel Serve's result arrives on.
func startServer(t *testing.T) (transport.Address, chan error) {
	t.Helper()

	srv := server.NewRPCServer(common.ServerConfig{
		Endpoint:      "127.0.0.1:0",
		Engine:        common.EngineMemory,
		TimeoutSecond: 10,
		LogLevel:      "error",
	}, serializer.NewBinarySerializer())

	ready := make(chan transport.Address, 1)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ServeBound(ready)
	}()
	return <-ready, serveErr
}

func TestRPCCacheRoundTrip(t *testing.T) {
	addr, serveErr := startServer(t)

	remote, err := NewRPCCache(common.ClientConfig{
		Endpoint:      addr.String(),
		TimeoutSecond: 10,
	}, serializer.NewBinarySerializer())
	require.NoError(t, err)

	// put and read back
	require.NoError(t, remote.Put("key1", []byte("artifact bytes")))
	value, ok, err := remote.Get("key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("artifact bytes"), value)

	// lookup of an absent key
	_, ok, err = remote.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = remote.Has("key1")
	require.NoError(t, err)
	assert.True(t, ok)

	// stats travel as json in the response metadata
	stats, err := remote.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Entries)
	assert.Equal(t, uint64(len("artifact bytes")), stats.SizeBytes)

	require.NoError(t, remote.Delete("key1"))
	ok, err = remote.Has("key1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, remote.Put("key2", []byte("x")))
	require.NoError(t, remote.Clear())
	stats, err = remote.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)

	// shutdown is acknowledged before the server exits
	require.NoError(t, remote.Shutdown())
	require.NoError(t, remote.Close())

	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not exit after shutdown")
	}
}

func TestConnectWithRetryEventualSuccess(t *testing.T) {
	defer func(attempts int, delay time.Duration) {
		connectAttempts, connectRetryDelay = attempts, delay
	}(connectAttempts, connectRetryDelay)
	connectAttempts, connectRetryDelay = 20, 10*time.Millisecond

	acceptor, err := transport.Listen(transport.NetAddress(netip.MustParseAddrPort("127.0.0.1:0")))
	require.NoError(t, err)
	addr := acceptor.Addr()

	// hold the endpoint back for a few retry rounds
	require.NoError(t, acceptor.Close())
	rebound := make(chan transport.Acceptor, 1)
	go func() {
		time.Sleep(35 * time.Millisecond)
		a, err := transport.Listen(addr)
		if !assert.NoError(t, err) {
			close(rebound)
			return
		}
		rebound <- a
	}()

	conn, err := ConnectWithRetry(addr, serializer.NewBinarySerializer())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	if a, ok := <-rebound; ok {
		// drain the pending accept so no connection lingers
		if c, err := a.Accept(); err == nil {
			c.Close()
		}
		require.NoError(t, a.Close())
	}
}

func TestConnectWithRetryTimesOut(t *testing.T) {
	defer func(attempts int, delay time.Duration) {
		connectAttempts, connectRetryDelay = attempts, delay
	}(connectAttempts, connectRetryDelay)
	connectAttempts, connectRetryDelay = 3, 20*time.Millisecond

	// reserve a port and close it again so nothing listens there
	acceptor, err := transport.Listen(transport.NetAddress(netip.MustParseAddrPort("127.0.0.1:0")))
	require.NoError(t, err)
	addr := acceptor.Addr()
	require.NoError(t, acceptor.Close())

	start := time.Now()
	_, err = ConnectWithRetry(addr, serializer.NewBinarySerializer())
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrConnTimedOut)
	// the delay runs between attempts, not after the last one
	assert.GreaterOrEqual(t, elapsed, 2*connectRetryDelay)
}

func TestRequestTransportError(t *testing.T) {
	acceptor, err := transport.Listen(transport.NetAddress(netip.MustParseAddrPort("127.0.0.1:0")))
	require.NoError(t, err)
	defer acceptor.Close()

	// read the request, then hang up without answering
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := acceptor.Accept()
		if !assert.NoError(t, err) {
			return
		}
		_, _ = transport.ReadFrame(bufio.NewReader(conn))
		conn.Close()
	}()

	conn, err := Connect(acceptor.Addr(), serializer.NewBinarySerializer())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Request(common.NewHasRequest("key"))
	var terr *TransportError
	assert.True(t, errors.As(err, &terr), "want *TransportError, got %v", err)
	<-done
}

func TestRequestDecodeError(t *testing.T) {
	acceptor, err := transport.Listen(transport.NetAddress(netip.MustParseAddrPort("127.0.0.1:0")))
	require.NoError(t, err)
	defer acceptor.Close()

	// answer the request with a frame that is not a serialized message
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := acceptor.Accept()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		if _, err := transport.ReadFrame(bufio.NewReader(conn)); !assert.NoError(t, err) {
			return
		}
		assert.NoError(t, transport.WriteFrame(bufio.NewWriter(conn), []byte("this is not json")))
	}()

	conn, err := Connect(acceptor.Addr(), serializer.NewJSONSerializer())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Request(common.NewHasRequest("key"))
	var derr *DecodeError
	assert.True(t, errors.As(err, &derr), "want *DecodeError, got %v", err)
	<-done
}
