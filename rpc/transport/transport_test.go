package transport

import (
	"bufio"
	"net/netip"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// exchange dials the acceptor, sends one frame through a clone of the client
// connection and reads the echo through another clone.
func exchange(t *testing.T, addr Address) {
	t.Helper()

	acceptor, err := Listen(addr)
	require.NoError(t, err)
	defer acceptor.Close()

	// echo a single frame per connection
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := acceptor.Accept()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		payload, err := ReadFrame(bufio.NewReader(conn))
		if !assert.NoError(t, err) {
			return
		}
		assert.NoError(t, WriteFrame(bufio.NewWriter(conn), payload))
	}()

	conn, err := Dial(acceptor.Addr())
	require.NoError(t, err)
	defer conn.Close()

	// write through one clone and close it, bytes written through a clone
	// must be visible on the shared stream
	writer, err := conn.Clone()
	require.NoError(t, err)
	require.NoError(t, WriteFrame(bufio.NewWriter(writer), []byte("ping")))
	require.NoError(t, writer.Close())

	// read the echo through a second clone
	reader, err := conn.Clone()
	require.NoError(t, err)
	defer reader.Close()
	payload, err := ReadFrame(bufio.NewReader(reader))
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), payload)

	<-done
}

func TestTCPTransport(t *testing.T) {
	// port 0 asks the kernel for a free port, the acceptor reports it
	acceptorAddr := NetAddress(netip.MustParseAddrPort("127.0.0.1:0"))
	acceptor, err := Listen(acceptorAddr)
	require.NoError(t, err)
	bound := acceptor.Addr()
	require.NoError(t, acceptor.Close())

	assert.Equal(t, AddrNet, bound.Kind)
	assert.NotZero(t, bound.Net.Port())

	exchange(t, NetAddress(netip.MustParseAddrPort("127.0.0.1:0")))
}

func TestUnixTransport(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix domain sockets are not supported on this platform")
	}
	path := filepath.Join(t.TempDir(), "dbc.sock")
	exchange(t, UnixAddress(path))
}

func TestAbstractTransport(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("abstract sockets are linux only")
	}
	exchange(t, AbstractAddress([]byte("dbc-transport-test")))
}

func TestDialUnreachable(t *testing.T) {
	// nothing listens here: dial must fail with an error, not hang
	_, err := Dial(NetAddress(netip.MustParseAddrPort("127.0.0.1:1")))
	assert.Error(t, err)
}
