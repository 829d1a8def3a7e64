//go:build unix

package transport

import (
	"net"
	"os"
	"strings"
)

// --------------------------------------------------------------------------
// Unix Domain Socket Connection
// --------------------------------------------------------------------------

// unixConn implements the Connection capability for unix domain sockets,
// both path-based and abstract.
type unixConn struct {
	*net.UnixConn
}

func (c *unixConn) Clone() (Connection, error) {
	nc, err := dupConn(c.UnixConn)
	if err != nil {
		return nil, err
	}
	return &unixConn{nc.(*net.UnixConn)}, nil
}

// dialUnix connects to a path-based unix domain socket
func dialUnix(path string) (Connection, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	return &unixConn{conn.(*net.UnixConn)}, nil
}

// --------------------------------------------------------------------------
// Unix Domain Socket Acceptor
// --------------------------------------------------------------------------

// unixAcceptor implements the Acceptor capability for unix listeners
type unixAcceptor struct {
	listener *net.UnixListener
	addr     Address
}

func (a *unixAcceptor) Accept() (Connection, error) {
	conn, err := a.listener.AcceptUnix()
	if err != nil {
		return nil, err
	}
	return &unixConn{conn}, nil
}

func (a *unixAcceptor) Addr() Address {
	return a.addr
}

func (a *unixAcceptor) Close() error {
	return a.listener.Close()
}

// listenUnix binds a path-based unix domain socket
func listenUnix(path string) (Acceptor, error) {
	// Remove a stale socket file from a previous run
	if err := os.RemoveAll(path); err != nil {
		return nil, err
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	ul := listener.(*net.UnixListener)
	return &unixAcceptor{listener: ul, addr: unixListenerAddress(ul)}, nil
}

// unixListenerAddress converts the native listener address into an Address,
// mapping the '@' abstract-namespace convention of the net package back to
// the abstract variant.
func unixListenerAddress(l *net.UnixListener) Address {
	name := l.Addr().(*net.UnixAddr).Name
	if strings.HasPrefix(name, "@") {
		return AbstractAddress([]byte(name[1:]))
	}
	return UnixAddress(name)
}
