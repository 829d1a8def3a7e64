package transport

import (
	"net"
	"net/netip"
	"os"
)

// --------------------------------------------------------------------------
// Descriptor duplication
// --------------------------------------------------------------------------

// filer is satisfied by the socket types of the net package that expose
// their underlying descriptor.
type filer interface {
	File() (*os.File, error)
}

// dupConn duplicates the descriptor of a socket and re-wraps it as a
// net.Conn. The duplicate is a fully independent handle on the same stream.
func dupConn(c filer) (net.Conn, error) {
	f, err := c.File()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return net.FileConn(f)
}

// --------------------------------------------------------------------------
// TCP Connection
// --------------------------------------------------------------------------

// tcpConn implements the Connection capability for TCP sockets
type tcpConn struct {
	*net.TCPConn
}

func (c *tcpConn) Clone() (Connection, error) {
	nc, err := dupConn(c.TCPConn)
	if err != nil {
		return nil, err
	}
	return &tcpConn{nc.(*net.TCPConn)}, nil
}

// dialTCP connects to a network endpoint
func dialTCP(ap netip.AddrPort) (Connection, error) {
	conn, err := net.Dial("tcp", ap.String())
	if err != nil {
		return nil, err
	}
	return &tcpConn{conn.(*net.TCPConn)}, nil
}

// --------------------------------------------------------------------------
// TCP Acceptor
// --------------------------------------------------------------------------

// tcpAcceptor implements the Acceptor capability for TCP listeners
type tcpAcceptor struct {
	listener *net.TCPListener
	addr     Address
}

func (a *tcpAcceptor) Accept() (Connection, error) {
	conn, err := a.listener.AcceptTCP()
	if err != nil {
		return nil, err
	}
	return &tcpConn{conn}, nil
}

func (a *tcpAcceptor) Addr() Address {
	return a.addr
}

func (a *tcpAcceptor) Close() error {
	return a.listener.Close()
}

// listenTCP binds a network endpoint. A zero port is resolved to the
// kernel-assigned port in the acceptor's Addr.
func listenTCP(ap netip.AddrPort) (Acceptor, error) {
	listener, err := net.Listen("tcp", ap.String())
	if err != nil {
		return nil, err
	}
	tl := listener.(*net.TCPListener)
	bound := tl.Addr().(*net.TCPAddr).AddrPort()
	return &tcpAcceptor{listener: tl, addr: NetAddress(bound)}, nil
}
