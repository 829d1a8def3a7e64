package transport

import "io"

// --------------------------------------------------------------------------
// Connection Capability
// --------------------------------------------------------------------------

// Connection is a duplex byte stream to a peer that can be cloned. A clone
// is an independent handle (a duplicated OS-level descriptor) referring to
// the same underlying stream: bytes written on one handle are observed by
// reads on the peer regardless of which handle performed the write.
//
// Callers interact with connections only through this interface, never
// through a concrete transport type.
type Connection interface {
	io.Reader
	io.Writer

	// Clone returns a new independent handle to the same endpoint. It fails
	// with an I/O error if the underlying descriptor cannot be duplicated.
	Clone() (Connection, error)

	// Close releases this handle. Other clones of the same connection stay
	// usable until each of them is closed.
	Close() error
}

// --------------------------------------------------------------------------
// Acceptor Capability
// --------------------------------------------------------------------------

// Acceptor is a bound listening endpoint that yields inbound connections.
type Acceptor interface {
	// Accept blocks the calling goroutine until a peer connects and returns
	// the Connection for that peer. Any peer address metadata of the native
	// accept primitive is discarded. Accept fails with an I/O error once the
	// listening endpoint is closed.
	Accept() (Connection, error)

	// Addr reports the concrete bound endpoint. After a wildcard bind this
	// includes the assigned port. Addr never fails once the Acceptor was
	// successfully constructed.
	Addr() Address

	// Close shuts down the listening endpoint. Pending and future Accept
	// calls fail after Close.
	Close() error
}
