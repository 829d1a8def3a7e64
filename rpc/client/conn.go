package client

import (
	"bufio"
	"fmt"
	"time"

	"github.com/buildcache/dbc/rpc/common"
	"github.com/buildcache/dbc/rpc/serializer"
	"github.com/buildcache/dbc/rpc/transport"
)

// deadliner is the optional deadline capability of a connection. All socket
// based transports support it.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// ServerConnection is a client's connection to the cache server. It owns
// exactly one transport.Connection for its lifetime and implements the
// request/response exchange on top of it.
//
// A ServerConnection is not safe for concurrent use. Callers must serialize
// their requests so that only one exchange is in flight at a time.
type ServerConnection struct {
	conn       transport.Connection
	serializer serializer.IRPCSerializer
	timeout    time.Duration
}

// NewServerConnection wraps an established connection.
func NewServerConnection(conn transport.Connection, s serializer.IRPCSerializer) *ServerConnection {
	return &ServerConnection{
		conn:       conn,
		serializer: s,
	}
}

// SetTimeout bounds each phase (write, read) of a Request. Zero disables
// deadlines.
func (c *ServerConnection) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Request sends req to the server, reads and returns the server's response.
//
// The exchange uses two transient clones of the owned connection: the
// request is serialized and written length-delimited through the first, the
// response is read length-delimited through the second. Failures to move
// bytes surface as *TransportError, a payload that does not decode as
// *DecodeError.
func (c *ServerConnection) Request(req *common.Message) (*common.Message, error) {
	reqBytes, err := c.serializer.Serialize(*req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	// Write phase
	writer, err := c.conn.Clone()
	if err != nil {
		return nil, &TransportError{err}
	}
	c.applyDeadline(writer)
	bw := bufio.NewWriter(writer)
	if err := transport.WriteFrame(bw, reqBytes); err != nil {
		writer.Close()
		return nil, &TransportError{err}
	}
	writer.Close()

	// Read phase
	reader, err := c.conn.Clone()
	if err != nil {
		return nil, &TransportError{err}
	}
	defer reader.Close()
	c.applyDeadline(reader)
	respBytes, err := transport.ReadFrame(bufio.NewReader(reader))
	if err != nil {
		return nil, &TransportError{err}
	}

	resp := &common.Message{}
	if err := c.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, &DecodeError{err}
	}
	return resp, nil
}

// Close releases the owned connection.
func (c *ServerConnection) Close() error {
	return c.conn.Close()
}

// applyDeadline sets the configured timeout on a connection handle if both
// a timeout is configured and the transport supports deadlines.
func (c *ServerConnection) applyDeadline(conn transport.Connection) {
	if c.timeout <= 0 {
		return
	}
	if d, ok := conn.(deadliner); ok {
		deadline := time.Now().Add(c.timeout)
		_ = d.SetReadDeadline(deadline)
		_ = d.SetWriteDeadline(deadline)
	}
}
