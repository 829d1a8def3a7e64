package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"

	"github.com/buildcache/dbc/lib/cache"
	"github.com/buildcache/dbc/lib/cache/diskcache"
	"github.com/buildcache/dbc/lib/cache/memcache"
	"github.com/buildcache/dbc/rpc/common"
	"github.com/buildcache/dbc/rpc/serializer"
	"github.com/buildcache/dbc/rpc/transport"
)

var Logger = logger.GetLogger("server")

// NewRPCServer creates a new RPC cache server
// It takes a config and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:     config,
		serializer: serializer,
	}
}

type RPCServer struct {
	config     common.ServerConfig
	serializer serializer.IRPCSerializer
	cache      cache.ICache
	adapter    IRPCServerAdapter

	acceptor transport.Acceptor
	closing  atomic.Bool
	wg       sync.WaitGroup
}

// init creates the cache engine and binds the listening socket
func (s *RPCServer) init() error {

	// Init logger
	common.InitLoggers(s.config.LogLevel)

	// Create the cache engine
	switch s.config.Engine {
	case common.EngineMemory, "":
		s.cache = memcache.NewMemoryCache(s.config.MaxCacheBytes)
		Logger.Infof("created in-memory cache engine")
	case common.EngineDisk:
		c, err := diskcache.NewDiskCache(s.config.CacheDir, s.config.MaxCacheBytes)
		if err != nil {
			return fmt.Errorf("failed to create disk cache: %w", err)
		}
		s.cache = c
		Logger.Infof("created disk cache engine in %s", s.config.CacheDir)
	default:
		return fmt.Errorf("invalid cache engine: %s", s.config.Engine)
	}

	s.adapter = NewICacheServerAdapter()

	// Bind the listening socket
	acceptor, err := transport.Listen(transport.ParseAddress(s.config.Endpoint))
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}
	s.acceptor = acceptor

	Logger.Infof("dBC setup completed successfully")
	return nil
}

// Addr returns the address the server listens on. Only valid after Serve
// has bound the socket (a wildcard port in the config is resolved here).
func (s *RPCServer) Addr() transport.Address {
	return s.acceptor.Addr()
}

// Serve initializes the server and accepts connections until Stop is called
// or a shutdown request arrives. It returns nil on a clean shutdown.
func (s *RPCServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	return s.serveAccepted()
}

// ServeBound behaves like Serve but sends the resolved listening address on
// ready once the socket is bound. Used by tests and by callers that need the
// address (e.g. after a wildcard bind) before the first connection.
func (s *RPCServer) ServeBound(ready chan<- transport.Address) error {
	if err := s.init(); err != nil {
		return err
	}
	if ready != nil {
		ready <- s.acceptor.Addr()
	}
	return s.serveAccepted()
}

func (s *RPCServer) serveAccepted() error {
	Logger.Infof("Starting cache server on %s", s.acceptor.Addr().String())

	for {
		conn, err := s.acceptor.Accept()
		if err != nil {
			if s.closing.Load() {
				break
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}

	// Drain in-flight connections before releasing the cache
	s.wg.Wait()
	Logger.Infof("cache server stopped")
	return s.cache.Close()
}

// Stop closes the listening socket. Serve returns after in-flight
// connections have drained.
func (s *RPCServer) Stop() error {
	if s.closing.CompareAndSwap(false, true) {
		return s.acceptor.Close()
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// deadliner is the optional deadline capability of a connection. All socket
// based transports support it.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// handleConnection processes requests for one connection sequentially until
// the client disconnects or a read fails
func (s *RPCServer) handleConnection(conn transport.Connection) {
	defer s.wg.Done()
	defer conn.Close()

	timeout := time.Duration(s.config.TimeoutSecond) * time.Second
	d, hasDeadlines := conn.(deadliner)

	// One buffered reader and writer for the lifetime of the connection, a
	// read may leave bytes of the next frame in the buffer
	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	for {
		if hasDeadlines && timeout > 0 {
			_ = d.SetReadDeadline(time.Now().Add(timeout))
		}
		req, err := transport.ReadFrame(br)
		if err != nil {
			if !isClientGone(err) && !s.closing.Load() {
				Logger.Errorf("Failed to read request: %v", err)
			}
			return
		}

		resp, shutdown := s.handleRequest(req)

		if hasDeadlines && timeout > 0 {
			_ = d.SetWriteDeadline(time.Now().Add(timeout))
		}
		if err := transport.WriteFrame(bw, resp); err != nil {
			Logger.Errorf("Failed to write response: %v", err)
			return
		}

		// The shutdown response is acknowledged before the listener closes
		if shutdown {
			if err := s.Stop(); err != nil {
				Logger.Errorf("Failed to stop server: %v", err)
			}
			return
		}
	}
}

// handleRequest decodes one request frame, dispatches it and encodes the
// response. The second return value reports a shutdown request.
func (s *RPCServer) handleRequest(req []byte) ([]byte, bool) {
	var msg common.Message
	var respMsg common.Message
	var shutdown bool

	// Decode the request
	if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = *common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		start := time.Now()

		if msg.MsgType == common.MsgTShutdown {
			// Handled here instead of the adapter since it concerns the
			// server lifecycle, not the cache
			respMsg = *common.NewShutdownResponse(nil)
			shutdown = true
		} else {
			// Let the adapter handle the request
			respMsg = *s.adapter.Handle(&msg, s.cache)
		}

		metrics.GetOrCreateCounter(
			fmt.Sprintf(`dbc_server_requests_total{type=%q}`, msg.MsgType.String()),
		).Inc()
		Logger.Debugf("Processed %s request took %s", msg.MsgType, time.Since(start))
	}

	// Encode the response
	val, err := s.serializer.Serialize(respMsg)
	if err != nil {
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(
			fmt.Sprintf("failed to serialize response: %s", err),
		))
	}
	return val, shutdown
}

// isClientGone reports whether a read error just means the client hung up
func isClientGone(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
