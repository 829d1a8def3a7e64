package client

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/buildcache/dbc/lib/cache"
	"github.com/buildcache/dbc/rpc/common"
	"github.com/buildcache/dbc/rpc/serializer"
	"github.com/buildcache/dbc/rpc/transport"
)

// IRemoteCache is the client-side view of a remote cache server. It extends
// the cache interface with the ability to shut the server down.
type IRemoteCache interface {
	cache.ICache

	// Shutdown asks the server to stop accepting connections and exit
	Shutdown() error
}

// NewRPCCache creates a new RPC cache client
// The function takes a client config and a serializer as parameters
// It connects to the configured endpoint (retrying while the server starts up)
// and returns an IRemoteCache and an error
func NewRPCCache(
	config common.ClientConfig,
	serializer serializer.IRPCSerializer,
) (IRemoteCache, error) {

	// Parse the endpoint (never fails, unparsable endpoints become unix paths)
	addr := transport.ParseAddress(config.Endpoint)

	// Connect with retry so a freshly spawned server has time to bind
	conn, err := ConnectWithRetry(addr, serializer)
	if err != nil {
		return nil, err
	}
	conn.SetTimeout(time.Duration(config.TimeoutSecond) * time.Second)

	// Return the RPC cache
	return &rpcCache{
		config: config,
		conn:   conn,
	}, nil
}

type rpcCache struct {
	config common.ClientConfig
	mtx    sync.Mutex
	conn   *ServerConnection
}

// invoke serializes access to the shared connection, the underlying
// ServerConnection supports only one exchange in flight at a time.
func (i *rpcCache) invoke(req *common.Message) (*common.Message, error) {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	return invokeRPCRequest(req, i.conn)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the cache package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcCache) Get(key string) (value []byte, loaded bool, err error) {
	req := common.NewGetRequest(key)
	resp, err := i.invoke(req)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Ok, nil
}

func (i *rpcCache) Put(key string, value []byte) (err error) {
	req := common.NewPutRequest(key, value)
	_, err = i.invoke(req)
	return err
}

func (i *rpcCache) Has(key string) (loaded bool, err error) {
	req := common.NewHasRequest(key)
	resp, err := i.invoke(req)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcCache) Delete(key string) (err error) {
	req := common.NewDeleteRequest(key)
	_, err = i.invoke(req)
	return err
}

func (i *rpcCache) Clear() (err error) {
	req := common.NewClearRequest()
	_, err = i.invoke(req)
	return err
}

func (i *rpcCache) Stats() (stats cache.CacheStats, err error) {
	req := common.NewStatsRequest()
	resp, err := i.invoke(req)
	if err != nil {
		return cache.CacheStats{}, err
	}
	if err := json.Unmarshal(resp.Meta, &stats); err != nil {
		return cache.CacheStats{}, fmt.Errorf("RPC ICacheAdapter - Error: %s", err)
	}
	return stats, nil
}

func (i *rpcCache) Shutdown() error {
	req := common.NewShutdownRequest()
	_, err := i.invoke(req)
	return err
}

func (i *rpcCache) Close() error {
	return i.conn.Close()
}
