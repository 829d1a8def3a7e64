package server

import (
	"encoding/json"
	"fmt"

	"github.com/buildcache/dbc/lib/cache"
	"github.com/buildcache/dbc/rpc/common"
)

func NewICacheServerAdapter() IRPCServerAdapter {
	return &iCacheServerAdapterImpl{}
}

type iCacheServerAdapterImpl struct{}

func (adapter *iCacheServerAdapterImpl) Handle(req *common.Message, c cache.ICache) *common.Message {
	// Check for nil cache
	if c == nil {
		return common.NewErrorResponse("handler: cache is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTCacheGet:
		val, ok, err := c.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTCachePut:
		err := c.Put(req.Key, req.Value)
		return common.NewPutResponse(uint64(len(req.Value)), err)
	case common.MsgTCacheHas:
		ok, err := c.Has(req.Key)
		return common.NewHasResponse(ok, err)
	case common.MsgTCacheDelete:
		err := c.Delete(req.Key)
		return common.NewDeleteResponse(err)
	case common.MsgTCacheClear:
		err := c.Clear()
		return common.NewClearResponse(err)
	case common.MsgTCacheStats:
		stats, err := c.Stats()
		if err != nil {
			return common.NewStatsResponse(nil, err)
		}
		meta, err := json.Marshal(stats)
		return common.NewStatsResponse(meta, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC ICacheAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
