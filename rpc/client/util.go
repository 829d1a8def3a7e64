package client

import (
	"fmt"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/buildcache/dbc/rpc/common"
)

var (
	Logger = logger.GetLogger("rpc")
)

// invokeRPCRequest is a helper function used by the RPC cache client to send requests
// It takes a request message and a server connection as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(req *common.Message, conn *ServerConnection) (*common.Message, error) {
	// Send the request
	resp, err := conn.Request(req)
	if err != nil {
		return nil, err
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, fmt.Errorf("RPC ICacheAdapter - Error: %s", resp.Err)
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("RPC ICacheAdapter - Unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	// Return the response
	return resp, nil
}
