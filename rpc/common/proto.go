package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key   string `json:"key,omitempty"`   // Used for: Get, Put, Has, Delete
	Value []byte `json:"value,omitempty"` // Used for: Put (request), Get (response)
	Size  uint64 `json:"size,omitempty"`  // Used for: Put, Get responses (artifact size in bytes)

	// Response only fields
	Ok  bool   `json:"ok,omitempty"`  // Used for: Get, Has, Delete responses
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Used for: Stats responses (serialized stats), custom extensions
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTCacheGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTCacheGet,
		Ok:      ok,
		Value:   value,
		Size:    uint64(len(value)),
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewPutRequest creates a new Put request
func NewPutRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTCachePut,
		Key:     key,
		Value:   value,
		Size:    uint64(len(value)),
	}
}

// NewPutResponse creates a new Put response
func NewPutResponse(size uint64, err error) *Message {
	msg := &Message{
		MsgType: MsgTCachePut,
		Size:    size,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewHasRequest creates a new Has request
func NewHasRequest(key string) *Message {
	return &Message{
		MsgType: MsgTCacheHas,
		Key:     key,
	}
}

// NewHasResponse creates a new Has response
func NewHasResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTCacheHas,
		Ok:      ok,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		MsgType: MsgTCacheDelete,
		Key:     key,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTCacheDelete,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewClearRequest creates a new Clear request
func NewClearRequest() *Message {
	return &Message{
		MsgType: MsgTCacheClear,
	}
}

// NewClearResponse creates a new Clear response
func NewClearResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTCacheClear,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewStatsRequest creates a new Stats request
func NewStatsRequest() *Message {
	return &Message{
		MsgType: MsgTCacheStats,
	}
}

// NewStatsResponse creates a new Stats response. The stats travel serialized
// in the Meta field so the protocol stays agnostic of the stats structure.
func NewStatsResponse(stats []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTCacheStats,
		Meta:    stats,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewShutdownRequest creates a new Shutdown request
func NewShutdownRequest() *Message {
	return &Message{
		MsgType: MsgTShutdown,
	}
}

// NewShutdownResponse creates a new Shutdown response
func NewShutdownResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTShutdown,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTCacheGet:
		return "get"
	case MsgTCachePut:
		return "put"
	case MsgTCacheHas:
		return "has"
	case MsgTCacheDelete:
		return "delete"
	case MsgTCacheClear:
		return "clear"
	case MsgTCacheStats:
		return "stats"
	case MsgTShutdown:
		return "shutdown"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "get":
		*t = MsgTCacheGet
	case "put":
		*t = MsgTCachePut
	case "has":
		*t = MsgTCacheHas
	case "delete":
		*t = MsgTCacheDelete
	case "clear":
		*t = MsgTCacheClear
	case "stats":
		*t = MsgTCacheStats
	case "shutdown":
		*t = MsgTShutdown
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Cache operations

	MsgTCacheGet    // Get a cached artifact by key
	MsgTCachePut    // Store an artifact under a key
	MsgTCacheHas    // Check if a key exists in the cache
	MsgTCacheDelete // Delete a cached artifact
	MsgTCacheClear  // Remove all cached artifacts
	MsgTCacheStats  // Query cache statistics

	// Server control operations

	MsgTShutdown // Ask the server to shut down gracefully
)
