package serializer

import (
	"reflect"
	"testing"

	"github.com/buildcache/dbc/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Put request
		{
			MsgType: common.MsgTCachePut,
			Key:     "a1b2c3-action-key",
			Value:   []byte("compiled object bytes"),
			Size:    uint64(len("compiled object bytes")),
		},

		// Get response
		{
			MsgType: common.MsgTCacheGet,
			Key:     "a1b2c3-action-key",
			Value:   []byte("compiled object bytes"),
			Size:    uint64(len("compiled object bytes")),
			Ok:      true,
		},

		// Error response
		{
			MsgType: common.MsgTError,
			Err:     "test error message",
		},

		// Message with all fields filled
		{
			MsgType: common.MsgTCacheStats,
			Key:     "test-key",
			Value:   []byte("test-value"),
			Size:    10,
			Ok:      true,
			Err:     "",
			Meta:    []byte(`{"entries":1}`),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTShutdown; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinarySerializerTruncated tests that the binary serializer rejects
// truncated input instead of panicking
func TestBinarySerializerTruncated(t *testing.T) {
	serializer := NewBinarySerializer()

	msg := common.Message{
		MsgType: common.MsgTCachePut,
		Key:     "some-key",
		Value:   []byte("some-value"),
	}

	data, err := serializer.Serialize(msg)
	if err != nil {
		t.Fatalf("Failed to serialize message: %v", err)
	}

	// Every strict prefix of the encoding must produce an error, not a panic
	for cut := 0; cut < len(data); cut++ {
		var result common.Message
		if err := serializer.Deserialize(data[:cut], &result); err == nil {
			t.Errorf("Expected error for truncated input of length %d", cut)
		}
	}
}
