package serializer

import (
	"testing"

	"github.com/buildcache/dbc/rpc/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"Empty": {
			MsgType: common.MsgTSuccess,
		},
		"SmallKeyOnly": {
			MsgType: common.MsgTCacheGet,
			Key:     "k",
		},
		"LargeKeyOnly": {
			MsgType: common.MsgTCacheGet,
			Key:     "sha256-0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef-action",
		},
		"SmallArtifact": {
			MsgType: common.MsgTCachePut,
			Key:     "key",
			Value:   []byte("v"),
			Size:    1,
		},
		"MediumArtifact": {
			MsgType: common.MsgTCachePut,
			Key:     "key",
			Value:   make([]byte, 1024), // 1KB object file
			Size:    1024,
		},
		"LargeArtifact": {
			MsgType: common.MsgTCachePut,
			Key:     "key",
			Value:   make([]byte, 1024*64), // 64KB object file
			Size:    1024 * 64,
		},
		"CompleteMessage": {
			MsgType: common.MsgTCacheStats,
			Key:     "complete-test-key",
			Value:   []byte("test-value-data"),
			Size:    15,
			Ok:      true,
			Err:     "This is a test error message",
			Meta:    []byte("test-meta-data-for-benchmarking"),
		},
		"ErrorMessage": {
			MsgType: common.MsgTError,
			Err:     "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message types
func BenchmarkSerialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message types
func BenchmarkDeserialize(b *testing.B) {
	messages := benchmarkMessages()
	serializedData := make(map[string]map[string][]byte)

	// Pre-serialize all messages with all serializers
	for name, factory := range testSerializers {
		serializer := factory()
		serializedData[name] = make(map[string][]byte)

		for msgName, msg := range messages {
			data, err := serializer.Serialize(msg)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", msgName, name, err)
			}
			serializedData[name][msgName] = data
		}
	}

	// Benchmark deserialization
	for name, factory := range testSerializers {
		for msgName := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data := serializedData[name][msgName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var msg common.Message
					err := serializer.Deserialize(data, &msg)
					if err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}
