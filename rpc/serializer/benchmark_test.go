package serializer

import (
	"strings"
	"testing"

	"github.com/kvgate/kvgate/rpc/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"Empty": {
			Op: common.OpSuccess,
		},
		"SmallKeyOnly": {
			Op:  common.OpGet,
			Key: "k",
		},
		"MediumKeyOnly": {
			Op:  common.OpGet,
			Key: "medium-length-key-for-testing",
		},
		"SmallValue": {
			Op:    common.OpSet,
			Key:   "key",
			Value: "v",
		},
		"MediumValue": {
			Op:    common.OpSet,
			Key:   "key",
			Value: "medium length value for testing serialization",
		},
		"LargeValue": {
			Op:    common.OpSet,
			Key:   "key",
			Value: strings.Repeat("x", 1024), // 1KB of data
		},
		"VeryLargeValue": {
			Op:    common.OpSet,
			Key:   "key",
			Value: strings.Repeat("x", 1024*16), // 16KB of data
		},
		"ManyValues": {
			Op:     common.OpSetQuery,
			Values: strings.Split(strings.Repeat("member,", 100), ","),
		},
		"ConfigureMessage": {
			Op:     common.OpConfigure,
			Module: "benchmark-actor",
			Params: map[string]string{"URL": "redis://localhost:6379/0"},
		},
		"ErrorMessage": {
			Op:  common.OpError,
			Err: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
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

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()

				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var result common.Message
					if err := serializer.Deserialize(data, &result); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}
