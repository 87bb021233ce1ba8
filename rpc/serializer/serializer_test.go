package serializer

import (
	"reflect"
	"testing"

	"github.com/kvgate/kvgate/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just an operation
		{Op: common.OpSuccess},

		// Configure request
		{
			Op:     common.OpConfigure,
			Module: "actor-1",
			Params: map[string]string{"URL": "redis://localhost:6379"},
		},

		// Set request
		{
			Op:    common.OpSet,
			Key:   "test-key",
			Value: "test-value",
		},

		// Get response
		{
			Op:     common.OpGet,
			Value:  "test-value",
			Exists: true,
		},

		// Get response for a missing key
		{
			Op:     common.OpGet,
			Exists: false,
		},

		// Add request with a negative delta
		{
			Op:    common.OpAdd,
			Key:   "counter",
			Delta: -3,
		},

		// ListRange request with negative stop index
		{
			Op:    common.OpListRange,
			Key:   "test-list",
			Start: 0,
			Stop:  -1,
		},

		// SetUnion request over multiple keys
		{
			Op:   common.OpSetUnion,
			Keys: []string{"s1", "s2", "s3"},
		},

		// SetQuery response
		{
			Op:     common.OpSetQuery,
			Values: []string{"a", "b", "c"},
		},

		// List mutation response
		{
			Op:    common.OpListPush,
			Count: 42,
		},

		// Error response
		{
			Op:  common.OpError,
			Err: "test error message",
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

// TestOpCodes tests each operation code with each serializer
func TestOpCodes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each op code (don't test OpUnknown since this should raise an error)
			for op := common.OpSuccess; op <= common.OpKeyExists; op++ {
				msg := common.Message{Op: op}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize op %s: %v", op.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize op %s: %v", op.String(), err)
					continue
				}

				// Check op
				if result.Op != op {
					t.Errorf("Op doesn't match after round trip: Expected %s, got %s",
						op.String(), result.Op.String())
				}
			}
		})
	}
}

// TestBinaryTruncatedData tests that the binary serializer rejects truncated input
func TestBinaryTruncatedData(t *testing.T) {
	serializer := NewBinarySerializer()

	msg := common.Message{
		Op:    common.OpSet,
		Key:   "test-key",
		Value: "test-value",
	}

	data, err := serializer.Serialize(msg)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	// every strict prefix of a valid message must fail to deserialize
	for i := 0; i < len(data); i++ {
		var result common.Message
		if err := serializer.Deserialize(data[:i], &result); err == nil {
			t.Errorf("Deserialize accepted truncated data of length %d", i)
		}
	}
}

// TestBinaryOversizedCounts tests that the binary serializer rejects element
// counts that cannot fit in the remaining input instead of allocating for them
func TestBinaryOversizedCounts(t *testing.T) {
	serializer := NewBinarySerializer()

	// each payload is op + flags + a count claiming 2^32-1 elements
	cases := map[string][]byte{
		"keys": {
			byte(common.OpSetUnion), 0x00, 0x04, // flags: hasKeys
			0xFF, 0xFF, 0xFF, 0xFF,
		},
		"values": {
			byte(common.OpSetQuery), 0x01, 0x00, // flags: hasValues
			0xFF, 0xFF, 0xFF, 0xFF,
		},
		"params": {
			byte(common.OpConfigure), 0x00, 0x80, // flags: hasParams
			0xFF, 0xFF, 0xFF, 0xFF,
		},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			var result common.Message
			if err := serializer.Deserialize(data, &result); err == nil {
				t.Errorf("Deserialize accepted an oversized %s count", name)
			}
		})
	}
}

// TestParseOpCode tests the opcode wire names round trip through ParseOpCode
func TestParseOpCode(t *testing.T) {
	for op := common.OpConfigure; op <= common.OpKeyExists; op++ {
		parsed, err := common.ParseOpCode(op.String())
		if err != nil {
			t.Errorf("ParseOpCode(%q) failed: %v", op.String(), err)
			continue
		}
		if parsed != op {
			t.Errorf("ParseOpCode(%q) returned %d, expected %d", op.String(), parsed, op)
		}
	}

	if _, err := common.ParseOpCode("NoSuchOperation"); err == nil {
		t.Error("ParseOpCode should fail for names outside the catalog")
	}
}
