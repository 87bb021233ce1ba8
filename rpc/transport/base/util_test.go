package base

import (
	"bytes"
	"net"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		requestID uint64
		actor     string
		op        string
		data      []byte
	}{
		{"regular frame", 42, "test-actor", "Get", []byte("payload")},
		{"empty payload", 1, "system", "Configure", []byte{}},
		{"empty actor and op", 7, "", "", []byte("data")},
		{"large payload", 99, "actor", "Set", bytes.Repeat([]byte("x"), 64*1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			writeErr := make(chan error, 1)
			go func() {
				writeErr <- writeFrame(client, tt.requestID, tt.actor, tt.op, tt.data)
			}()

			requestID, actor, op, data, err := readFrame(server, nil)
			if err != nil {
				t.Fatalf("failed to read frame: %v", err)
			}
			if err := <-writeErr; err != nil {
				t.Fatalf("failed to write frame: %v", err)
			}

			if requestID != tt.requestID {
				t.Errorf("expected requestID %d, got %d", tt.requestID, requestID)
			}
			if actor != tt.actor {
				t.Errorf("expected actor %q, got %q", tt.actor, actor)
			}
			if op != tt.op {
				t.Errorf("expected op %q, got %q", tt.op, op)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("payload mismatch: expected %d bytes, got %d bytes", len(tt.data), len(data))
			}
		})
	}
}

func TestFrameBufferReuse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		_ = writeFrame(client, 1, "actor", "Get", []byte("first"))
		_ = writeFrame(client, 2, "actor", "Get", []byte("second"))
	}()

	buf := make([]byte, 256)

	_, _, _, first, err := readFrame(server, buf)
	if err != nil {
		t.Fatalf("failed to read first frame: %v", err)
	}
	// the payload references the shared buffer, copy before the next read
	firstCopy := append([]byte(nil), first...)

	_, _, _, second, err := readFrame(server, buf)
	if err != nil {
		t.Fatalf("failed to read second frame: %v", err)
	}

	if string(firstCopy) != "first" {
		t.Errorf("expected %q, got %q", "first", firstCopy)
	}
	if string(second) != "second" {
		t.Errorf("expected %q, got %q", "second", second)
	}
}
