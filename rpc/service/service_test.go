package service

import (
	"testing"

	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
	"github.com/kvgate/kvgate/rpc/transport"
)

// stubTransport captures the registered handler instead of listening
type stubTransport struct {
	handler transport.ServerHandleFunc
}

func (t *stubTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *stubTransport) Listen(config common.ServerConfig) error {
	return nil
}

func newTestService(t *testing.T, config common.ServerConfig) (*Service, *stubTransport) {
	t.Helper()

	stub := &stubTransport{}
	svc := NewService(config, stub, serializer.NewBinarySerializer())
	if err := svc.init(); err != nil {
		t.Fatalf("failed to initialize service: %v", err)
	}
	return &svc, stub
}

func TestStoreFactorySelection(t *testing.T) {
	for _, backend := range []string{"redis", "memory", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			if _, err := newStoreFactory(common.ServerConfig{Backend: backend}); err != nil {
				t.Errorf("expected backend %s to be available: %v", backend, err)
			}
		})
	}

	t.Run("unknown backend is rejected", func(t *testing.T) {
		if _, err := newStoreFactory(common.ServerConfig{Backend: "etcd"}); err == nil {
			t.Error("expected an error for an unknown backend")
		}
	})
}

func TestServiceDispatch(t *testing.T) {
	config := common.ServerConfig{
		Backend:  "memory",
		Actors:   map[string]string{"alice": ""},
		LogLevel: "error",
	}

	_, stub := newTestService(t, config)
	s := serializer.NewBinarySerializer()

	encode := func(msg *common.Message) []byte {
		data, err := s.Serialize(*msg)
		if err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
		return data
	}
	decode := func(data []byte) *common.Message {
		var msg common.Message
		if err := s.Deserialize(data, &msg); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return &msg
	}

	t.Run("preconfigured actor can use the store", func(t *testing.T) {
		resp := decode(stub.handler("alice", "Set", encode(common.NewSetRequest("k", "v"))))
		if resp.Op == common.OpError {
			t.Fatalf("unexpected error response: %s", resp.Err)
		}

		resp = decode(stub.handler("alice", "Get", encode(common.NewGetRequest("k"))))
		if !resp.Exists || resp.Value != "v" {
			t.Errorf("expected (v, true), got (%q, %v)", resp.Value, resp.Exists)
		}
	})

	t.Run("unregistered actor receives an error response", func(t *testing.T) {
		resp := decode(stub.handler("mallory", "Get", encode(common.NewGetRequest("k"))))
		if resp.Op != common.OpError {
			t.Fatalf("expected an error response, got %s", resp.Op)
		}
		if resp.Err == "" {
			t.Error("expected an error message")
		}
	})

	t.Run("system actor can configure new actors at runtime", func(t *testing.T) {
		req := encode(common.NewConfigureRequest("bob", nil))
		if resp := stub.handler("system", "Configure", req); len(resp) != 0 {
			t.Fatalf("expected an empty acknowledgement, got %d bytes", len(resp))
		}

		resp := decode(stub.handler("bob", "KeyExists", encode(common.NewKeyExistsRequest("k"))))
		if resp.Op == common.OpError {
			t.Fatalf("unexpected error response: %s", resp.Err)
		}
	})
}
