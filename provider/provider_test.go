package provider

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/kvgate/kvgate/lib/store/memstore"
	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
)

const testActor = "test-actor"

// newTestProvider creates a provider backed by the in-memory store with the
// test actor already configured
func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	p := New(memstore.NewFactory(), serializer.NewBinarySerializer())
	t.Cleanup(func() { _ = p.Close() })

	configureActor(t, p, testActor)
	return p
}

func configureActor(t *testing.T, p *Provider, actor string) {
	t.Helper()

	resp, err := p.Dispatch(SystemActor, "Configure", encode(t, p, common.NewConfigureRequest(actor, nil)))
	if err != nil {
		t.Fatalf("failed to configure actor %s: %v", actor, err)
	}
	if len(resp) != 0 {
		t.Fatalf("expected an empty configure acknowledgement, got %d bytes", len(resp))
	}
}

func encode(t *testing.T, p *Provider, msg *common.Message) []byte {
	t.Helper()

	data, err := p.serializer.Serialize(*msg)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	return data
}

// call dispatches the request as the test actor and decodes the response
func call(t *testing.T, p *Provider, op string, req *common.Message) *common.Message {
	t.Helper()

	data, err := p.Dispatch(testActor, op, encode(t, p, req))
	if err != nil {
		t.Fatalf("dispatch of %s failed: %v", op, err)
	}

	var resp common.Message
	if err := p.serializer.Deserialize(data, &resp); err != nil {
		t.Fatalf("failed to decode %s response: %v", op, err)
	}
	return &resp
}

// errCodeOf dispatches a request expected to fail and returns the error code
func errCodeOf(t *testing.T, p *Provider, actor, op string, payload []byte) ErrCode {
	t.Helper()

	_, err := p.Dispatch(actor, op, payload)
	if err == nil {
		t.Fatalf("expected dispatch of %s to fail", op)
	}

	var pErr *Error
	if !errors.As(err, &pErr) {
		t.Fatalf("expected a typed provider error, got %T: %v", err, err)
	}
	return pErr.Code
}

// --------------------------------------------------------------------------
// Scalar Operations
// --------------------------------------------------------------------------

func TestScalarOperations(t *testing.T) {
	t.Run("set then get round trip", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "Set", common.NewSetRequest("greeting", "hello"))
		if resp.Value != "hello" {
			t.Errorf("expected set to echo the value, got %q", resp.Value)
		}

		resp = call(t, p, "Get", common.NewGetRequest("greeting"))
		if !resp.Exists || resp.Value != "hello" {
			t.Errorf("expected (hello, true), got (%q, %v)", resp.Value, resp.Exists)
		}
	})

	t.Run("get of an absent key reports not found", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "Get", common.NewGetRequest("missing"))
		if resp.Exists {
			t.Error("expected an absent key to report exists=false")
		}
		if resp.Value != "" {
			t.Errorf("expected an empty value, got %q", resp.Value)
		}
	})

	t.Run("add accumulates onto the stored counter", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "Add", common.NewAddRequest("counter", 25))
		if resp.Count != 25 {
			t.Errorf("expected 25 after the first increment, got %d", resp.Count)
		}

		resp = call(t, p, "Add", common.NewAddRequest("counter", -5))
		if resp.Count != 20 {
			t.Errorf("expected 20 after the second increment, got %d", resp.Count)
		}
	})

	t.Run("add on a non-numeric value fails", func(t *testing.T) {
		p := newTestProvider(t)

		call(t, p, "Set", common.NewSetRequest("label", "not-a-number"))

		code := errCodeOf(t, p, testActor, "Add", encode(t, p, common.NewAddRequest("label", 1)))
		if code != ErrCStore {
			t.Errorf("expected %s, got %s", ErrCStore, code)
		}
	})

	t.Run("del is idempotent", func(t *testing.T) {
		p := newTestProvider(t)

		call(t, p, "Set", common.NewSetRequest("doomed", "x"))

		for i := 0; i < 2; i++ {
			resp := call(t, p, "Del", common.NewDelRequest("doomed"))
			if resp.Key != "doomed" {
				t.Errorf("expected del to echo the key, got %q", resp.Key)
			}
		}

		resp := call(t, p, "KeyExists", common.NewKeyExistsRequest("doomed"))
		if resp.Exists {
			t.Error("expected the key to be gone after deletion")
		}
	})

	t.Run("key exists reflects presence", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "KeyExists", common.NewKeyExistsRequest("k"))
		if resp.Exists {
			t.Error("expected exists=false before the write")
		}

		call(t, p, "Set", common.NewSetRequest("k", "v"))

		resp = call(t, p, "KeyExists", common.NewKeyExistsRequest("k"))
		if !resp.Exists {
			t.Error("expected exists=true after the write")
		}
	})
}

// --------------------------------------------------------------------------
// List Operations
// --------------------------------------------------------------------------

func TestListOperations(t *testing.T) {
	t.Run("push prepends and reports the length", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "Push", common.NewListPushRequest("l", "a"))
		if resp.Count != 1 {
			t.Errorf("expected length 1, got %d", resp.Count)
		}
		resp = call(t, p, "Push", common.NewListPushRequest("l", "b"))
		if resp.Count != 2 {
			t.Errorf("expected length 2, got %d", resp.Count)
		}

		resp = call(t, p, "Range", common.NewListRangeRequest("l", 0, -1))
		want := []string{"b", "a"}
		if !reflect.DeepEqual(resp.Values, want) {
			t.Errorf("expected %v, got %v", want, resp.Values)
		}
	})

	t.Run("range honors negative indices", func(t *testing.T) {
		p := newTestProvider(t)

		for _, v := range []string{"c", "b", "a"} {
			call(t, p, "Push", common.NewListPushRequest("l", v))
		}

		resp := call(t, p, "Range", common.NewListRangeRequest("l", -2, -1))
		want := []string{"b", "c"}
		if !reflect.DeepEqual(resp.Values, want) {
			t.Errorf("expected %v, got %v", want, resp.Values)
		}
	})

	t.Run("range of an absent list is empty", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "Range", common.NewListRangeRequest("missing", 0, -1))
		if len(resp.Values) != 0 {
			t.Errorf("expected an empty range, got %v", resp.Values)
		}
	})

	t.Run("item deletion removes every occurrence", func(t *testing.T) {
		p := newTestProvider(t)

		for _, v := range []string{"x", "y", "x", "z", "x"} {
			call(t, p, "Push", common.NewListPushRequest("l", v))
		}

		resp := call(t, p, "ListItemDelete", common.NewListDelItemRequest("l", "x"))
		if resp.Count != 3 {
			t.Errorf("expected 3 removed elements, got %d", resp.Count)
		}

		resp = call(t, p, "Range", common.NewListRangeRequest("l", 0, -1))
		for _, v := range resp.Values {
			if v == "x" {
				t.Errorf("expected no occurrence of x, got %v", resp.Values)
			}
		}
	})

	t.Run("clear deletes the whole list", func(t *testing.T) {
		p := newTestProvider(t)

		call(t, p, "Push", common.NewListPushRequest("l", "a"))
		call(t, p, "Clear", common.NewListClearRequest("l"))

		resp := call(t, p, "KeyExists", common.NewKeyExistsRequest("l"))
		if resp.Exists {
			t.Error("expected the list to be gone after clear")
		}
	})
}

// --------------------------------------------------------------------------
// Set Operations
// --------------------------------------------------------------------------

func TestSetOperations(t *testing.T) {
	t.Run("add reports the member count after the mutation", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "SetAdd", common.NewSetAddRequest("s", "a"))
		if resp.Count != 1 {
			t.Errorf("expected count 1, got %d", resp.Count)
		}

		// adding a present member must not change the count
		resp = call(t, p, "SetAdd", common.NewSetAddRequest("s", "a"))
		if resp.Count != 1 {
			t.Errorf("expected count 1 after duplicate insert, got %d", resp.Count)
		}

		resp = call(t, p, "SetAdd", common.NewSetAddRequest("s", "b"))
		if resp.Count != 2 {
			t.Errorf("expected count 2, got %d", resp.Count)
		}
	})

	t.Run("remove reports the member count after the mutation", func(t *testing.T) {
		p := newTestProvider(t)

		call(t, p, "SetAdd", common.NewSetAddRequest("s", "a"))
		call(t, p, "SetAdd", common.NewSetAddRequest("s", "b"))

		resp := call(t, p, "SetRemove", common.NewSetRemoveRequest("s", "a"))
		if resp.Count != 1 {
			t.Errorf("expected count 1, got %d", resp.Count)
		}

		resp = call(t, p, "SetRemove", common.NewSetRemoveRequest("s", "absent"))
		if resp.Count != 1 {
			t.Errorf("expected count 1 after removing an absent member, got %d", resp.Count)
		}
	})

	t.Run("union deduplicates across keys", func(t *testing.T) {
		p := newTestProvider(t)

		for _, v := range []string{"a", "b"} {
			call(t, p, "SetAdd", common.NewSetAddRequest("s1", v))
		}
		for _, v := range []string{"b", "c"} {
			call(t, p, "SetAdd", common.NewSetAddRequest("s2", v))
		}

		resp := call(t, p, "SetUnion", common.NewSetUnionRequest([]string{"s1", "s2"}))
		got := append([]string(nil), resp.Values...)
		sort.Strings(got)
		want := []string{"a", "b", "c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("intersection keeps only shared members", func(t *testing.T) {
		p := newTestProvider(t)

		for _, v := range []string{"a", "b", "c"} {
			call(t, p, "SetAdd", common.NewSetAddRequest("s1", v))
		}
		for _, v := range []string{"b", "c", "d"} {
			call(t, p, "SetAdd", common.NewSetAddRequest("s2", v))
		}

		resp := call(t, p, "SetIntersection", common.NewSetIntersectRequest([]string{"s1", "s2"}))
		got := append([]string(nil), resp.Values...)
		sort.Strings(got)
		want := []string{"b", "c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("query lists all members", func(t *testing.T) {
		p := newTestProvider(t)

		for _, v := range []string{"a", "b"} {
			call(t, p, "SetAdd", common.NewSetAddRequest("s", v))
		}

		resp := call(t, p, "SetQuery", common.NewSetQueryRequest("s"))
		got := append([]string(nil), resp.Values...)
		sort.Strings(got)
		want := []string{"a", "b"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("query of an absent set is empty", func(t *testing.T) {
		p := newTestProvider(t)

		resp := call(t, p, "SetQuery", common.NewSetQueryRequest("missing"))
		if len(resp.Values) != 0 {
			t.Errorf("expected an empty member list, got %v", resp.Values)
		}
	})
}

// --------------------------------------------------------------------------
// Dispatch Boundary
// --------------------------------------------------------------------------

func TestDispatchErrors(t *testing.T) {
	t.Run("unknown operation yields a protocol error", func(t *testing.T) {
		p := newTestProvider(t)

		code := errCodeOf(t, p, testActor, "Explode", encode(t, p, common.NewGetRequest("k")))
		if code != ErrCProtocol {
			t.Errorf("expected %s, got %s", ErrCProtocol, code)
		}
	})

	t.Run("malformed payload yields a protocol error", func(t *testing.T) {
		p := newTestProvider(t)

		code := errCodeOf(t, p, testActor, "Get", []byte{0xff, 0x01})
		if code != ErrCProtocol {
			t.Errorf("expected %s, got %s", ErrCProtocol, code)
		}
	})

	t.Run("payload opcode must match the dispatched operation", func(t *testing.T) {
		p := newTestProvider(t)

		code := errCodeOf(t, p, testActor, "Get", encode(t, p, common.NewSetRequest("k", "v")))
		if code != ErrCProtocol {
			t.Errorf("expected %s, got %s", ErrCProtocol, code)
		}
	})

	t.Run("unregistered actor yields a configuration error", func(t *testing.T) {
		p := newTestProvider(t)

		code := errCodeOf(t, p, "stranger", "Get", encode(t, p, common.NewGetRequest("k")))
		if code != ErrCConfiguration {
			t.Errorf("expected %s, got %s", ErrCConfiguration, code)
		}
	})
}

func TestConfigure(t *testing.T) {
	t.Run("only the system actor may configure", func(t *testing.T) {
		p := newTestProvider(t)

		code := errCodeOf(t, p, testActor, "Configure", encode(t, p, common.NewConfigureRequest("other", nil)))
		if code != ErrCConfiguration {
			t.Errorf("expected %s, got %s", ErrCConfiguration, code)
		}
	})

	t.Run("the target actor is required", func(t *testing.T) {
		p := newTestProvider(t)

		code := errCodeOf(t, p, SystemActor, "Configure", encode(t, p, common.NewConfigureRequest("", nil)))
		if code != ErrCConfiguration {
			t.Errorf("expected %s, got %s", ErrCConfiguration, code)
		}
	})

	t.Run("reconfiguring an actor replaces its handle", func(t *testing.T) {
		p := newTestProvider(t)

		call(t, p, "Set", common.NewSetRequest("k", "v"))

		// a fresh handle starts with an empty keyspace
		configureActor(t, p, testActor)

		resp := call(t, p, "Get", common.NewGetRequest("k"))
		if resp.Exists {
			t.Error("expected the fresh handle to start empty")
		}
	})
}

func TestActorIsolation(t *testing.T) {
	p := newTestProvider(t)
	configureActor(t, p, "other-actor")

	call(t, p, "Set", common.NewSetRequest("shared-key", "mine"))

	data, err := p.Dispatch("other-actor", "Get", encode(t, p, common.NewGetRequest("shared-key")))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	var resp common.Message
	if err := p.serializer.Deserialize(data, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Exists {
		t.Error("expected actors to have disjoint keyspaces")
	}
}
