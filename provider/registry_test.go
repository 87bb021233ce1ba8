package provider

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/kvgate/kvgate/lib/store"
	"github.com/kvgate/kvgate/lib/store/memstore"
)

// trackingClient wraps a store client and records whether it was closed
type trackingClient struct {
	store.IClient
	mu     sync.Mutex
	closed bool
}

func newTrackingClient() *trackingClient {
	return &trackingClient{IClient: memstore.NewClient()}
}

func (c *trackingClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.IClient.Close()
}

func (c *trackingClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistryResolve(t *testing.T) {
	t.Run("unknown actor yields configuration error", func(t *testing.T) {
		registry := NewRegistry()

		_, err := registry.Resolve("ghost")
		if err == nil {
			t.Fatal("expected an error for an unregistered actor")
		}

		var pErr *Error
		if !errors.As(err, &pErr) {
			t.Fatalf("expected a typed provider error, got %T", err)
		}
		if pErr.Code != ErrCConfiguration {
			t.Errorf("expected code %s, got %s", ErrCConfiguration, pErr.Code)
		}
	})

	t.Run("registered actor resolves to a working connection", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("actor-a", memstore.NewClient())

		conn, err := registry.Resolve("actor-a")
		if err != nil {
			t.Fatalf("failed to resolve: %v", err)
		}
		defer func() { _ = conn.Close() }()

		if err := conn.Set("k", "v"); err != nil {
			t.Fatalf("failed to use resolved connection: %v", err)
		}
	})
}

func TestRegistryRegister(t *testing.T) {
	t.Run("replacing a handle closes the old one", func(t *testing.T) {
		registry := NewRegistry()

		old := newTrackingClient()
		registry.Register("actor-a", old)
		registry.Register("actor-a", memstore.NewClient())

		if !old.isClosed() {
			t.Error("expected the replaced handle to be closed")
		}
	})

	t.Run("registrations for distinct actors are independent", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("actor-a", memstore.NewClient())
		registry.Register("actor-b", memstore.NewClient())

		connA, err := registry.Resolve("actor-a")
		if err != nil {
			t.Fatalf("failed to resolve actor-a: %v", err)
		}
		defer func() { _ = connA.Close() }()

		if err := connA.Set("k", "from-a"); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		connB, err := registry.Resolve("actor-b")
		if err != nil {
			t.Fatalf("failed to resolve actor-b: %v", err)
		}
		defer func() { _ = connB.Close() }()

		if _, found, err := connB.Get("k"); err != nil {
			t.Fatalf("failed to read: %v", err)
		} else if found {
			t.Error("actor-b must not see actor-a's keys")
		}
	})
}

func TestRegistryActors(t *testing.T) {
	registry := NewRegistry()
	registry.Register("charlie", memstore.NewClient())
	registry.Register("alpha", memstore.NewClient())
	registry.Register("bravo", memstore.NewClient())

	got := registry.Actors()
	want := []string{"alpha", "bravo", "charlie"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistryClose(t *testing.T) {
	registry := NewRegistry()

	clients := []*trackingClient{newTrackingClient(), newTrackingClient()}
	registry.Register("actor-a", clients[0])
	registry.Register("actor-b", clients[1])

	if err := registry.Close(); err != nil {
		t.Fatalf("failed to close registry: %v", err)
	}

	for i, client := range clients {
		if !client.isClosed() {
			t.Errorf("expected client %d to be closed", i)
		}
	}

	if _, err := registry.Resolve("actor-a"); err == nil {
		t.Error("expected resolve to fail after close")
	}
}

func TestRegistryConcurrentResolve(t *testing.T) {
	registry := NewRegistry()
	registry.Register("actor-a", memstore.NewClient())

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				conn, err := registry.Resolve("actor-a")
				if err != nil {
					t.Errorf("failed to resolve: %v", err)
					return
				}
				_ = conn.Close()
			}
		}()
	}

	wg.Wait()
}

func TestRegistryConcurrentRegisterResolve(t *testing.T) {
	registry := NewRegistry()
	registry.Register("actor-a", memstore.NewClient())

	const resolvers = 8
	var wg sync.WaitGroup
	wg.Add(resolvers + 1)

	// one goroutine keeps replacing the handle while the others resolve it;
	// every resolve against a live registry must succeed
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			registry.Register("actor-a", newTrackingClient())
		}
	}()

	for i := 0; i < resolvers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				conn, err := registry.Resolve("actor-a")
				if err != nil {
					t.Errorf("failed to resolve during replacement: %v", err)
					return
				}
				_ = conn.Close()
			}
		}()
	}

	wg.Wait()

	// a registration completed before this point must be visible now
	final := newTrackingClient()
	registry.Register("actor-b", final)
	conn, err := registry.Resolve("actor-b")
	if err != nil {
		t.Fatalf("failed to resolve after registration completed: %v", err)
	}
	_ = conn.Close()
}
