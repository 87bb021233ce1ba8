package memstore

import (
	"sync"
	"testing"

	"github.com/kvgate/kvgate/lib/store"
	storetesting "github.com/kvgate/kvgate/lib/store/testing"
)

func TestMemStoreConformance(t *testing.T) {
	storetesting.RunStoreTests(t, "memstore", func(t *testing.T) store.IClient {
		return NewClient()
	})
}

// TestFactoryIsolation verifies that handles created by the same factory do
// not share a keyspace.
func TestFactoryIsolation(t *testing.T) {
	factory := NewFactory()

	c1, err := factory(store.ConnectionParams{})
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	c2, err := factory(store.ConnectionParams{})
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}

	conn1, _ := c1.Connect()
	conn2, _ := c2.Connect()

	if err := conn1.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, found, err := conn2.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("key set through one handle is visible through another")
	}
}

// TestConnectionsShareKeyspace verifies that connections from the same handle
// observe each other's writes.
func TestConnectionsShareKeyspace(t *testing.T) {
	client := NewClient()

	conn1, _ := client.Connect()
	conn2, _ := client.Connect()

	if err := conn1.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := conn2.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || value != "v" {
		t.Errorf("Get returned (%q, %v), expected (v, true)", value, found)
	}
}

// TestConcurrentMixedOps hammers one handle with mixed list and set mutations
// from many goroutines to shake out torn entry updates.
func TestConcurrentMixedOps(t *testing.T) {
	client := NewClient()
	conn, _ := client.Connect()

	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := conn.ListPush("L", "x"); err != nil {
					t.Errorf("ListPush failed: %v", err)
					return
				}
				if _, err := conn.SetAdd("S", "m"); err != nil {
					t.Errorf("SetAdd failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	values, err := conn.ListRange("L", 0, -1)
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	if len(values) != workers*100 {
		t.Errorf("list holds %d elements, expected %d", len(values), workers*100)
	}

	members, err := conn.SetMembers("S")
	if err != nil {
		t.Fatalf("SetMembers failed: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("set holds %d members, expected 1", len(members))
	}
}
