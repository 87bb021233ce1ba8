package boltstore

import (
	"path/filepath"
	"testing"

	"github.com/kvgate/kvgate/lib/store"
	storetesting "github.com/kvgate/kvgate/lib/store/testing"
)

func TestBoltStoreConformance(t *testing.T) {
	storetesting.RunStoreTests(t, "boltstore", func(t *testing.T) store.IClient {
		client, err := NewClient(filepath.Join(t.TempDir(), "kv.db"))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		return client
	})
}

// TestPersistence verifies data survives a handle close/reopen cycle.
func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	client, err := NewClient(path)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	conn, _ := client.Connect()
	if err := conn.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := conn.ListPush("L", "a"); err != nil {
		t.Fatalf("ListPush failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	client, err = NewClient(path)
	if err != nil {
		t.Fatalf("NewClient failed on reopen: %v", err)
	}
	defer client.Close()
	conn, _ = client.Connect()

	value, found, err := conn.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || value != "v" {
		t.Errorf("Get returned (%q, %v) after reopen, expected (v, true)", value, found)
	}

	values, err := conn.ListRange("L", 0, -1)
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	if len(values) != 1 || values[0] != "a" {
		t.Errorf("ListRange returned %v after reopen, expected [a]", values)
	}
}

// TestFactoryValidation verifies configuration errors fail eagerly.
func TestFactoryValidation(t *testing.T) {
	factory := NewFactory()

	if _, err := factory(store.ConnectionParams{}); err == nil {
		t.Error("factory must fail without a URL parameter")
	}

	if _, err := factory(store.ConnectionParams{"URL": "/nonexistent-dir/sub/kv.db"}); err == nil {
		t.Error("factory must fail for an unwritable path")
	}
}
