package testing

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/kvgate/kvgate/lib/store"
)

// ClientFactory is a function that creates a fresh, empty client handle
type ClientFactory func(t *testing.T) store.IClient

// RunStoreTests runs a comprehensive test suite against a store backend.
// Every backend implementing store.IClient/store.IConnection is expected to
// pass this suite.
func RunStoreTests(t *testing.T, name string, factory ClientFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, connect(t, factory))
		})

		t.Run("GetMissing", func(t *testing.T) {
			testGetMissing(t, connect(t, factory))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, connect(t, factory))
		})

		t.Run("IncrBy", func(t *testing.T) {
			testIncrBy(t, connect(t, factory))
		})

		t.Run("IncrByNonNumeric", func(t *testing.T) {
			testIncrByNonNumeric(t, connect(t, factory))
		})

		t.Run("Exists", func(t *testing.T) {
			testExists(t, connect(t, factory))
		})

		t.Run("ListOps", func(t *testing.T) {
			testListOps(t, connect(t, factory))
		})

		t.Run("ListRangeIndexing", func(t *testing.T) {
			testListRangeIndexing(t, connect(t, factory))
		})

		t.Run("ListRemove", func(t *testing.T) {
			testListRemove(t, connect(t, factory))
		})

		t.Run("SetOps", func(t *testing.T) {
			testSetOps(t, connect(t, factory))
		})

		t.Run("SetUnionIntersect", func(t *testing.T) {
			testSetUnionIntersect(t, connect(t, factory))
		})

		t.Run("WrongType", func(t *testing.T) {
			testWrongType(t, connect(t, factory))
		})

		t.Run("ConcurrentWrites", func(t *testing.T) {
			testConcurrentWrites(t, connect(t, factory))
		})
	})
}

// connect creates a handle and yields one connection from it
func connect(t *testing.T, factory ClientFactory) store.IConnection {
	t.Helper()

	client := factory(t)
	t.Cleanup(func() { _ = client.Close() })

	conn, err := client.Connect()
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func testSetGet(t *testing.T, conn store.IConnection) {
	if err := conn.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := conn.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Error("Get should find the key after Set")
	}
	if value != "v" {
		t.Errorf("Get returned %q, expected %q", value, "v")
	}

	// overwrite
	if err := conn.Set("k", "v2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _, _ = conn.Get("k")
	if value != "v2" {
		t.Errorf("Get returned %q after overwrite, expected %q", value, "v2")
	}
}

func testGetMissing(t *testing.T, conn store.IConnection) {
	value, found, err := conn.Get("missing")
	if err != nil {
		t.Fatalf("Get on a missing key must not error, got: %v", err)
	}
	if found {
		t.Error("Get on a missing key should report found=false")
	}
	if value != "" {
		t.Errorf("Get on a missing key should return the empty string, got %q", value)
	}
}

func testDelete(t *testing.T, conn store.IConnection) {
	if err := conn.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := conn.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, found, err := conn.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("key should be gone after Delete")
	}

	// deleting a nonexistent key is a no-op, never an error
	if err := conn.Delete("k"); err != nil {
		t.Errorf("second Delete must be idempotent, got: %v", err)
	}
}

func testIncrBy(t *testing.T, conn store.IConnection) {
	val, err := conn.IncrBy("counter", 5)
	if err != nil {
		t.Fatalf("IncrBy on a fresh key failed: %v", err)
	}
	if val != 5 {
		t.Errorf("IncrBy returned %d, expected 5", val)
	}

	val, err = conn.IncrBy("counter", 3)
	if err != nil {
		t.Fatalf("IncrBy failed: %v", err)
	}
	if val != 8 {
		t.Errorf("IncrBy returned %d, expected 8", val)
	}

	val, err = conn.IncrBy("counter", -10)
	if err != nil {
		t.Fatalf("IncrBy with negative delta failed: %v", err)
	}
	if val != -2 {
		t.Errorf("IncrBy returned %d, expected -2", val)
	}
}

func testIncrByNonNumeric(t *testing.T, conn store.IConnection) {
	if err := conn.Set("x", "1berry"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := conn.IncrBy("x", 5); err == nil {
		t.Error("IncrBy on a non-numeric value must fail, not coerce")
	}
}

func testExists(t *testing.T, conn store.IConnection) {
	found, err := conn.Exists("k")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if found {
		t.Error("Exists should report false for an unset key")
	}

	// Exists does not distinguish key type
	if err := conn.Set("scalar", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := conn.ListPush("list", "v"); err != nil {
		t.Fatalf("ListPush failed: %v", err)
	}
	if _, err := conn.SetAdd("set", "v"); err != nil {
		t.Fatalf("SetAdd failed: %v", err)
	}

	for _, key := range []string{"scalar", "list", "set"} {
		found, err := conn.Exists(key)
		if err != nil {
			t.Fatalf("Exists(%q) failed: %v", key, err)
		}
		if !found {
			t.Errorf("Exists(%q) should report true", key)
		}
	}
}

func testListOps(t *testing.T, conn store.IConnection) {
	n, err := conn.ListPush("L", "a")
	if err != nil {
		t.Fatalf("ListPush failed: %v", err)
	}
	if n != 1 {
		t.Errorf("ListPush returned count %d, expected 1", n)
	}

	n, err = conn.ListPush("L", "b")
	if err != nil {
		t.Fatalf("ListPush failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ListPush returned count %d, expected 2", n)
	}

	// push prepends, so the most recent element comes first
	values, err := conn.ListRange("L", 0, -1)
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	expected := []string{"b", "a"}
	if len(values) != len(expected) || values[0] != "b" || values[1] != "a" {
		t.Errorf("ListRange returned %v, expected %v", values, expected)
	}
}

func testListRangeIndexing(t *testing.T, conn store.IConnection) {
	// list ends up as [e, d, c, b, a]
	for _, v := range []string{"a", "b", "c", "d", "e"} {
		if _, err := conn.ListPush("L", v); err != nil {
			t.Fatalf("ListPush failed: %v", err)
		}
	}

	tests := []struct {
		name        string
		start, stop int32
		expected    []string
	}{
		{"Full", 0, -1, []string{"e", "d", "c", "b", "a"}},
		{"Prefix", 0, 1, []string{"e", "d"}},
		{"Middle", 1, 3, []string{"d", "c", "b"}},
		{"NegativeStart", -2, -1, []string{"b", "a"}},
		{"StopPastEnd", 3, 100, []string{"b", "a"}},
		{"EmptyRange", 4, 2, []string{}},
		{"StartPastEnd", 10, 20, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := conn.ListRange("L", tc.start, tc.stop)
			if err != nil {
				t.Fatalf("ListRange(%d, %d) failed: %v", tc.start, tc.stop, err)
			}
			if fmt.Sprint(values) != fmt.Sprint(tc.expected) {
				t.Errorf("ListRange(%d, %d) returned %v, expected %v", tc.start, tc.stop, values, tc.expected)
			}
		})
	}

	// range on a missing key is empty, not an error
	values, err := conn.ListRange("missing", 0, -1)
	if err != nil {
		t.Fatalf("ListRange on a missing key failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("ListRange on a missing key returned %v, expected empty", values)
	}
}

func testListRemove(t *testing.T, conn store.IConnection) {
	for _, v := range []string{"a", "b", "a", "c", "a"} {
		if _, err := conn.ListPush("L", v); err != nil {
			t.Fatalf("ListPush failed: %v", err)
		}
	}

	removed, err := conn.ListRemove("L", "a")
	if err != nil {
		t.Fatalf("ListRemove failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("ListRemove removed %d elements, expected 3", removed)
	}

	values, err := conn.ListRange("L", 0, -1)
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("list should hold 2 elements after removal, got %v", values)
	}

	// removing a value that is not present removes nothing
	removed, err = conn.ListRemove("L", "z")
	if err != nil {
		t.Fatalf("ListRemove failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("ListRemove removed %d elements, expected 0", removed)
	}
}

func testSetOps(t *testing.T, conn store.IConnection) {
	n, err := conn.SetAdd("S", "a")
	if err != nil {
		t.Fatalf("SetAdd failed: %v", err)
	}
	if n != 1 {
		t.Errorf("SetAdd returned member count %d, expected 1", n)
	}

	// adding the same member again leaves the count unchanged
	n, err = conn.SetAdd("S", "a")
	if err != nil {
		t.Fatalf("SetAdd failed: %v", err)
	}
	if n != 1 {
		t.Errorf("idempotent SetAdd returned member count %d, expected 1", n)
	}

	n, err = conn.SetAdd("S", "b")
	if err != nil {
		t.Fatalf("SetAdd failed: %v", err)
	}
	if n != 2 {
		t.Errorf("SetAdd returned member count %d, expected 2", n)
	}

	n, err = conn.SetRemove("S", "a")
	if err != nil {
		t.Fatalf("SetRemove failed: %v", err)
	}
	if n != 1 {
		t.Errorf("SetRemove returned member count %d, expected 1", n)
	}

	members, err := conn.SetMembers("S")
	if err != nil {
		t.Fatalf("SetMembers failed: %v", err)
	}
	if len(members) != 1 || members[0] != "b" {
		t.Errorf("SetMembers returned %v, expected [b]", members)
	}
}

func testSetUnionIntersect(t *testing.T, conn store.IConnection) {
	for _, v := range []string{"a", "b", "c"} {
		if _, err := conn.SetAdd("S1", v); err != nil {
			t.Fatalf("SetAdd failed: %v", err)
		}
	}
	for _, v := range []string{"b", "c", "d"} {
		if _, err := conn.SetAdd("S2", v); err != nil {
			t.Fatalf("SetAdd failed: %v", err)
		}
	}

	// union eliminates duplicates
	union, err := conn.SetUnion("S1", "S2")
	if err != nil {
		t.Fatalf("SetUnion failed: %v", err)
	}
	sort.Strings(union)
	if fmt.Sprint(union) != fmt.Sprint([]string{"a", "b", "c", "d"}) {
		t.Errorf("SetUnion returned %v, expected [a b c d]", union)
	}

	intersect, err := conn.SetIntersect("S1", "S2")
	if err != nil {
		t.Fatalf("SetIntersect failed: %v", err)
	}
	sort.Strings(intersect)
	if fmt.Sprint(intersect) != fmt.Sprint([]string{"b", "c"}) {
		t.Errorf("SetIntersect returned %v, expected [b c]", intersect)
	}

	// union with a missing key behaves as a union with the empty set
	union, err = conn.SetUnion("S1", "missing")
	if err != nil {
		t.Fatalf("SetUnion with a missing key failed: %v", err)
	}
	if len(union) != 3 {
		t.Errorf("SetUnion with a missing key returned %v, expected 3 members", union)
	}
}

func testWrongType(t *testing.T, conn store.IConnection) {
	if err := conn.Set("scalar", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := conn.ListPush("scalar", "v"); err == nil {
		t.Error("ListPush on a scalar key must fail")
	}
	if _, err := conn.SetAdd("scalar", "v"); err == nil {
		t.Error("SetAdd on a scalar key must fail")
	}

	if _, err := conn.ListPush("list", "v"); err != nil {
		t.Fatalf("ListPush failed: %v", err)
	}
	if _, _, err := conn.Get("list"); err == nil {
		t.Error("Get on a list key must fail")
	}
}

func testConcurrentWrites(t *testing.T, conn store.IConnection) {
	const (
		workers       = 8
		incrPerWorker = 50
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < incrPerWorker; j++ {
				if _, err := conn.IncrBy("counter", 1); err != nil {
					t.Errorf("worker %d: IncrBy failed: %v", id, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	val, err := conn.IncrBy("counter", 0)
	if err != nil {
		t.Fatalf("IncrBy failed: %v", err)
	}
	if val != workers*incrPerWorker {
		t.Errorf("counter is %d after concurrent increments, expected %d", val, workers*incrPerWorker)
	}
}
