package memstore

import (
	"fmt"
	"strconv"

	"github.com/kvgate/kvgate/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Entry Type (tagged value: scalar, list or set)
// --------------------------------------------------------------------------

type kind uint8

const (
	kindScalar kind = iota
	kindList
	kindSet
)

func (k kind) String() string {
	switch k {
	case kindScalar:
		return "scalar"
	case kindList:
		return "list"
	case kindSet:
		return "set"
	default:
		return "unknown"
	}
}

// entry is a single stored value. Entries are treated as immutable once
// published to the map: every mutation replaces the entry wholesale so that
// concurrent readers never observe a partially updated value.
type entry struct {
	kind   kind
	scalar string
	list   []string
	set    map[string]struct{}
}

// wrongType builds the type-mismatch error for an operation expecting `want`
func wrongType(key string, want, got kind) error {
	return store.NewError(store.RetCWrongType,
		fmt.Sprintf("operation against key %q holding a %s value (expected %s)", key, got, want))
}

// --------------------------------------------------------------------------
// Client Handle
// --------------------------------------------------------------------------

// NewFactory returns a store.Factory producing independent in-process
// backends. Every created handle owns its own keyspace, so two actors
// configured through the same factory are fully isolated from each other.
func NewFactory() store.Factory {
	return func(params store.ConnectionParams) (store.IClient, error) {
		return NewClient(), nil
	}
}

// NewClient creates a new in-process client handle with an empty keyspace.
func NewClient() store.IClient {
	return &client{
		data: xsync.NewMapOf[string, *entry](),
	}
}

type client struct {
	data *xsync.MapOf[string, *entry]
}

func (c *client) Connect() (store.IConnection, error) {
	return &connection{data: c.data}, nil
}

func (c *client) Close() error {
	c.data.Clear()
	return nil
}

// --------------------------------------------------------------------------
// Connection
// --------------------------------------------------------------------------

// connection is a transient view onto the handle's keyspace. All mutations go
// through Compute on the underlying map, which makes each store command
// atomic with respect to concurrent commands on the same key.
type connection struct {
	data *xsync.MapOf[string, *entry]
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (c *connection) Get(key string) (string, bool, error) {
	e, ok := c.data.Load(key)
	if !ok {
		return "", false, nil
	}
	if e.kind != kindScalar {
		return "", false, wrongType(key, kindScalar, e.kind)
	}
	return e.scalar, true, nil
}

func (c *connection) Set(key, value string) error {
	c.data.Store(key, &entry{kind: kindScalar, scalar: value})
	return nil
}

func (c *connection) Delete(key string) error {
	c.data.Delete(key)
	return nil
}

func (c *connection) IncrBy(key string, delta int32) (int32, error) {
	var (
		result int32
		opErr  error
	)

	c.data.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		if !loaded {
			result = delta
			return &entry{kind: kindScalar, scalar: strconv.FormatInt(int64(delta), 10)}, false
		}
		if old.kind != kindScalar {
			opErr = wrongType(key, kindScalar, old.kind)
			return old, false
		}
		n, err := strconv.ParseInt(old.scalar, 10, 32)
		if err != nil {
			opErr = store.NewError(store.RetCInvalidOperation,
				fmt.Sprintf("value at key %q is not an integer", key))
			return old, false
		}
		result = int32(n) + delta
		return &entry{kind: kindScalar, scalar: strconv.FormatInt(int64(result), 10)}, false
	})

	if opErr != nil {
		return 0, opErr
	}
	return result, nil
}

func (c *connection) Exists(key string) (bool, error) {
	_, ok := c.data.Load(key)
	return ok, nil
}

func (c *connection) ListPush(key, value string) (int32, error) {
	var (
		result int32
		opErr  error
	)

	c.data.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		if !loaded {
			result = 1
			return &entry{kind: kindList, list: []string{value}}, false
		}
		if old.kind != kindList {
			opErr = wrongType(key, kindList, old.kind)
			return old, false
		}
		next := make([]string, 0, len(old.list)+1)
		next = append(next, value)
		next = append(next, old.list...)
		result = int32(len(next))
		return &entry{kind: kindList, list: next}, false
	})

	if opErr != nil {
		return 0, opErr
	}
	return result, nil
}

func (c *connection) ListRange(key string, start, stop int32) ([]string, error) {
	e, ok := c.data.Load(key)
	if !ok {
		return []string{}, nil
	}
	if e.kind != kindList {
		return nil, wrongType(key, kindList, e.kind)
	}

	length := int32(len(e.list))

	// negative indices count from the end of the list
	if start < 0 {
		start = length + start
	}
	if stop < 0 {
		stop = length + stop
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length {
		return []string{}, nil
	}

	result := make([]string, stop-start+1)
	copy(result, e.list[start:stop+1])
	return result, nil
}

func (c *connection) ListRemove(key, value string) (int32, error) {
	var (
		removed int32
		opErr   error
	)

	c.data.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		if !loaded {
			return nil, true
		}
		if old.kind != kindList {
			opErr = wrongType(key, kindList, old.kind)
			return old, false
		}
		next := make([]string, 0, len(old.list))
		for _, v := range old.list {
			if v == value {
				removed++
				continue
			}
			next = append(next, v)
		}
		if len(next) == 0 {
			// empty lists are removed, matching the backing store semantics
			return nil, true
		}
		return &entry{kind: kindList, list: next}, false
	})

	if opErr != nil {
		return 0, opErr
	}
	return removed, nil
}

func (c *connection) SetAdd(key, value string) (int32, error) {
	var (
		result int32
		opErr  error
	)

	c.data.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		if !loaded {
			result = 1
			return &entry{kind: kindSet, set: map[string]struct{}{value: {}}}, false
		}
		if old.kind != kindSet {
			opErr = wrongType(key, kindSet, old.kind)
			return old, false
		}
		next := make(map[string]struct{}, len(old.set)+1)
		for v := range old.set {
			next[v] = struct{}{}
		}
		next[value] = struct{}{}
		result = int32(len(next))
		return &entry{kind: kindSet, set: next}, false
	})

	if opErr != nil {
		return 0, opErr
	}
	return result, nil
}

func (c *connection) SetRemove(key, value string) (int32, error) {
	var (
		result int32
		opErr  error
	)

	c.data.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		if !loaded {
			return nil, true
		}
		if old.kind != kindSet {
			opErr = wrongType(key, kindSet, old.kind)
			return old, false
		}
		next := make(map[string]struct{}, len(old.set))
		for v := range old.set {
			if v == value {
				continue
			}
			next[v] = struct{}{}
		}
		result = int32(len(next))
		if len(next) == 0 {
			return nil, true
		}
		return &entry{kind: kindSet, set: next}, false
	})

	if opErr != nil {
		return 0, opErr
	}
	return result, nil
}

func (c *connection) SetUnion(keys ...string) ([]string, error) {
	union := make(map[string]struct{})
	for _, key := range keys {
		members, err := c.members(key)
		if err != nil {
			return nil, err
		}
		for v := range members {
			union[v] = struct{}{}
		}
	}
	return collect(union), nil
}

func (c *connection) SetIntersect(keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return []string{}, nil
	}

	result, err := c.members(keys[0])
	if err != nil {
		return nil, err
	}

	for _, key := range keys[1:] {
		members, err := c.members(key)
		if err != nil {
			return nil, err
		}
		for v := range result {
			if _, ok := members[v]; !ok {
				delete(result, v)
			}
		}
	}
	return collect(result), nil
}

func (c *connection) SetMembers(key string) ([]string, error) {
	members, err := c.members(key)
	if err != nil {
		return nil, err
	}
	return collect(members), nil
}

func (c *connection) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// members returns a copy of the set stored at key (empty if the key is unset)
func (c *connection) members(key string) (map[string]struct{}, error) {
	e, ok := c.data.Load(key)
	if !ok {
		return map[string]struct{}{}, nil
	}
	if e.kind != kindSet {
		return nil, wrongType(key, kindSet, e.kind)
	}
	result := make(map[string]struct{}, len(e.set))
	for v := range e.set {
		result[v] = struct{}{}
	}
	return result, nil
}

func collect(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	return result
}
