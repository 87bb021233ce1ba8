package boltstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strconv"

	"github.com/boltdb/bolt"
	"github.com/kvgate/kvgate/lib/store"
)

const bucketName = "kv"

// --------------------------------------------------------------------------
// Record Type (tagged value: scalar, list or set)
// --------------------------------------------------------------------------

const (
	kindScalar uint8 = iota
	kindList
	kindSet
)

func kindName(k uint8) string {
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

// record is the gob-encoded on-disk representation of one value
type record struct {
	Kind   uint8
	Scalar string
	List   []string
	Set    map[string]struct{}
}

func encodeRecord(r *record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*record, error) {
	var r record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func wrongType(key string, want, got uint8) error {
	return store.NewError(store.RetCWrongType,
		fmt.Sprintf("operation against key %q holding a %s value (expected %s)", key, kindName(got), kindName(want)))
}

// --------------------------------------------------------------------------
// Client Handle
// --------------------------------------------------------------------------

// NewFactory returns a store.Factory producing file backed client handles.
// The connection parameters must carry the database file path under the
// "URL" key. The file is opened (and created if missing) when the handle is
// created, so an unwritable path fails at registration time.
func NewFactory() store.Factory {
	return func(params store.ConnectionParams) (store.IClient, error) {
		return NewClient(params.URL())
	}
}

// NewClient creates a new bolt client handle for the given database file.
func NewClient(path string) (store.IClient, error) {
	if path == "" {
		return nil, fmt.Errorf("missing connection parameter URL (database file path)")
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating bucket %s: %w", bucketName, err)
	}

	return &client{db: db}, nil
}

type client struct {
	db *bolt.DB
}

func (c *client) Connect() (store.IConnection, error) {
	return &connection{db: c.db}, nil
}

func (c *client) Close() error {
	return c.db.Close()
}

// --------------------------------------------------------------------------
// Connection
// --------------------------------------------------------------------------

// connection issues every store command inside its own bolt transaction,
// so each command is atomic and durable on its own.
type connection struct {
	db *bolt.DB
}

// update runs fn against the kv bucket in a writable transaction
func (c *connection) update(fn func(b *bolt.Bucket) error) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket([]byte(bucketName)))
	})
}

// view runs fn against the kv bucket in a read-only transaction
func (c *connection) view(fn func(b *bolt.Bucket) error) error {
	return c.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket([]byte(bucketName)))
	})
}

// load decodes the record for key ((nil, nil) if the key is unset)
func load(b *bolt.Bucket, key string) (*record, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return nil, nil
	}
	r, err := decodeRecord(data)
	if err != nil {
		return nil, store.WrapError(store.RetCInternalError, fmt.Sprintf("corrupt record at key %q", key), err)
	}
	return r, nil
}

// put encodes and writes the record for key
func put(b *bolt.Bucket, key string, r *record) error {
	data, err := encodeRecord(r)
	if err != nil {
		return store.WrapError(store.RetCInternalError, fmt.Sprintf("failed to encode record at key %q", key), err)
	}
	return b.Put([]byte(key), data)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (c *connection) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := c.view(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil || r == nil {
			return err
		}
		if r.Kind != kindScalar {
			return wrongType(key, kindScalar, r.Kind)
		}
		value, found = r.Scalar, true
		return nil
	})
	return value, found, err
}

func (c *connection) Set(key, value string) error {
	return c.update(func(b *bolt.Bucket) error {
		return put(b, key, &record{Kind: kindScalar, Scalar: value})
	})
}

func (c *connection) Delete(key string) error {
	return c.update(func(b *bolt.Bucket) error {
		return b.Delete([]byte(key))
	})
}

func (c *connection) IncrBy(key string, delta int32) (int32, error) {
	var result int32
	err := c.update(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil {
			return err
		}
		if r == nil {
			result = delta
		} else {
			if r.Kind != kindScalar {
				return wrongType(key, kindScalar, r.Kind)
			}
			n, err := strconv.ParseInt(r.Scalar, 10, 32)
			if err != nil {
				return store.NewError(store.RetCInvalidOperation,
					fmt.Sprintf("value at key %q is not an integer", key))
			}
			result = int32(n) + delta
		}
		return put(b, key, &record{Kind: kindScalar, Scalar: strconv.FormatInt(int64(result), 10)})
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func (c *connection) Exists(key string) (bool, error) {
	var found bool
	err := c.view(func(b *bolt.Bucket) error {
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found, err
}

func (c *connection) ListPush(key, value string) (int32, error) {
	var result int32
	err := c.update(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil {
			return err
		}
		list := []string{value}
		if r != nil {
			if r.Kind != kindList {
				return wrongType(key, kindList, r.Kind)
			}
			list = append(list, r.List...)
		}
		result = int32(len(list))
		return put(b, key, &record{Kind: kindList, List: list})
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func (c *connection) ListRange(key string, start, stop int32) ([]string, error) {
	result := []string{}
	err := c.view(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil || r == nil {
			return err
		}
		if r.Kind != kindList {
			return wrongType(key, kindList, r.Kind)
		}

		length := int32(len(r.List))

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
			return nil
		}

		result = make([]string, stop-start+1)
		copy(result, r.List[start:stop+1])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *connection) ListRemove(key, value string) (int32, error) {
	var removed int32
	err := c.update(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil || r == nil {
			return err
		}
		if r.Kind != kindList {
			return wrongType(key, kindList, r.Kind)
		}
		next := make([]string, 0, len(r.List))
		for _, v := range r.List {
			if v == value {
				removed++
				continue
			}
			next = append(next, v)
		}
		if len(next) == 0 {
			return b.Delete([]byte(key))
		}
		return put(b, key, &record{Kind: kindList, List: next})
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (c *connection) SetAdd(key, value string) (int32, error) {
	var result int32
	err := c.update(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil {
			return err
		}
		set := map[string]struct{}{}
		if r != nil {
			if r.Kind != kindSet {
				return wrongType(key, kindSet, r.Kind)
			}
			set = r.Set
		}
		set[value] = struct{}{}
		result = int32(len(set))
		return put(b, key, &record{Kind: kindSet, Set: set})
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func (c *connection) SetRemove(key, value string) (int32, error) {
	var result int32
	err := c.update(func(b *bolt.Bucket) error {
		r, err := load(b, key)
		if err != nil || r == nil {
			return err
		}
		if r.Kind != kindSet {
			return wrongType(key, kindSet, r.Kind)
		}
		delete(r.Set, value)
		result = int32(len(r.Set))
		if len(r.Set) == 0 {
			return b.Delete([]byte(key))
		}
		return put(b, key, &record{Kind: kindSet, Set: r.Set})
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func (c *connection) SetUnion(keys ...string) ([]string, error) {
	union := map[string]struct{}{}
	err := c.view(func(b *bolt.Bucket) error {
		for _, key := range keys {
			members, err := loadSet(b, key)
			if err != nil {
				return err
			}
			for v := range members {
				union[v] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collect(union), nil
}

func (c *connection) SetIntersect(keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return []string{}, nil
	}

	var result map[string]struct{}
	err := c.view(func(b *bolt.Bucket) error {
		first, err := loadSet(b, keys[0])
		if err != nil {
			return err
		}
		result = first
		for _, key := range keys[1:] {
			members, err := loadSet(b, key)
			if err != nil {
				return err
			}
			for v := range result {
				if _, ok := members[v]; !ok {
					delete(result, v)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collect(result), nil
}

func (c *connection) SetMembers(key string) ([]string, error) {
	var result map[string]struct{}
	err := c.view(func(b *bolt.Bucket) error {
		members, err := loadSet(b, key)
		if err != nil {
			return err
		}
		result = members
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collect(result), nil
}

func (c *connection) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// loadSet returns the members of the set at key (empty if the key is unset)
func loadSet(b *bolt.Bucket, key string) (map[string]struct{}, error) {
	r, err := load(b, key)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return map[string]struct{}{}, nil
	}
	if r.Kind != kindSet {
		return nil, wrongType(key, kindSet, r.Kind)
	}
	return r.Set, nil
}

func collect(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	return result
}
