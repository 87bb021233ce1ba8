package redisstore

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kvgate/kvgate/lib/store"
	"github.com/redis/go-redis/v9"
)

// --------------------------------------------------------------------------
// Client Handle
// --------------------------------------------------------------------------

// NewFactory returns a store.Factory producing Redis backed client handles.
// The connection parameters must carry the target under the "URL" key
// (e.g. "redis://localhost:6379/0"). The URL is validated eagerly, so a
// malformed configuration fails at registration time and not on first use.
func NewFactory() store.Factory {
	return func(params store.ConnectionParams) (store.IClient, error) {
		return NewClient(params.URL())
	}
}

// NewClient creates a new Redis client handle for the given URL.
func NewClient(url string) (store.IClient, error) {
	if url == "" {
		return nil, fmt.Errorf("missing connection parameter URL")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL %q: %w", url, err)
	}

	return &client{rdb: redis.NewClient(opts)}, nil
}

// client wraps the driver client. The driver maintains its own internal
// connection pool; a Connect call hands out a logical connection on top of
// that pool.
type client struct {
	rdb *redis.Client
}

func (c *client) Connect() (store.IConnection, error) {
	return &connection{rdb: c.rdb, ctx: context.Background()}, nil
}

func (c *client) Close() error {
	return c.rdb.Close()
}

// --------------------------------------------------------------------------
// Connection
// --------------------------------------------------------------------------

type connection struct {
	rdb *redis.Client
	ctx context.Context
}

// wrap converts a driver error into a typed store error
func wrap(cmd string, err error) error {
	return store.WrapError(store.RetCInternalError, fmt.Sprintf("%s command failed", cmd), err)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (c *connection) Get(key string) (string, bool, error) {
	val, err := c.rdb.Get(c.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("GET", err)
	}
	return val, true, nil
}

func (c *connection) Set(key, value string) error {
	if err := c.rdb.Set(c.ctx, key, value, 0).Err(); err != nil {
		return wrap("SET", err)
	}
	return nil
}

func (c *connection) Delete(key string) error {
	if err := c.rdb.Del(c.ctx, key).Err(); err != nil {
		return wrap("DEL", err)
	}
	return nil
}

func (c *connection) IncrBy(key string, delta int32) (int32, error) {
	val, err := c.rdb.IncrBy(c.ctx, key, int64(delta)).Result()
	if err != nil {
		return 0, wrap("INCRBY", err)
	}
	return counterValue(key, val)
}

// counterValue narrows a redis counter to the 32 bit store contract
func counterValue(key string, val int64) (int32, error) {
	if val > math.MaxInt32 || val < math.MinInt32 {
		return 0, store.NewError(store.RetCInvalidOperation,
			fmt.Sprintf("counter at key %q is out of range (%d)", key, val))
	}
	return int32(val), nil
}

func (c *connection) Exists(key string) (bool, error) {
	n, err := c.rdb.Exists(c.ctx, key).Result()
	if err != nil {
		return false, wrap("EXISTS", err)
	}
	return n > 0, nil
}

func (c *connection) ListPush(key, value string) (int32, error) {
	n, err := c.rdb.LPush(c.ctx, key, value).Result()
	if err != nil {
		return 0, wrap("LPUSH", err)
	}
	return int32(n), nil
}

func (c *connection) ListRange(key string, start, stop int32) ([]string, error) {
	values, err := c.rdb.LRange(c.ctx, key, int64(start), int64(stop)).Result()
	if err != nil {
		return nil, wrap("LRANGE", err)
	}
	return values, nil
}

func (c *connection) ListRemove(key, value string) (int32, error) {
	n, err := c.rdb.LRem(c.ctx, key, 0, value).Result()
	if err != nil {
		return 0, wrap("LREM", err)
	}
	return int32(n), nil
}

func (c *connection) SetAdd(key, value string) (int32, error) {
	// the mutation and the cardinality read are pipelined so the pair costs
	// a single round trip
	pipe := c.rdb.TxPipeline()
	pipe.SAdd(c.ctx, key, value)
	card := pipe.SCard(c.ctx, key)
	if _, err := pipe.Exec(c.ctx); err != nil {
		return 0, wrap("SADD", err)
	}
	return int32(card.Val()), nil
}

func (c *connection) SetRemove(key, value string) (int32, error) {
	pipe := c.rdb.TxPipeline()
	pipe.SRem(c.ctx, key, value)
	card := pipe.SCard(c.ctx, key)
	if _, err := pipe.Exec(c.ctx); err != nil {
		return 0, wrap("SREM", err)
	}
	return int32(card.Val()), nil
}

func (c *connection) SetUnion(keys ...string) ([]string, error) {
	values, err := c.rdb.SUnion(c.ctx, keys...).Result()
	if err != nil {
		return nil, wrap("SUNION", err)
	}
	return values, nil
}

func (c *connection) SetIntersect(keys ...string) ([]string, error) {
	values, err := c.rdb.SInter(c.ctx, keys...).Result()
	if err != nil {
		return nil, wrap("SINTER", err)
	}
	return values, nil
}

func (c *connection) SetMembers(key string) ([]string, error) {
	values, err := c.rdb.SMembers(c.ctx, key).Result()
	if err != nil {
		return nil, wrap("SMEMBERS", err)
	}
	return values, nil
}

func (c *connection) Close() error {
	// logical connection on top of the driver pool, nothing to release
	return nil
}
