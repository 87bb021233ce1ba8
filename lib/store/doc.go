// Package store defines the boundary between the dispatch layer and the
// backing key-value store. A Factory turns actor-scoped connection parameters
// into a long-lived IClient handle; each handle yields transient IConnection
// instances that are owned by a single operation invocation.
//
// The package focuses on:
//   - A unified connection interface (IConnection) covering the fixed
//     operation catalog (scalar, list, set and existence operations)
//   - Pluggable backends through the Factory pattern
//   - A structured error system using typed return codes
//
// Implementations:
//
//	The module includes three implementations of the interfaces:
//
//	- Redis (redisstore): the production backend, driven by go-redis. Each
//	  actor handle wraps its own client with the driver's internal pooling.
//	  Available in the "github.com/kvgate/kvgate/lib/store/redisstore" package.
//
//	- In-process (memstore): a hermetic backend holding typed entries in a
//	  sharded concurrent map. Used for local development and as the test
//	  double for the dispatch layer.
//	  Available in the "github.com/kvgate/kvgate/lib/store/memstore" package.
//
//	- File backed (boltstore): a durable single-node backend on top of bolt,
//	  storing gob-encoded entries in one bucket per handle.
//	  Available in the "github.com/kvgate/kvgate/lib/store/boltstore" package.
package store
