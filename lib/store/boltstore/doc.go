// Package boltstore implements a durable single-node store backend on top of
// bolt. Values are stored as gob-encoded tagged records in a single bucket;
// every store command runs in its own transaction. The backend is intended
// for deployments that want per-actor durable state without running a
// separate store server.
package boltstore
