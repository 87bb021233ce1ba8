// Package testing provides a shared conformance test suite for store
// backends. Backend packages call RunStoreTests from their own tests so that
// every implementation is held to the same operation semantics (type
// discipline, idempotent deletes, list indexing, set cardinality).
package testing
