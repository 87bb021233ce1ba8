// Package memstore implements an in-process store backend on top of a
// concurrent map. Each client handle owns an isolated keyspace; mutations are
// applied through atomic compute operations that replace entries wholesale,
// so concurrent readers never observe partial updates.
//
// The backend enforces the same type discipline as the production backend:
// applying a list or set operation to a key holding a different kind of value
// fails with a typed store error instead of coercing the value.
//
// memstore is intended for local development and as the hermetic test double
// for the dispatch layer; it makes no attempt to bound memory usage.
package memstore
