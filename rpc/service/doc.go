// Package service assembles the kvgate gateway: it wires a transport layer,
// a serializer and the dispatch provider into a runnable server.
//
// The service selects the store backend (redis, memory or bolt) from its
// configuration, preconfigures actor handles listed there and routes every
// incoming transport request through the provider's dispatch. Dispatch
// failures are serialized into error responses so the caller always receives
// an answer.
package service
