// Package http implements an HTTP-based transport layer for kvgate's host
// communication. It provides concrete implementations of the transport
// interfaces defined in the parent package, enabling communication between
// hosts and the dispatch service over HTTP.
//
// The package focuses on:
//   - Client-side HTTP transport for sending requests to the service
//   - Server-side HTTP transport for receiving and handling requests
//   - Round-robin load balancing across multiple server endpoints
//   - Request routing based on actor identity and operation name in the URL
//
// Key Components:
//
//   - httpClientTransport: Implements the IClientTransport interface, managing
//     connections to server endpoints, handling request routing, and
//     implementing retry mechanisms. It uses round-robin selection for load
//     balancing across multiple server endpoints.
//
//   - httpServerTransport: Implements the IServerTransport interface, setting
//     up an HTTP server that routes incoming requests to the registered
//     handler based on the actor and operation specified in the URL path.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter to ensure thread safety
//	when selecting server endpoints.
package http
