// Package transport defines the interfaces and abstractions for communication
// between hosts and the kvgate dispatch layer. It provides a common contract
// that all transport implementations must fulfill, enabling protocol-agnostic
// communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Carrying the caller's actor identity and operation name with every request
//   - Enabling multiple transport implementations (HTTP, TCP, Unix sockets)
//
// Key Components:
//
//   - IClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IServerTransport: Interface for server-side transport implementations that
//     receives requests and routes them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
