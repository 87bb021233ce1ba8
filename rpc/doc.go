// Package rpc provides the communication framework of kvgate. It acts as the
// boundary between hosts and the dispatch layer, enabling key-value
// operations across process and network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options
//     (Binary, JSON, GOB) for converting between Message objects and byte
//     arrays.
//
//   - client: The typed gateway client, allowing applications to interact
//     with a remote kvgate service transparently.
//
//   - service: The gateway service that wires a transport, a serializer and
//     the dispatch provider into a runnable server.
package rpc
