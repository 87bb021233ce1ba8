// Package cmd implements the command-line interface for kvgate. It provides
// a hierarchical command structure with operations for running the service
// and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, set, push, sadd, etc.)
//   - serve: Commands for starting and configuring the kvgate service
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See kvgate -help for a list of all commands.
package cmd
