// Package common contains the data structures shared across the rpc layer:
// the Message protocol with its fixed operation catalog (OpCode), the server
// and client configuration structures, and the leveled logging facility used
// by all networking components.
package common
