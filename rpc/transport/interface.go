package transport

import (
	"github.com/kvgate/kvgate/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the caller's actor identity, the operation name and the request
// payload as parameters and returns a response
type ServerHandleFunc func(actor string, op string, req []byte) (resp []byte)

// IServerTransport is the interface for the server-side transport layer
// It must accept a ServerConfig as a parameter
type IServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	// The transport layer is responsible for passing the actor identity and
	// operation name through to the handler untouched
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests
	Listen(config common.ServerConfig) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IClientTransport is the interface for the client-side transport layer
type IClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response
	Send(actor string, op string, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
