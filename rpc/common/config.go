package common

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Shared socket configuration
// --------------------------------------------------------------------------

// SocketConf holds buffer settings shared by socket based transports
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific tuning options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// --------------------------------------------------------------------------
// Service configuration struct
// --------------------------------------------------------------------------

// ServerTransportConfig holds the transport settings of the service
type ServerTransportConfig struct {
	SocketConf
	TCPConf

	// MaxWorkersPerConn limits how many requests of a single
	// connection may be processed concurrently
	MaxWorkersPerConn int
}

// ServerConfig holds all configuration parameters for the gateway service.
type ServerConfig struct {
	// The address on which the service listens
	// (e.g. "0.0.0.0:8080" or "/tmp/kvgate.sock")
	Endpoint string

	// Backend selects the store backend used for configured actors
	// (one of "redis", "memory", "bolt")
	Backend string

	// DataDir is the directory used by file backed store backends
	DataDir string

	// Actors preconfigures actor identities at startup.
	// Maps actor identity to the backend connection URL.
	Actors map[string]string

	// Request timeout
	TimeoutSecond int64

	// Logging configuration
	LogLevel string

	// Transport settings
	Transport ServerTransportConfig
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Service settings
	addSection("Gateway Service")
	addField("Endpoint", c.Endpoint)
	addField("Backend", c.Backend)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Preconfigured actors
	if len(c.Actors) > 0 {
		addSection("Preconfigured Actors")

		// Sort keys for consistent output
		var keys []string
		for k := range c.Actors {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			addField(k, c.Actors[k])
		}
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig holds the transport settings of the client
type ClientTransportConfig struct {
	SocketConf
	TCPConf

	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
}

// ClientConfig holds all configuration parameters for the gateway client.
type ClientConfig struct {
	// Actor is the actor identity the client speaks as
	Actor string

	TimeoutSecond int

	Transport ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Actor", c.Actor)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
