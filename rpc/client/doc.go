// Package client implements the typed gateway client for kvgate. It provides
// an implementation of the IGatewayClient interface that communicates with a
// remote gateway service via the transport layer.
//
// The package focuses on:
//   - Transparent remote access to the key-value operation catalog
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between wire and domain errors
//
// Key Components:
//
//   - NewGatewayClient: Factory function that creates a client implementing
//     the IGatewayClient interface. The client forwards all operations to the
//     remote service under the actor identity from its configuration.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Actor:         "my-actor",
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create the client
//	kv, _ := client.NewGatewayClient(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//
//	// Use the store
//	kv.Set("mykey", "myvalue")
//	value, exists, _ := kv.Get("mykey")
//
// Performance Considerations:
//
//   - For applications that frequently send large payloads, increasing
//     ConnectionsPerEndpoint can improve throughput by allowing parallel
//     requests.
//
//   - For small messages, a single connection per endpoint is often more
//     efficient due to reduced connection overhead.
//
//   - The choice of serializer significantly affects performance. The binary
//     serializer provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	The client implementation is thread-safe and can be used concurrently
//	from multiple goroutines without additional synchronization.
package client
