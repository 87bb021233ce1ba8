package client

import (
	"fmt"

	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
	"github.com/kvgate/kvgate/rpc/transport"
)

var (
	Logger = common.GetLogger("client")
)

// clientAdapter stores all data needed for a gateway client implementation
type clientAdapter struct {
	config     common.ClientConfig
	transport  transport.IClientTransport
	serializer serializer.ISerializer
}

// invoke is a helper function used by the gateway client to send requests
// It serializes the request, sends it under the client's actor identity and
// the request's operation name, and deserializes the response
// This method also checks if the response is an error response and if the
// opcode of the response matches the request
func invoke(actor string, req *common.Message, t transport.IClientTransport, s serializer.ISerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := s.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := t.Send(actor, req.Op.String(), reqBytes)
	if err != nil {
		return nil, err
	}

	// An empty payload is a bare acknowledgement
	if len(respBytes) == 0 {
		return &common.Message{Op: req.Op}, nil
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := s.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("gateway client - error: %s", err)
	}

	// Check if the response is an error response
	if resp.Op == common.OpError || resp.Err != "" {
		return nil, fmt.Errorf("gateway client - error: %s", resp.Err)
	}

	// Check if the opcode of the response matches the request
	if resp.Op != req.Op {
		return nil, fmt.Errorf("gateway client - unexpected opcode: %s, expected %s", resp.Op, req.Op)
	}

	// Return the response
	return resp, nil
}
