package client

import (
	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
	"github.com/kvgate/kvgate/rpc/transport"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IGatewayClient is the typed client for the kvgate service. All methods
// execute under the actor identity set in the client configuration.
type IGatewayClient interface {
	// Configure binds the target actor to a store handle created from the
	// given connection parameters. The service accepts this call only from
	// the system actor.
	Configure(targetActor string, params map[string]string) error

	// Set stores the value under the key
	Set(key, value string) error
	// Get returns the value stored under the key and whether it was found
	Get(key string) (value string, found bool, err error)
	// Add increments the numeric value under the key by delta and returns
	// the value after the increment
	Add(key string, delta int32) (int32, error)
	// Del removes the key regardless of its type
	Del(key string) error
	// Exists reports whether the key is present
	Exists(key string) (bool, error)

	// Push prepends the value to the list under the key and returns the
	// list length after the push
	Push(key, value string) (int32, error)
	// Range returns the inclusive index range of the list under the key,
	// negative indices address from the tail
	Range(key string, start, stop int32) ([]string, error)
	// ListDelItem removes every occurrence of the value from the list and
	// returns the number of removed elements
	ListDelItem(key, value string) (int32, error)
	// Clear removes the list under the key
	Clear(key string) error

	// SetAdd inserts the member into the set under the key and returns the
	// member count after the insertion
	SetAdd(key, member string) (int32, error)
	// SetRemove removes the member from the set under the key and returns
	// the member count after the removal
	SetRemove(key, member string) (int32, error)
	// SetUnion returns the deduplicated union of the sets under the keys
	SetUnion(keys ...string) ([]string, error)
	// SetIntersect returns the intersection of the sets under the keys
	SetIntersect(keys ...string) ([]string, error)
	// SetQuery returns all members of the set under the key
	SetQuery(key string) ([]string, error)

	// Close closes the underlying transport
	Close() error
}

// --------------------------------------------------------------------------
// Factory Method
// --------------------------------------------------------------------------

// NewGatewayClient creates a new gateway client
// The function takes a config, a transport and a serializer as parameters
func NewGatewayClient(
	config common.ClientConfig,
	transport transport.IClientTransport,
	serializer serializer.ISerializer,
) (IGatewayClient, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	c := gatewayClient{
		clientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	return &c, nil
}

type gatewayClient struct {
	clientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IGatewayClient)
// --------------------------------------------------------------------------

func (c *gatewayClient) Configure(targetActor string, params map[string]string) error {
	req := common.NewConfigureRequest(targetActor, params)
	_, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	return err
}

func (c *gatewayClient) Set(key, value string) error {
	req := common.NewSetRequest(key, value)
	_, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	return err
}

func (c *gatewayClient) Get(key string) (string, bool, error) {
	req := common.NewGetRequest(key)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return "", false, err
	}
	return resp.Value, resp.Exists, nil
}

func (c *gatewayClient) Add(key string, delta int32) (int32, error) {
	req := common.NewAddRequest(key, delta)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *gatewayClient) Del(key string) error {
	req := common.NewDelRequest(key)
	_, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	return err
}

func (c *gatewayClient) Exists(key string) (bool, error) {
	req := common.NewKeyExistsRequest(key)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return false, err
	}
	return resp.Exists, nil
}

func (c *gatewayClient) Push(key, value string) (int32, error) {
	req := common.NewListPushRequest(key, value)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *gatewayClient) Range(key string, start, stop int32) ([]string, error) {
	req := common.NewListRangeRequest(key, start, stop)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *gatewayClient) ListDelItem(key, value string) (int32, error) {
	req := common.NewListDelItemRequest(key, value)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *gatewayClient) Clear(key string) error {
	req := common.NewListClearRequest(key)
	_, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	return err
}

func (c *gatewayClient) SetAdd(key, member string) (int32, error) {
	req := common.NewSetAddRequest(key, member)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *gatewayClient) SetRemove(key, member string) (int32, error) {
	req := common.NewSetRemoveRequest(key, member)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *gatewayClient) SetUnion(keys ...string) ([]string, error) {
	req := common.NewSetUnionRequest(keys)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *gatewayClient) SetIntersect(keys ...string) ([]string, error) {
	req := common.NewSetIntersectRequest(keys)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *gatewayClient) SetQuery(key string) ([]string, error) {
	req := common.NewSetQueryRequest(key)
	resp, err := invoke(c.config.Actor, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *gatewayClient) Close() error {
	return c.transport.Close()
}
