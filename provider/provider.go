package provider

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/kvgate/kvgate/lib/store"
	"github.com/kvgate/kvgate/rpc/common"
	"github.com/kvgate/kvgate/rpc/serializer"
)

// logger for this package
var logger = common.GetLogger("provider")

// SystemActor is the only caller identity allowed to issue Configure calls.
const SystemActor = "system"

// --------------------------------------------------------------------------
// Provider
// --------------------------------------------------------------------------

// Provider is the multi-tenant dispatch layer. It owns the actor registry,
// decodes request payloads, routes them to the per-operation handlers and
// encodes the responses. One Provider instance serves all actors.
type Provider struct {
	registry   *Registry
	factory    store.Factory
	serializer serializer.ISerializer
}

// New creates a Provider backed by the given store factory. The factory is
// invoked once per Configure call to create the actor's client handle; the
// serializer decodes request payloads and encodes responses.
func New(factory store.Factory, s serializer.ISerializer) *Provider {
	return &Provider{
		registry:   NewRegistry(),
		factory:    factory,
		serializer: s,
	}
}

// Registry exposes the actor registry, e.g. for preconfigured actors at
// service startup.
func (p *Provider) Registry() *Registry {
	return p.registry
}

// Close releases all registered store handles.
func (p *Provider) Close() error {
	return p.registry.Close()
}

// --------------------------------------------------------------------------
// Dispatch
// --------------------------------------------------------------------------

// Dispatch routes a single host call to its handler. The operation name is
// parsed into an opcode exactly once here; the handlers never inspect raw
// operation strings. On success the encoded response payload is returned, on
// failure a typed *Error describing the classification.
func (p *Provider) Dispatch(actor string, op string, payload []byte) ([]byte, error) {
	start := time.Now()

	opCode, err := common.ParseOpCode(op)
	if err != nil {
		dispatchFailures("unknown").Inc()
		return nil, wrapProtocolError(err, "unsupported operation for actor %s", actor)
	}

	dispatchTotal(opCode).Inc()
	logger.Debugf("dispatch actor=%s op=%s payload=%d bytes", actor, opCode, len(payload))

	resp, err := p.route(actor, opCode, payload)
	if err != nil {
		code := "internal"
		if pErr, ok := err.(*Error); ok {
			code = pErr.Code.String()
		}
		dispatchFailures(code).Inc()
		logger.Warningf("dispatch failed actor=%s op=%s: %v", actor, opCode, err)
		return nil, err
	}

	dispatchDuration(opCode).UpdateDuration(start)

	if resp == nil {
		// Configure acknowledges with an empty payload
		return []byte{}, nil
	}

	data, err := p.serializer.Serialize(*resp)
	if err != nil {
		dispatchFailures(ErrCProtocol.String()).Inc()
		return nil, wrapProtocolError(err, "failed to encode %s response", opCode)
	}
	return data, nil
}

// route decodes the request and invokes the handler for the opcode. All
// catalog operations are enumerated here; an opcode without a handler is a
// protocol error, never a silent fallthrough.
func (p *Provider) route(actor string, opCode common.OpCode, payload []byte) (*common.Message, error) {
	var req common.Message
	if err := p.serializer.Deserialize(payload, &req); err != nil {
		return nil, wrapProtocolError(err, "failed to decode %s request", opCode)
	}
	if req.Op != common.OpUnknown && req.Op != opCode {
		return nil, newProtocolError("request opcode %s does not match dispatched operation %s", req.Op, opCode)
	}

	switch opCode {
	case common.OpConfigure:
		return nil, p.configure(actor, &req)
	case common.OpAdd:
		return p.add(actor, &req)
	case common.OpDel:
		return p.del(actor, &req)
	case common.OpGet:
		return p.get(actor, &req)
	case common.OpSet:
		return p.set(actor, &req)
	case common.OpListClear:
		return p.listClear(actor, &req)
	case common.OpListRange:
		return p.listRange(actor, &req)
	case common.OpListPush:
		return p.listPush(actor, &req)
	case common.OpListDelItem:
		return p.listDelItem(actor, &req)
	case common.OpSetAdd:
		return p.setAdd(actor, &req)
	case common.OpSetRemove:
		return p.setRemove(actor, &req)
	case common.OpSetUnion:
		return p.setUnion(actor, &req)
	case common.OpSetIntersect:
		return p.setIntersect(actor, &req)
	case common.OpSetQuery:
		return p.setQuery(actor, &req)
	case common.OpKeyExists:
		return p.keyExists(actor, &req)
	default:
		return nil, newProtocolError("operation %s cannot be dispatched", opCode)
	}
}

// configure creates a store handle from the request parameters and registers
// it under the target actor. Only the system actor may call this; any other
// caller gets a recoverable configuration error.
func (p *Provider) configure(actor string, req *common.Message) error {
	if actor != SystemActor {
		return newConfigurationError("actor %s is not permitted to issue configuration calls", actor)
	}
	if req.Module == "" {
		return newConfigurationError("configuration request is missing the target actor")
	}

	client, err := p.factory(store.ConnectionParams(req.Params))
	if err != nil {
		return wrapConfigurationError(err, "failed to create store handle for actor %s", req.Module)
	}

	p.registry.Register(req.Module, client)
	logger.Infof("configured store handle for actor %s", req.Module)
	return nil
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

func dispatchTotal(op common.OpCode) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`kvgate_dispatch_total{op=%q}`, op))
}

func dispatchFailures(code string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`kvgate_dispatch_failures_total{code=%q}`, code))
}

func dispatchDuration(op common.OpCode) *metrics.Summary {
	return metrics.GetOrCreateSummary(fmt.Sprintf(`kvgate_dispatch_duration_seconds{op=%q}`, op))
}
