package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the operation of the message.
type Message struct {
	// Operation this message belongs to
	Op OpCode `json:"op"`

	// General request fields
	Key   string   `json:"key,omitempty"`   // Used for: all single-key operations
	Value string   `json:"value,omitempty"` // Used for: Set, Add (as string), list and set mutations
	Keys  []string `json:"keys,omitempty"`  // Used for: SetUnion, SetIntersect requests
	Delta int32    `json:"delta,omitempty"` // Used for: Add requests
	Start int32    `json:"start,omitempty"` // Used for: ListRange requests
	Stop  int32    `json:"stop,omitempty"`  // Used for: ListRange requests

	// Configuration fields (Configure requests only)
	Module string            `json:"module,omitempty"` // Actor identity to configure
	Params map[string]string `json:"params,omitempty"` // Connection parameters

	// Response only fields
	Values []string `json:"values,omitempty"` // Used for: ListRange, SetUnion, SetIntersect, SetQuery responses
	Count  int32    `json:"count,omitempty"`  // Used for: Add, ListPush, ListDelItem, SetAdd, SetRemove responses
	Exists bool     `json:"exists,omitempty"` // Used for: Get, KeyExists responses
	Err    string   `json:"err,omitempty"`    // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewConfigureRequest creates a new Configure request
func NewConfigureRequest(module string, params map[string]string) *Message {
	return &Message{
		Op:     OpConfigure,
		Module: module,
		Params: params,
	}
}

// NewConfigureResponse creates a new Configure response
func NewConfigureResponse(err error) *Message {
	msg := &Message{Op: OpConfigure}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewAddRequest creates a new Add request
func NewAddRequest(key string, delta int32) *Message {
	return &Message{
		Op:    OpAdd,
		Key:   key,
		Delta: delta,
	}
}

// NewAddResponse creates a new Add response carrying the new value
func NewAddResponse(value int32) *Message {
	return &Message{
		Op:    OpAdd,
		Count: value,
	}
}

// NewDelRequest creates a new Del request
func NewDelRequest(key string) *Message {
	return &Message{
		Op:  OpDel,
		Key: key,
	}
}

// NewDelResponse creates a new Del response carrying the deleted key name
func NewDelResponse(key string) *Message {
	return &Message{
		Op:  OpDel,
		Key: key,
	}
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		Op:  OpGet,
		Key: key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value string, exists bool) *Message {
	return &Message{
		Op:     OpGet,
		Value:  value,
		Exists: exists,
	}
}

// NewListClearRequest creates a new ListClear request
func NewListClearRequest(key string) *Message {
	return &Message{
		Op:  OpListClear,
		Key: key,
	}
}

// NewListRangeRequest creates a new ListRange request
func NewListRangeRequest(key string, start, stop int32) *Message {
	return &Message{
		Op:    OpListRange,
		Key:   key,
		Start: start,
		Stop:  stop,
	}
}

// NewListRangeResponse creates a new ListRange response
func NewListRangeResponse(values []string) *Message {
	return &Message{
		Op:     OpListRange,
		Values: values,
	}
}

// NewListPushRequest creates a new ListPush request
func NewListPushRequest(key, value string) *Message {
	return &Message{
		Op:    OpListPush,
		Key:   key,
		Value: value,
	}
}

// NewListResponse creates a new response for list mutations carrying the new count
func NewListResponse(op OpCode, newCount int32) *Message {
	return &Message{
		Op:    op,
		Count: newCount,
	}
}

// NewSetRequest creates a new Set request
func NewSetRequest(key, value string) *Message {
	return &Message{
		Op:    OpSet,
		Key:   key,
		Value: value,
	}
}

// NewSetResponse creates a new Set response echoing the stored value
func NewSetResponse(value string) *Message {
	return &Message{
		Op:    OpSet,
		Value: value,
	}
}

// NewListDelItemRequest creates a new ListDelItem request
func NewListDelItemRequest(key, value string) *Message {
	return &Message{
		Op:    OpListDelItem,
		Key:   key,
		Value: value,
	}
}

// NewSetAddRequest creates a new SetAdd request
func NewSetAddRequest(key, value string) *Message {
	return &Message{
		Op:    OpSetAdd,
		Key:   key,
		Value: value,
	}
}

// NewSetRemoveRequest creates a new SetRemove request
func NewSetRemoveRequest(key, value string) *Message {
	return &Message{
		Op:    OpSetRemove,
		Key:   key,
		Value: value,
	}
}

// NewSetOperationResponse creates a new response for set mutations carrying the member count
func NewSetOperationResponse(op OpCode, newCount int32) *Message {
	return &Message{
		Op:    op,
		Count: newCount,
	}
}

// NewSetUnionRequest creates a new SetUnion request
func NewSetUnionRequest(keys []string) *Message {
	return &Message{
		Op:   OpSetUnion,
		Keys: keys,
	}
}

// NewSetIntersectRequest creates a new SetIntersect request
func NewSetIntersectRequest(keys []string) *Message {
	return &Message{
		Op:   OpSetIntersect,
		Keys: keys,
	}
}

// NewSetQueryRequest creates a new SetQuery request
func NewSetQueryRequest(key string) *Message {
	return &Message{
		Op:  OpSetQuery,
		Key: key,
	}
}

// NewSetQueryResponse creates a new response carrying set members
func NewSetQueryResponse(op OpCode, values []string) *Message {
	return &Message{
		Op:     op,
		Values: values,
	}
}

// NewKeyExistsRequest creates a new KeyExists request
func NewKeyExistsRequest(key string) *Message {
	return &Message{
		Op:  OpKeyExists,
		Key: key,
	}
}

// NewKeyExistsResponse creates a new KeyExists response
func NewKeyExistsResponse(exists bool) *Message {
	return &Message{
		Op:     OpKeyExists,
		Exists: exists,
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		Op:  OpError,
		Err: err,
	}
}

// --------------------------------------------------------------------------
// OpCode Definition
// --------------------------------------------------------------------------

// OpCode identifies the operation a Message belongs to.
type OpCode uint8

// String returns the wire name of an OpCode.
func (o OpCode) String() string {
	switch o {
	case OpConfigure:
		return "Configure"
	case OpAdd:
		return "Add"
	case OpDel:
		return "Del"
	case OpGet:
		return "Get"
	case OpListClear:
		return "Clear"
	case OpListRange:
		return "Range"
	case OpListPush:
		return "Push"
	case OpSet:
		return "Set"
	case OpListDelItem:
		return "ListItemDelete"
	case OpSetAdd:
		return "SetAdd"
	case OpSetRemove:
		return "SetRemove"
	case OpSetUnion:
		return "SetUnion"
	case OpSetIntersect:
		return "SetIntersection"
	case OpSetQuery:
		return "SetQuery"
	case OpKeyExists:
		return "KeyExists"
	case OpError:
		return "error"
	case OpSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ParseOpCode converts a wire name into an OpCode.
// It returns an error for names outside the fixed operation catalog.
func ParseOpCode(s string) (OpCode, error) {
	switch s {
	case "Configure":
		return OpConfigure, nil
	case "Add":
		return OpAdd, nil
	case "Del":
		return OpDel, nil
	case "Get":
		return OpGet, nil
	case "Clear":
		return OpListClear, nil
	case "Range":
		return OpListRange, nil
	case "Push":
		return OpListPush, nil
	case "Set":
		return OpSet, nil
	case "ListItemDelete":
		return OpListDelItem, nil
	case "SetAdd":
		return OpSetAdd, nil
	case "SetRemove":
		return OpSetRemove, nil
	case "SetUnion":
		return OpSetUnion, nil
	case "SetIntersection":
		return OpSetIntersect, nil
	case "SetQuery":
		return OpSetQuery, nil
	case "KeyExists":
		return OpKeyExists, nil
	case "error":
		return OpError, nil
	case "success":
		return OpSuccess, nil
	default:
		return OpUnknown, fmt.Errorf("unknown operation code: %s", s)
	}
}

// MarshalJSON implements the json.Marshaller interface for OpCode.
// This allows OpCode to be serialized as a string in JSON.
func (o OpCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for OpCode.
// This allows OpCode to be deserialized from a string in JSON.
func (o *OpCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	op, err := ParseOpCode(s)
	if err != nil {
		return err
	}
	*o = op

	return nil
}

// --------------------------------------------------------------------------
// OpCode Constants
// --------------------------------------------------------------------------

const (
	// General message types

	OpUnknown OpCode = iota
	OpSuccess        // Indicates a successful operation
	OpError          // Indicates an error occurred

	// Configuration (reserved, actor "system" only)

	OpConfigure // Bind an actor to a backing store

	// Scalar operations

	OpAdd // Atomically increment a numeric value
	OpDel // Delete a key
	OpGet // Get a value by key
	OpSet // Set a key-value pair

	// List operations

	OpListClear   // Clear a list (delegates to Del)
	OpListRange   // Read an inclusive index range of a list
	OpListPush    // Prepend a value to a list
	OpListDelItem // Remove all occurrences of a value from a list

	// Set operations

	OpSetAdd       // Add a member to a set
	OpSetRemove    // Remove a member from a set
	OpSetUnion     // Union over a list of set keys
	OpSetIntersect // Intersection over a list of set keys
	OpSetQuery     // All members of one set

	// Existence check

	OpKeyExists // Check whether a key exists
)
