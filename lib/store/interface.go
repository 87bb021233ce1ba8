package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ConnectionParams holds actor-scoped connection parameters as produced by a
// configuration operation (e.g. the target "URL" of the backing store).
type ConnectionParams map[string]string

// URL returns the connection URL parameter ("" if unset).
func (p ConnectionParams) URL() string {
	return p["URL"]
}

// Factory is a function type that creates a new client handle from connection
// parameters. This is used to abstract the creation of the backing store
// client from the dispatch layer.
type Factory func(params ConnectionParams) (IClient, error)

// IClient is a long-lived, reusable handle bound to one actor's
// configuration. It does not hold an open connection itself; each Connect
// call yields a new logical connection. Any pooling or reuse behind Connect
// is the implementation's business and opaque to callers.
type IClient interface {
	// Connect produces a fresh connection to the backing store.
	Connect() (IConnection, error)
	// Close releases the handle and any resources shared by its connections.
	Close() error
}

// IConnection is a transient connection owned by a single operation
// invocation. All write operations return the operation's result along with
// an error (nil on success).
//
// Numeric and collection results are int32 sized to match the wire contract.
type IConnection interface {
	// Get returns the value for a key. The boolean return value indicates
	// whether the key was found. A read failure is an error, never a
	// not-found result.
	Get(key string) (value string, found bool, err error)
	// Set inserts or updates a key-value pair.
	Set(key, value string) (err error)
	// Delete removes a key-value pair. Deleting a nonexistent key is not an
	// error.
	Delete(key string) (err error)
	// IncrBy atomically increments the numeric value stored at key by delta
	// and returns the new value. A key holding a non-numeric value is an
	// error.
	IncrBy(key string, delta int32) (value int32, err error)
	// Exists returns whether a key exists, regardless of its type.
	Exists(key string) (found bool, err error)

	// ListPush prepends a value to the list at key and returns the new
	// element count.
	ListPush(key, value string) (newCount int32, err error)
	// ListRange returns the elements within the inclusive index range
	// [start, stop]. Negative indices count from the end of the list.
	ListRange(key string, start, stop int32) (values []string, err error)
	// ListRemove removes all occurrences of value from the list at key and
	// returns the number of removed elements.
	ListRemove(key, value string) (removed int32, err error)

	// SetAdd adds a member to the set at key and returns the member count
	// after the mutation.
	SetAdd(key, value string) (newCount int32, err error)
	// SetRemove removes a member from the set at key and returns the member
	// count after the mutation.
	SetRemove(key, value string) (newCount int32, err error)
	// SetUnion returns the union of the sets stored at keys. Order is not
	// guaranteed, duplicates are eliminated.
	SetUnion(keys ...string) (values []string, err error)
	// SetIntersect returns the intersection of the sets stored at keys.
	SetIntersect(keys ...string) (values []string, err error)
	// SetMembers returns all members of the set at key.
	SetMembers(key string) (values []string, err error)

	// Close releases the connection.
	Close() error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the underlying cause.
type Error struct {
	Code  RetCode // The return code
	Msg   string  // The error message
	Cause error   // The underlying cause (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	case RetCWrongType:
		errorCode = "WrongType"
	case RetCConnection:
		errorCode = "Connection"
	default:
		errorCode = "Unknown"
	}

	if e.Cause != nil {
		return fmt.Sprintf("StoreError (code %s): %s: %v", errorCode, e.Msg, e.Cause)
	}
	return fmt.Sprintf("StoreError (code %s): %s", errorCode, e.Msg)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new store Error wrapping the given cause.
func WrapError(code RetCode, msg string, cause error) *Error {
	return &Error{
		Code:  code,
		Msg:   msg,
		Cause: cause,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation for the stored value.
	RetCWrongType                       // 3: Operation applied to a value of the wrong type.
	RetCConnection                      // 4: Connection to the backing store failed.
)
