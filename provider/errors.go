package provider

import (
	"fmt"

	"github.com/kvgate/kvgate/rpc/common"
)

// --------------------------------------------------------------------------
// Error Taxonomy
// --------------------------------------------------------------------------

// ErrCode classifies dispatch failures.
type ErrCode uint8

const (
	// ErrCConfiguration indicates an actor without a registered handle or a
	// malformed configuration payload.
	ErrCConfiguration ErrCode = iota + 1
	// ErrCProtocol indicates an unsupported operation code or a payload that
	// fails to decode into the expected request shape.
	ErrCProtocol
	// ErrCStore indicates a failed backing-store command (network,
	// type-mismatch, store-level protocol error).
	ErrCStore
)

func (c ErrCode) String() string {
	switch c {
	case ErrCConfiguration:
		return "ConfigurationError"
	case ErrCProtocol:
		return "ProtocolError"
	case ErrCStore:
		return "StoreOperationError"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the typed failure result of a dispatch call. The underlying cause
// (if any) is preserved and reported to the host verbatim.
type Error struct {
	Code  ErrCode // The error classification
	Msg   string  // The error message
	Cause error   // The underlying cause (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --------------------------------------------------------------------------
// Factory Functions
// --------------------------------------------------------------------------

// newConfigurationError creates a configuration error without a cause
func newConfigurationError(format string, args ...interface{}) *Error {
	return &Error{
		Code: ErrCConfiguration,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// wrapConfigurationError creates a configuration error preserving the cause
func wrapConfigurationError(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Code:  ErrCConfiguration,
		Msg:   fmt.Sprintf(format, args...),
		Cause: cause,
	}
}

// newProtocolError creates a protocol error without a cause
func newProtocolError(format string, args ...interface{}) *Error {
	return &Error{
		Code: ErrCProtocol,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// wrapProtocolError creates a protocol error preserving the cause
func wrapProtocolError(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Code:  ErrCProtocol,
		Msg:   fmt.Sprintf(format, args...),
		Cause: cause,
	}
}

// wrapStoreError creates a store operation error for the given operation,
// preserving the underlying cause
func wrapStoreError(op common.OpCode, cause error) *Error {
	return &Error{
		Code:  ErrCStore,
		Msg:   fmt.Sprintf("%s operation failed", op),
		Cause: cause,
	}
}
