package platform

import (
	"fmt"
)

// CapabilityError reports that an operation requiring the native environment
// was invoked in the sandboxed environment. It is always surfaced to the
// caller, never retried, and never recovered internally.
type CapabilityError struct {
	// Op names the unsupported operation, e.g. "readFile".
	Op string
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("platform: %s is only supported in the native environment", e.Op)
}

// UnsupportedEncodingError reports an unknown encoding name passed to buffer
// construction or serialization. This is a value error, not an environment
// error: it is raised identically in both environments.
type UnsupportedEncodingError struct {
	Encoding Encoding
}

// Error implements the error interface.
func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("platform: unsupported encoding %q", string(e.Encoding))
}

// DecodeError reports that a byte or text sequence failed strict decoding,
// e.g. malformed UTF-8 under a fatal text decoder, or invalid base64 input.
type DecodeError struct {
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return "platform: decode failed"
	}
	return fmt.Sprintf("platform: decode failed: %v", e.Cause)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// PanicError wraps a panic value captured by the callback bridge.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("platform: bridged operation panicked: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error type,
// enabling [errors.Is] and [errors.As] matching through the cause chain.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
