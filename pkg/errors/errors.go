package errors

import "fmt"

// ErrorType classifies checkpoint failures for logging
type ErrorType string

const (
	// ErrorTypeCorrupt means the checkpoint file exists but cannot be decoded
	ErrorTypeCorrupt ErrorType = "corrupt"
	// ErrorTypeStorage means an existence check, read, or write failed for
	// an environmental reason (permissions, disk full, ...)
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeEncode means the snapshot could not be serialized
	ErrorTypeEncode ErrorType = "encode"
	// ErrorTypeProvider means the snapshot provider itself failed
	ErrorTypeProvider ErrorType = "provider"
)

// Error wraps a failure with its classification and the operation that
// produced it. The checkpoint core never returns these to callers; they
// exist so log entries carry a stable error_type field.
type Error struct {
	Type ErrorType
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error during %s", e.Type, e.Op)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Type, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error
func New(errorType ErrorType, op string, err error) *Error {
	return &Error{Type: errorType, Op: op, Err: err}
}

// IsRecoverable reports whether the failure leaves the process able to
// continue working. Every type here is recoverable: restore falls back to
// initial data and save is retried on the next checkpoint interval.
func IsRecoverable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeCorrupt, ErrorTypeStorage, ErrorTypeEncode, ErrorTypeProvider:
		return true
	default:
		return false
	}
}
