package janitor

import (
	"errors"
	"fmt"
)

// ErrRunActive is returned when a run is triggered while another run is
// already active. Triggers are coalesced, never run in parallel.
var ErrRunActive = errors.New("a cleanup run is already active")

// ConnectivityError means the store was unreachable. Connectivity errors are
// retryable; persistent connectivity failure before any entity is processed
// makes the whole run Failed.
type ConnectivityError struct {
	Backend   string // Store backend ("sqlite", "memory", ...)
	Operation string // Operation that failed ("ping", "fetch", "apply", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("store unreachable [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConnectivityError) Unwrap() error {
	return e.Cause
}

// NewConnectivityError creates a new ConnectivityError.
func NewConnectivityError(backend, operation string, cause error) *ConnectivityError {
	return &ConnectivityError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// NotFoundError means the entity vanished between enumeration and action.
// Non-retryable: the entity is treated as already clean.
type NotFoundError struct {
	EntityID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %q not found", e.EntityID)
}

// PolicyViolationError means malformed entity data prevented evaluation
// (e.g. an unparseable expiry annotation). The entity is logged and skipped;
// the run continues.
type PolicyViolationError struct {
	EntityID string
	Reason   string
}

// Error implements the error interface.
func (e *PolicyViolationError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("policy violation [entity=%s]: %s", e.EntityID, e.Reason)
	}
	return fmt.Sprintf("policy violation: %s", e.Reason)
}

// ExecutionError means an action was attempted and rejected by the store.
// Retried bounded when the cause is retryable, then recorded as failed.
type ExecutionError struct {
	EntityID string
	Action   Action
	Cause    error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error [entity=%s, action=%s]: %v", e.EntityID, e.Action, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewExecutionError creates a new ExecutionError.
func NewExecutionError(entityID string, action Action, cause error) *ExecutionError {
	return &ExecutionError{
		EntityID: entityID,
		Action:   action,
		Cause:    cause,
	}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRetryable reports whether err is worth retrying. Only connectivity
// errors are retryable; everything else fails immediately.
func IsRetryable(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}
