package sdk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common SDK error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrScenarioInvalid indicates the scenario does not describe a
	// usable world.
	ErrScenarioInvalid = errors.New("invalid scenario")

	// ErrExecutionFailed indicates that a run failed to execute.
	// The underlying error should be wrapped for additional context.
	ErrExecutionFailed = errors.New("execution failed")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a resource was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindExecution represents errors that occur during a run.
	KindExecution = "execution"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindNetwork represents errors related to network operations.
	KindNetwork = "network"

	// KindInternal represents internal SDK errors.
	KindInternal = "internal"
)

// SDKError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of
// error.
//
// SDKError implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &SDKError{
//		Op:   "Explorer.Run",
//		Kind: KindExecution,
//		Err:  ErrExecutionFailed,
//	}
type SDKError struct {
	// Op is the operation that failed (e.g., "NewExplorer", "Explorer.Run").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include scenario names, run IDs, or other debugging
	// information.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error
// message that includes the operation, kind, and underlying error.
func (e *SDKError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sdk: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("sdk: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("sdk: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work correctly with wrapped errors.
func (e *SDKError) Unwrap() error {
	return e.Err
}

// Is implements error matching for SDKError, allowing comparison based
// on the underlying error or the SDKError itself.
func (e *SDKError) Is(target error) bool {
	if target == nil {
		return false
	}

	// Check if target is an SDKError with matching Kind
	if t, ok := target.(*SDKError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	// Delegate to underlying error
	return errors.Is(e.Err, target)
}

// WithContext returns a new SDKError with the provided context added.
// This is useful for adding debugging information to errors.
//
// Example:
//
//	err = err.WithContext(map[string]any{
//		"scenario": "demo-5x5",
//		"run_id":   result.RunID,
//	})
func (e *SDKError) WithContext(ctx map[string]any) *SDKError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewNotFoundError creates a new SDKError with KindNotFound.
func NewNotFoundError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindNotFound,
		Err:  err,
	}
}

// NewValidationError creates a new SDKError with KindValidation.
func NewValidationError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewExecutionError creates a new SDKError with KindExecution.
func NewExecutionError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindExecution,
		Err:  err,
	}
}

// NewConfigurationError creates a new SDKError with KindConfiguration.
func NewConfigurationError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// NewNetworkError creates a new SDKError with KindNetwork.
func NewNetworkError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindNetwork,
		Err:  err,
	}
}

// NewInternalError creates a new SDKError with KindInternal.
func NewInternalError(op string, err error) *SDKError {
	return &SDKError{
		Op:   op,
		Kind: KindInternal,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any
// error at warning level. This is intended for use in defer statements
// to ensure cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "memory log", "registry client"). If logger is nil, slog.Default() is
// used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
