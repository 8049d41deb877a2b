package app

import (
	"errors"
	"fmt"

	"github.com/imagej/ijc/internal/server"
)

// Error is the shared structured error type for transport failures.
// It is an alias for server.Error so a single definition is used across
// the app and server packages.
type Error = server.Error

// MissingContextError reports an image-reference parameter opened without
// an active object. The user must select an object first.
type MissingContextError struct {
	Param string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("no active image selected (required by %q)", e.Param)
}

// MalformedPayloadError reports input text that cannot be turned into a
// request value: raw-override text that is not JSON, or non-numeric
// spinner text.
type MalformedPayloadError struct {
	Param string
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed value for %q: %v", e.Param, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// UploadError reports a dependent file upload that failed.
type UploadError struct {
	Param string
	Path  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s for %q failed: %v", e.Path, e.Param, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ModuleNotFoundError reports a menu command with no matching module.
type ModuleNotFoundError struct {
	Command string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("no corresponding module found for command %q", e.Command)
}

// ExecutionError is a server-side failure while running a module. Message
// is the server's text, surfaced verbatim.
type ExecutionError struct {
	Module  string
	Status  int
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("execution of %s failed (HTTP %d): %s", e.Module, e.Status, e.Message)
	}
	return fmt.Sprintf("execution of %s failed: %s", e.Module, e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// InvalidDescriptorError reports module metadata the client cannot use.
type InvalidDescriptorError struct {
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	return "invalid module metadata: " + e.Reason
}

// newExecutionError wraps a client failure for module rawID.
func newExecutionError(rawID string, err error) error {
	var httpErr *server.HTTPError
	if errors.As(err, &httpErr) {
		return &ExecutionError{
			Module:  rawID,
			Status:  httpErr.StatusCode,
			Message: serverText(httpErr),
			Err:     err,
		}
	}
	return &ExecutionError{Module: rawID, Message: err.Error(), Err: err}
}

func serverText(e *server.HTTPError) string {
	if e.Body != "" {
		return e.Body
	}
	return e.Status
}

// IsRecoverable reports whether err belongs to the submission-boundary
// taxonomy: the session keeps going and the user sees a message.
func IsRecoverable(err error) bool {
	var (
		mc *MissingContextError
		mp *MalformedPayloadError
		up *UploadError
		nf *ModuleNotFoundError
		ex *ExecutionError
	)
	return errors.As(err, &mc) || errors.As(err, &mp) || errors.As(err, &up) ||
		errors.As(err, &nf) || errors.As(err, &ex)
}
