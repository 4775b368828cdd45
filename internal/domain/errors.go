package domain

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError means no authenticated Linear client is available for a call.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication required: no Linear credentials available"
	}
	return "authentication required: " + e.Reason
}

// ValidationError reports missing required fields or badly shaped
// arguments. Fields lists the offending argument names, if any.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// NewMissingFieldsError builds the error returned by presence checks.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NewInvalidFieldError builds the error returned by shape checks.
func NewInvalidFieldError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Fields:  []string{field},
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFoundError means a lookup that must match one issue matched none.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("issue not found: %s", e.Identifier)
}

// BackendError means Linear answered but reported failure or omitted the
// expected payload.
type BackendError struct {
	Operation string
	Reason    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
}

// OperationError annotates a failure with the tool operation it came from.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// WrapOperation annotates err with op. A nil err stays nil.
func WrapOperation(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Op == op {
		return err
	}
	return &OperationError{Op: op, Err: err}
}
