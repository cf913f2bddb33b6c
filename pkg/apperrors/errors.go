package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed input. It carries every violated rule,
// not just the first one found.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidation creates a ValidationError from one or more violations
func NewValidation(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// NotFoundError reports a missing entity
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%v", id)}
}

// ConflictError reports a uniqueness or consistency conflict, such as a
// duplicate SKU or a category move that would introduce a cycle
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict creates a ConflictError
func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// StateError reports an operation that is invalid for the entity's current state
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// NewState creates a StateError
func NewState(format string, args ...interface{}) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}

// TimeoutError reports a stalled operation detected by the reaper
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	return e.Message
}

// NewTimeout creates a TimeoutError
func NewTimeout(format string, args ...interface{}) *TimeoutError {
	return &TimeoutError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsState reports whether err is a StateError
func IsState(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is a TimeoutError
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}
