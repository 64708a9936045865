// Package errors holds the typed errors shared by the registry, the hub
// client, the CLI and the HTTP API. The lookup, input, configuration and API
// errors answer errors.Is for the sentinels below, so callers can branch on
// the kind of failure without knowing the concrete type.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Standard library helpers, re-exported so callers need one errors import.
var (
	New  = errors.New
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Sentinels matched by the typed errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConfiguration      = errors.New("configuration error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimited        = errors.New("rate limited")

	// ErrUnverified is returned by strict verification when identifiers
	// did not resolve on the hub.
	ErrUnverified = errors.New("unverified identifiers")
)

// NotFoundError reports a lookup of an unknown model, family or hub repo.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError returns a NotFoundError for resource id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports bad user input or malformed metadata.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigError reports inconsistent static data, such as a family whose
// sizes and quant mapping disagree, or an unusable settings file.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// NewConfigError returns a ConfigError for component wrapping err.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// APIError is a non-success answer from a remote API.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// NewAPIError returns an APIError for a response with statusCode.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is maps 429 to ErrRateLimited and 5xx to ErrServiceUnavailable.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrServiceUnavailable
	}
	return false
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ParseError reports a families or settings file that failed to decode.
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a failed read or write of a local file.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError reports a failed operation on a named resource, e.g.
// registering a family or fetching a hub model.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Message   string
	Err       error
}

func (e *ResourceError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target += " " + e.ID
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, target, e.Message)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsRateLimited reports whether err came from a throttled request.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsServiceUnavailable reports whether err came from a failing remote.
func IsServiceUnavailable(err error) bool { return errors.Is(err, ErrServiceUnavailable) }

// IsCanceled reports whether err stems from cancellation or an expired
// deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// The Wrap helpers return nil for a nil err so they can wrap a call's
// result directly.

// WrapIO wraps err as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapResource wraps err as a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: err.Error(), Err: err}
}

// WrapParse wraps err as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapAPI wraps err as an APIError.
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Service: service, StatusCode: statusCode, Message: err.Error(), Err: err}
}
