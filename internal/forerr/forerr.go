// Package forerr defines the error-kind taxonomy spec.md §7 requires
// (DatabaseUnavailable, RemoteUnavailable, MalformedRemotePayload,
// MissingRequiredField, NumericOutOfRange, NotFound, InvalidInput,
// Internal), grounded on original_source's ForeciseError enum
// (crates/shared/src/error.rs) but expressed the way Go represents
// sum-of-kinds errors: a Kind constant plus a wrapping *Error.
package forerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for logging and for the façade's HTTP mapping.
type Kind string

const (
	KindDatabaseUnavailable   Kind = "database_unavailable"
	KindRemoteUnavailable     Kind = "remote_unavailable"
	KindMalformedRemotePayload Kind = "malformed_remote_payload"
	KindMissingRequiredField  Kind = "missing_required_field"
	KindNumericOutOfRange     Kind = "numeric_out_of_range"
	KindNotFound              Kind = "not_found"
	KindInvalidInput          Kind = "invalid_input"
	KindInternal              Kind = "internal"
)

// Error is a classified, wrappable error. It implements Unwrap so
// errors.Is/As still see through to the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func new_(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// DatabaseUnavailable wraps a database connectivity/driver failure.
func DatabaseUnavailable(message string, err error) *Error {
	return new_(KindDatabaseUnavailable, message, err)
}

// RemoteUnavailable wraps a venue HTTP/transport failure.
func RemoteUnavailable(message string, err error) *Error {
	return new_(KindRemoteUnavailable, message, err)
}

// MalformedRemotePayload wraps a venue payload that failed to decode.
func MalformedRemotePayload(message string, err error) *Error {
	return new_(KindMalformedRemotePayload, message, err)
}

// MissingRequiredField flags a single record missing a field the adapter
// needs; callers skip just that record.
func MissingRequiredField(field string) *Error {
	return new_(KindMissingRequiredField, fmt.Sprintf("missing required field %q", field), nil)
}

// NumericOutOfRange flags a value outside its contractual bound (e.g. a
// probability outside [0,1]).
func NumericOutOfRange(message string) *Error {
	return new_(KindNumericOutOfRange, message, nil)
}

// NotFound wraps a lookup that found nothing.
func NotFound(message string) *Error {
	return new_(KindNotFound, message, nil)
}

// InvalidInput wraps a caller-supplied value that fails validation.
func InvalidInput(message string) *Error {
	return new_(KindInvalidInput, message, nil)
}

// Internal wraps an unexpected failure with no more specific kind.
func Internal(message string, err error) *Error {
	return new_(KindInternal, message, err)
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, defaulting to KindInternal otherwise.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// HTTPStatus maps a Kind to the façade's response status per spec.md §7:
// NotFound -> 404, InvalidInput -> 400, everything else -> 500.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
