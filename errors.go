package uxio

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the failure type returned by the middleware and the persistence
// engines. Kind is a stable machine-readable identifier, Status maps directly
// to an HTTP response code, and Message is safe to show to API consumers.
//
// Errors compare by Kind, so callers can match any wrapped instance against
// the package sentinels:
//
//	if errors.Is(err, uxio.ErrValidationFailed) {
//	    // 400-class policy violation
//	}
type Error struct {
	Kind    string // stable identifier, e.g. "not_found"
	Status  int    // HTTP status code
	Message string // human-readable description
	cause   error  // wrapped underlying error, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by Kind so wrapped instances compare equal to sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// HTTPStatus returns the status code callers should respond with.
func (e *Error) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// Sentinel errors for every failure class the pipeline can produce.
var (
	// ErrNotFound covers a required selector with no matching uploads and a
	// missing destination directory that the config does not allow creating.
	ErrNotFound = &Error{Kind: "not_found", Status: http.StatusNotFound, Message: "no matching file or destination"}

	// ErrValidationFailed covers size and MIME type policy violations.
	ErrValidationFailed = &Error{Kind: "validation_failed", Status: http.StatusBadRequest, Message: "file validation failed"}

	// ErrConflict is returned when the final destination name already exists.
	// Existing files are never overwritten.
	ErrConflict = &Error{Kind: "conflict", Status: http.StatusConflict, Message: "destination already exists"}

	// ErrUnsupportedProvider is returned for provider identifiers that are not
	// present in the provider registry.
	ErrUnsupportedProvider = &Error{Kind: "unsupported_provider", Status: http.StatusBadRequest, Message: "unsupported provider"}

	// ErrProviderConfigInvalid is returned when provider options are missing
	// or of the wrong shape for the selected provider.
	ErrProviderConfigInvalid = &Error{Kind: "provider_config_invalid", Status: http.StatusBadRequest, Message: "invalid provider configuration"}

	// ErrTooLarge is returned by the ingestion stage when a part exceeds the
	// configured field or file byte limits.
	ErrTooLarge = &Error{Kind: "too_large", Status: http.StatusRequestEntityTooLarge, Message: "part exceeds configured size limit"}

	// ErrMalformedRequest is returned when the multipart body cannot be parsed.
	ErrMalformedRequest = &Error{Kind: "malformed_request", Status: http.StatusBadRequest, Message: "malformed multipart request"}

	// ErrInternal wraps unexpected filesystem, network or provider failures.
	ErrInternal = &Error{Kind: "internal", Status: http.StatusInternalServerError, Message: "internal error"}
)

// newError derives a new Error from a sentinel with a specific message.
func newError(base *Error, format string, args ...any) *Error {
	return &Error{
		Kind:    base.Kind,
		Status:  base.Status,
		Message: fmt.Sprintf(format, args...),
	}
}

// wrapError derives a new Error from a sentinel, recording cause for Unwrap.
func wrapError(base *Error, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    base.Kind,
		Status:  base.Status,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// asPipelineError normalizes arbitrary errors into *Error. Recognized typed
// errors pass through unchanged; anything else is wrapped as ErrInternal so a
// single call never surfaces more than one error shape.
func asPipelineError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return wrapError(ErrInternal, err, "unexpected failure")
}

// HTTPStatus returns the response status for any error produced by this
// package. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	return asPipelineError(err).HTTPStatus()
}
