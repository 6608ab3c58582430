// Package apperr defines the error taxonomy shared across the application.
// Handlers map each kind to an HTTP status; everything else wraps and
// propagates with errors.Is/As compatibility.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindValidation marks missing or malformed request fields.
	KindValidation
	// KindNotFound marks a missing entity.
	KindNotFound
	// KindUnsupportedFormat marks an unhandled file extension.
	KindUnsupportedFormat
	// KindExtractionFailed marks a failed local text extraction.
	KindExtractionFailed
	// KindGenerationFailed marks an unparsable or empty LLM exam response.
	KindGenerationFailed
	// KindInvalidQuestions marks generated questions that failed shape validation.
	KindInvalidQuestions
	// KindVersionConflict marks exhausted optimistic version-number retries.
	KindVersionConflict
	// KindNetwork marks upstream connectivity failures.
	KindNetwork
	// KindConfig marks missing configuration such as the API key.
	KindConfig
	// KindNotSupported marks operations the AI fallback refuses by design.
	KindNotSupported
	// KindNotImplemented marks file types the AI fallback cannot handle yet.
	KindNotImplemented
)

// Error carries a kind, a user-facing message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal if it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the user-facing message of err. Unclassified errors get a
// generic message so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// HTTPStatus maps an error kind to an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindUnsupportedFormat:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindVersionConflict:
		return http.StatusConflict
	case KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case KindNotSupported, KindNotImplemented:
		return http.StatusNotImplemented
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
