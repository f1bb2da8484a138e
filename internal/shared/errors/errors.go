// Package errors classifies service failures into kinds and renders them as the JSON error envelope.
package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Kind is the category of a failure. It decides the HTTP status of an escaped error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

// String returns the stable name of the kind, also used as Temporal application error type.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	default:
		return "UnknownError"
	}
}

// ParseKind is the inverse of Kind.String. Unrecognised names map to KindUnknown.
func ParseKind(name string) Kind {
	switch strings.TrimSpace(name) {
	case "ValidationError":
		return KindValidation
	case "NotFoundError":
		return KindNotFound
	case "ConflictError":
		return KindConflict
	default:
		return KindUnknown
	}
}

// Error is a classified failure. Its message is safe to show to clients.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a classified error with the given client message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Err: errors.New(message)}
}

// Wrap classifies err, keeping its message. Wrapping nil returns nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Validation, NotFound and Conflict are shorthands for New.
func Validation(message string) *Error { return New(KindValidation, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusFor maps a kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MessageUnexpected replaces the message of unclassified errors before they reach a client.
const MessageUnexpected = "An unexpected error occurred."

// Envelope is the uniform JSON body written by the error middleware.
type Envelope struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// EnvelopeFor builds the envelope for err. Unknown errors get a generic message.
func EnvelopeFor(err error) Envelope {
	kind := KindOf(err)
	status := StatusFor(kind)
	if kind == KindUnknown {
		return Envelope{Error: MessageUnexpected, StatusCode: status}
	}
	return Envelope{Error: err.Error(), StatusCode: status}
}
