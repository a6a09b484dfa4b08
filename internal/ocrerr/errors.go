// Package ocrerr defines the failure taxonomy shared by every stage of the
// OCR pipeline. Any error that leaves the worker is expressed as one of the
// kinds declared here.
package ocrerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind enumerates the failure categories visible to callers.
type Kind string

const (
	InvalidImage      Kind = "INVALID_IMAGE"
	ImageTooLarge     Kind = "IMAGE_TOO_LARGE"
	UnsupportedEngine Kind = "UNSUPPORTED_ENGINE"
	OCRUnavailable    Kind = "OCR_UNAVAILABLE"
	Unauthorized      Kind = "UNAUTHORIZED"
	OCRFailed         Kind = "OCR_FAILED"
)

// Generic caller-facing messages.
const (
	MsgInvalidImage  = "Image could not be processed."
	MsgImageTooLarge = "Image is too large."
	MsgUnauthorized  = "Unauthorized."
	MsgOCRFailed     = "OCR processing failed."
)

// Status returns the HTTP status implied by the kind.
func (k Kind) Status() int {
	switch k {
	case InvalidImage, UnsupportedEngine:
		return http.StatusBadRequest
	case ImageTooLarge:
		return http.StatusRequestEntityTooLarge
	case OCRUnavailable:
		return http.StatusServiceUnavailable
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a taxonomy failure. Message is safe to show to callers; Cause
// holds the internal diagnostic and is never serialized.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int {
	return e.Kind.Status()
}

// New builds a failure without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a failure that keeps cause for logging.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Unavailable reports a disabled, unconfigured or unreachable provider.
func Unavailable(message string, cause error) *Error {
	return Wrap(OCRUnavailable, message, cause)
}

// From maps err onto the taxonomy. Errors that already carry a kind are
// returned as-is; anything else becomes OCR_FAILED with a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(OCRFailed, MsgOCRFailed, err)
}

// KindOf returns the taxonomy kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}

// Detail is the serialized form of a failure.
type Detail struct {
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

// Payload is the failure body returned to callers.
type Payload struct {
	RequestID string `json:"requestId"`
	Error     Detail `json:"error"`
}

// NewPayload renders err for requestID.
func NewPayload(requestID string, err *Error) Payload {
	return Payload{
		RequestID: requestID,
		Error:     Detail{Code: err.Kind, Message: err.Message},
	}
}
