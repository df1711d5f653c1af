// Package failure defines the storage-agnostic error taxonomy shared by every
// bounded context. Adapters translate driver errors into a Kind; transports map
// a Kind to a status code and a user-facing message.
package failure

import (
	"context"
	"errors"
)

// Kind classifies a failure independently of the backend that produced it.
type Kind uint8

const (
	Unknown Kind = iota
	NotFound
	PermissionDenied
	Unavailable
	AlreadyExists
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case PermissionDenied:
		return "permission-denied"
	case Unavailable:
		return "unavailable"
	case AlreadyExists:
		return "already-exists"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Message is safe to show to end users; Err
// keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error without an underlying cause. The returned
// value is suitable as a package-level sentinel.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err. A nil err stays nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the outermost classified error in the chain.
// Context deadline errors are treated as transient.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Unavailable
	}
	return Unknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the human-readable text for err. Classified errors with an
// explicit message keep it; everything else gets the generic text of its kind.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) && classified.Message != "" {
		return classified.Message
	}
	return defaultMessage(KindOf(err))
}

func defaultMessage(kind Kind) string {
	switch kind {
	case PermissionDenied:
		return "you do not have permission to perform this action"
	case Unavailable:
		return "the service is temporarily unavailable, please try again"
	case NotFound:
		return "the requested document does not exist"
	case AlreadyExists:
		return "this document already exists"
	default:
		return "an unexpected error occurred"
	}
}
