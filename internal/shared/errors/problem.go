// Package errors renders storefront failures as RFC 7807 problem details.
package errors

import (
	"fmt"
	"net/http"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

// ProblemDetail is the application/problem+json body.
// See https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying detail.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with key set. The receiver's map is not shared.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type references, relative to the responder's base URI.
const (
	TypeValidation   = "/problems/validation-error"
	TypeBadRequest   = "/problems/bad-request"
	TypeUnauthorized = "/problems/unauthorized"
	TypeForbidden    = "/problems/forbidden"
	TypeNotFound     = "/problems/not-found"
	TypeConflict     = "/problems/conflict"
	TypeUnavailable  = "/problems/service-unavailable"
	TypeInternal     = "/problems/internal-error"
)

func template(typ, title string, status int) ProblemDetail {
	return ProblemDetail{Type: typ, Title: title, Status: status}
}

var (
	ErrValidation   = template(TypeValidation, "Validation Error", http.StatusBadRequest)
	ErrBadRequest   = template(TypeBadRequest, "Bad Request", http.StatusBadRequest)
	ErrUnauthorized = template(TypeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrForbidden    = template(TypeForbidden, "Forbidden", http.StatusForbidden)
	ErrNotFound     = template(TypeNotFound, "Resource Not Found", http.StatusNotFound)
	ErrConflict     = template(TypeConflict, "Conflict", http.StatusConflict)
	// ErrUnavailable marks a transient backend failure; clients may retry.
	ErrUnavailable = template(TypeUnavailable, "Service Unavailable", http.StatusServiceUnavailable)
	ErrInternal    = template(TypeInternal, "Internal Server Error", http.StatusInternalServerError)
)

var kindProblems = map[failure.Kind]ProblemDetail{
	failure.NotFound:         ErrNotFound,
	failure.PermissionDenied: ErrForbidden,
	failure.Unavailable:      ErrUnavailable,
	failure.AlreadyExists:    ErrConflict,
}

// NewNotFoundProblem names the missing resource in the detail and extensions.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}

// FromFailure picks the template for err's failure kind. The detail is the
// user-facing message of the failure, never the raw driver error.
func FromFailure(err error) ProblemDetail {
	kind := failure.KindOf(err)
	problem, ok := kindProblems[kind]
	if !ok {
		problem = ErrInternal
	}
	return problem.WithDetail(failure.Message(err)).WithExtension("kind", kind.String())
}
