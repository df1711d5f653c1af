package errors

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of every error body.
const ContentTypeProblemJSON = "application/problem+json"

// retryAfterSeconds matches the first back-off step of the read retry policy.
const retryAfterSeconds = 1

// ErrorMapper turns an application error into a problem, reporting whether it
// recognised err.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem responses. Mappers run in order before the failure
// taxonomy is consulted.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
}

func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: strings.TrimSuffix(baseURI, "/"), mappers: mappers}
}

// Respond writes problem and aborts the handler chain.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if problem.Status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError answers with the first mapper match, a ProblemDetail carried
// by err, or the template for err's failure kind.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, FromFailure(err))
}

// WhenIs answers with problem whenever errors.Is(err, target). The wrapped
// error text becomes the detail.
func WhenIs(target error, problem ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if errors.Is(err, target) {
			return problem.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	}
}
