// Package response renders the JSON envelopes every endpoint answers with.
package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"farmwork/pkg/apperror"
)

// Error codes carried in the "error" field of a failure envelope.
const (
	CodeNotFound          = "RESOURCE_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

type Success struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Meta      any    `json:"meta,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Failure struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	StatusCode int    `json:"statusCode"`
	// Field names the offending input on validation failures.
	Field string `json:"field,omitempty"`
	// ConflictingID is the assignment that blocked a booking, when known.
	ConflictingID string `json:"conflictingId,omitempty"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func OK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Success{Success: true, Message: message, Data: data, Timestamp: now()})
}

func Page(c echo.Context, message string, data, meta any) error {
	return c.JSON(http.StatusOK, Success{Success: true, Message: message, Data: data, Meta: meta, Timestamp: now()})
}

// Describe maps err onto an HTTP status and failure envelope. Anything that is
// not a domain error or an echo.HTTPError is reported as an internal error
// without leaking its text.
func Describe(err error, path string) Failure {
	f := Failure{Timestamp: now(), Path: path}

	var (
		nf *apperror.NotFoundError
		ce *apperror.ConflictError
		ve *apperror.ValidationError
		te *apperror.TransitionError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &nf):
		f.StatusCode, f.Error, f.Message = http.StatusNotFound, CodeNotFound, nf.Error()
	case errors.As(err, &ce):
		f.StatusCode, f.Error, f.Message = http.StatusConflict, CodeConflict, ce.Message
		f.ConflictingID = ce.ConflictingID
	case errors.As(err, &ve):
		f.StatusCode, f.Error, f.Message = http.StatusBadRequest, CodeValidation, ve.Error()
		f.Field = ve.Field
	case errors.As(err, &te):
		f.StatusCode, f.Error, f.Message = http.StatusConflict, CodeInvalidTransition, te.Error()
	case errors.As(err, &he):
		f.StatusCode = he.Code
		f.Error = codeFor(he.Code)
		if msg, ok := he.Message.(string); ok {
			f.Message = msg
		} else {
			f.Message = http.StatusText(he.Code)
		}
	default:
		f.StatusCode, f.Error, f.Message = http.StatusInternalServerError, CodeInternal, "Internal server error"
	}
	return f
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusInternalServerError:
		return CodeInternal
	}
	return http.StatusText(status)
}
