package response

import (
	"strings"

	"github.com/dmitrymomot/conduit/core/status"
)

// HTTPError is an error that carries the status the final handler should
// answer with.
type HTTPError struct {
	Status  status.Code    `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// NewHTTPError creates an error for code with the status text as message.
func NewHTTPError(code status.Code) HTTPError {
	return HTTPError{
		Status:  code,
		Code:    strings.ReplaceAll(strings.ToLower(code.String()), " ", "_"),
		Message: code.String(),
	}
}

func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status.Int()
}

// Name returns the machine-readable code, e.g. "not_found".
func (e HTTPError) Name() string {
	return e.Code
}

func (e HTTPError) Unwrap() error {
	return e.cause
}

// Is matches HTTPErrors by status so a customized copy still matches the
// predefined value.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithCause returns a copy of the error wrapping err.
func (e HTTPError) WithCause(err error) HTTPError {
	e.cause = err
	return e
}

var (
	ErrBadRequest            = NewHTTPError(status.BadRequest)
	ErrUnauthorized          = NewHTTPError(status.Unauthorized)
	ErrForbidden             = NewHTTPError(status.Forbidden)
	ErrNotFound              = NewHTTPError(status.NotFound)
	ErrMethodNotAllowed      = NewHTTPError(status.MethodNotAllowed)
	ErrNotAcceptable         = NewHTTPError(status.NotAcceptable)
	ErrRequestEntityTooLarge = NewHTTPError(status.RequestEntityTooLarge)
	ErrUnsupportedMediaType  = NewHTTPError(status.UnsupportedMediaType)
	ErrUnprocessableEntity   = NewHTTPError(status.UnprocessableEntity)
	ErrTooManyRequests       = NewHTTPError(status.TooManyRequests)
	ErrInternalServerError   = NewHTTPError(status.InternalServerError)
	ErrNotImplemented        = NewHTTPError(status.NotImplemented)
	ErrServiceUnavailable    = NewHTTPError(status.ServiceUnavailable)
)
