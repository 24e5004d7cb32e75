package rest

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrValidation       = errors.New("invalid endpoint declaration")
	ErrMissingParameter = errors.New("missing path parameter")
	ErrUnknownEndpoint  = errors.New("unknown endpoint")
	ErrClient           = errors.New("client error")
	ErrServer           = errors.New("server error")
	ErrNoResponse       = errors.New("transport returned no response")
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ValidationError reports an endpoint declaration rejected by New.
type ValidationError struct {
	Endpoint string
	Reason   string
}

// Error returns the reason together with the offending endpoint name.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("rest: %s for %s", e.Reason, e.Endpoint)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(endpoint, format string, args ...any) error {
	return &ValidationError{Endpoint: endpoint, Reason: fmt.Sprintf(format, args...)}
}

// MissingParameterError is returned when a path template placeholder has no
// matching call argument.
type MissingParameterError struct {
	Parameter string
	Template  string
}

// Error names both the parameter and the template.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("rest: path parameter %s required in call to %s", e.Parameter, e.Template)
}

// Is reports whether target is ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// UnknownEndpointError is returned when a call names an endpoint that was
// never declared.
type UnknownEndpointError struct {
	Endpoint string
}

// Error returns the error message.
func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("rest: unknown endpoint %q", e.Endpoint)
}

// Is reports whether target is ErrUnknownEndpoint.
func (e *UnknownEndpointError) Is(target error) bool { return target == ErrUnknownEndpoint }

// ClientError is the default error for an unhandled 4xx response.
type ClientError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewClientError returns a ClientError whose message comes from StatusText.
func NewClientError(status int) *ClientError {
	return &ClientError{Status: status, Message: StatusText(status)}
}

// Error returns the catalog message.
func (e *ClientError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *ClientError) StatusCode() int { return e.Status }

// Is reports whether target is ErrClient.
func (e *ClientError) Is(target error) bool { return target == ErrClient }

// ServerError is the default error for an unhandled 5xx response.
type ServerError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewServerError returns a ServerError whose message comes from StatusText.
func NewServerError(status int) *ServerError {
	return &ServerError{Status: status, Message: StatusText(status)}
}

// Error returns the catalog message.
func (e *ServerError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *ServerError) StatusCode() int { return e.Status }

// Is reports whether target is ErrServer.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// ErrorStatus extracts the HTTP status code from an error. Returns 0 if the
// error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}
