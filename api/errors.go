package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Transport-level errors. A request that never produced an HTTP
// response surfaces as one of these; anything with a response becomes
// an *APIError carrying the server's message.
var (
	// ErrTimeout is returned when the server takes too long to respond.
	ErrTimeout = errors.New("request timed out")
	// ErrUnreachable is returned when no response was received at all.
	ErrUnreachable = errors.New("cannot connect to server")
)

// ErrorKind classifies an API error response.
type ErrorKind string

const (
	KindAuth     ErrorKind = "auth"
	KindNotFound ErrorKind = "not_found"
	KindInvalid  ErrorKind = "invalid"
	KindUnknown  ErrorKind = "unknown"
)

// APIError is an error response from the platform API.
type APIError struct {
	Status  int
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindInvalid
	default:
		return KindUnknown
	}
}

// IsAuth reports whether err is a 401/403-class response. Callers
// should treat the session as invalid and re-authenticate.
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsNotFound reports whether err indicates the referenced resource is
// absent.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}
