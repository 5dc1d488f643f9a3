package httpclient

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/resilience"
)

// ErrorCode classifies a failed call.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	// ErrCodeAuth is a 401 or 403.
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	// ErrCodeValidation is any other 4xx, or a request that could not be built.
	ErrCodeValidation
	ErrCodeServer
)

var codeNames = map[ErrorCode]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is a classified client failure. StatusCode is 0 when no response
// was received.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func transportError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: true, Err: err}
}

func statusError(code ErrorCode, status int, retryable bool, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d", status),
		Retryable:  retryable,
		Body:       body,
	}
}

// NewTimeoutError wraps a deadline or cancellation.
func NewTimeoutError(err error) *Error { return transportError(ErrCodeTimeout, err) }

// NewConnectionError wraps a dial, DNS or read failure.
func NewConnectionError(err error) *Error { return transportError(ErrCodeConnection, err) }

// NewAuthError is a 401/403.
func NewAuthError(status int, body []byte) *Error {
	return statusError(ErrCodeAuth, status, false, body)
}

// NewRateLimitError is a 429.
func NewRateLimitError(body []byte) *Error {
	return statusError(ErrCodeRateLimit, http.StatusTooManyRequests, true, body)
}

// NewServerError is a 5xx.
func NewServerError(status int, body []byte) *Error {
	return statusError(ErrCodeServer, status, true, body)
}

// NewValidationError is a request that never left the process.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode returns nil for 2xx and a typed *Error otherwise.
func ClassifyStatusCode(status int, body []byte) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewAuthError(status, body)
	case status == http.StatusNotFound:
		return statusError(ErrCodeNotFound, status, false, body)
	case status == http.StatusTooManyRequests:
		return NewRateLimitError(body)
	case status >= 400 && status < 500:
		return statusError(ErrCodeValidation, status, false, body)
	case status >= 500:
		return NewServerError(status, body)
	default:
		return statusError(ErrCodeServer, status, false, body)
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// IsAuth reports a 401/403.
func IsAuth(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeAuth
}

// IsRateLimit reports a 429.
func IsRateLimit(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeRateLimit
}

// IsRetryable is the retry predicate used by DefaultRetryConfig.
func IsRetryable(err error) bool {
	e, ok := asError(err)
	return ok && e.Retryable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.StatusCode
	}
	return 0
}

// ToAppError maps a client error onto the application error codes, so
// retries and fault reports see one vocabulary. service names the remote
// side in the message.
func ToAppError(service string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		return errors.ServiceUnavailable(service).WithCause(err)
	}
	e, ok := asError(err)
	if !ok {
		appErr := errors.ExternalServiceError(service, err)
		appErr.Retryable = false
		return appErr
	}
	switch e.Code {
	case ErrCodeTimeout:
		return errors.Timeout(service).WithCause(err)
	case ErrCodeRateLimit:
		return errors.RateLimited().WithCause(err)
	case ErrCodeAuth:
		return errors.Unauthorized(service+" rejected the credentials").WithCause(err).WithDetail("status", e.StatusCode)
	case ErrCodeNotFound:
		return errors.Newf(errors.ErrCodeNotFound, "%s: resource not found", service).WithCause(err)
	default:
		appErr := errors.ExternalServiceError(service, err)
		appErr.Retryable = e.Retryable
		return appErr
	}
}
