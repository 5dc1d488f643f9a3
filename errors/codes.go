package errors

import "net/http"

// ErrorCode is the machine-readable kind of an AppError.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"

	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"

	// ErrCodeMissingCredentials marks a chat whose selected engine needs a
	// key it has not configured. It is an expected outcome, not a fault.
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"

	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeEngineFailed covers a recognition call that was answered with
	// an error or an unusable payload.
	ErrCodeEngineFailed ErrorCode = "ENGINE_FAILED"
	// ErrCodeDeliveryFailed covers a send or edit rejected by the chat platform.
	ErrCodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
)

type codeInfo struct {
	status    int
	retryable bool
}

var codes = map[ErrorCode]codeInfo{
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeConnectionFailed:   {http.StatusServiceUnavailable, true},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, true},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeAlreadyExists:      {http.StatusConflict, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false},
	ErrCodeMissingCredentials: {http.StatusPreconditionFailed, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
	ErrCodeDatabaseError:      {http.StatusInternalServerError, true},
	ErrCodeExternalService:    {http.StatusBadGateway, true},
	ErrCodeEngineFailed:       {http.StatusBadGateway, false},
	ErrCodeDeliveryFailed:     {http.StatusBadGateway, false},
}

// IsRetryableCode reports whether errors of code are worth another attempt.
// Unknown codes are not.
func IsRetryableCode(code ErrorCode) bool {
	return codes[code].retryable
}

// Status returns the HTTP status for code, 500 when unknown.
func (c ErrorCode) Status() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
