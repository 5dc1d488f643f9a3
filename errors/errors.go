package errors

import "fmt"

// AppError is the error type shared by every voicy package.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail entry and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose status and retryability come from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: code.Status(),
		Retryable:  IsRetryableCode(code),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns the first AppError in err's chain, or an INTERNAL_ERROR
// caused by err.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

func ServiceUnavailable(service string) *AppError {
	return Newf(ErrCodeServiceUnavailable, "The %s is temporarily unavailable.", service).WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long.").WithDetail("operation", operation)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests.")
}

// NotFound omits the id detail when id is empty.
func NotFound(resource, id string) *AppError {
	e := Newf(ErrCodeNotFound, "The requested %s was not found.", resource).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation is an INVALID_INPUT error carrying a prepared message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// Unauthorized uses a generic message when reason is empty.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "A database error occurred.").WithCause(cause)
}

func ExternalServiceError(service string, cause error) *AppError {
	return Newf(ErrCodeExternalService, "The %s service encountered an error.", service).
		WithDetail("service", service).WithCause(cause)
}

// MissingCredentials reports a chat whose engine needs a key it lacks.
func MissingCredentials(engine string) *AppError {
	return Newf(ErrCodeMissingCredentials, "The %s engine requires credentials.", engine).WithDetail("engine", engine)
}

// EngineFailed wraps a failed recognition call.
func EngineFailed(engine string, cause error) *AppError {
	return Newf(ErrCodeEngineFailed, "The %s engine failed to transcribe.", engine).
		WithDetail("engine", engine).WithCause(cause)
}

// DeliveryFailed wraps a platform method call that was rejected.
func DeliveryFailed(method string, cause error) *AppError {
	return Newf(ErrCodeDeliveryFailed, "The platform rejected %s.", method).
		WithDetail("method", method).WithCause(cause)
}
