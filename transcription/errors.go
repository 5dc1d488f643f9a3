package transcription

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/kbukum/voicy/errors"
)

// EngineError carries the message an engine returned about a failed call.
type EngineError struct {
	Engine  string
	Message string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Engine, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Cause }

// EngineMessage returns the engine's own description of the failure.
func (e *EngineError) EngineMessage() string { return e.Message }

// Fail builds an ENGINE_FAILED error around the engine's message. It is
// retryable when cause is.
func Fail(engine, message string, cause error) *errors.AppError {
	appErr := errors.EngineFailed(engine, &EngineError{Engine: engine, Message: message, Cause: cause})
	if c, ok := errors.AsAppError(cause); ok {
		appErr.Retryable = c.Retryable
	}
	return appErr
}

// normalize makes every error leaving the router an AppError. Errors that
// already carry a code keep it.
func normalize(engine string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(engine).WithCause(err)
	}
	return errors.EngineFailed(engine, err)
}
