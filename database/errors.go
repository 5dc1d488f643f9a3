package database

import (
	stderrors "errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/voicy/errors"
)

var retryablePatterns = []string{
	"database is locked",
	"database table is locked",
	"busy",
	"connection refused",
	"driver: bad connection",
	"deadlock",
}

// IsRetryableError reports transient failures such as sqlite lock contention.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsNotFoundError checks for a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// FromDatabase converts a database error to an AppError.
func FromDatabase(err error, resource string) *errors.AppError {
	if err == nil {
		return nil
	}
	if IsNotFoundError(err) {
		return errors.NotFound(resource, "").WithCause(err)
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.New(errors.ErrCodeAlreadyExists, resource+" already exists").WithCause(err)
	}
	appErr := errors.DatabaseError(err)
	if IsRetryableError(err) {
		appErr.Retryable = true
		appErr.HTTPStatus = http.StatusServiceUnavailable
	}
	return appErr
}
