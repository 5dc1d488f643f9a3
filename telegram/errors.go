package telegram

import (
	"fmt"
	"strings"
)

// APIError is a Bot API rejection.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  int
	Cause       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

func (e *APIError) Unwrap() error { return e.Cause }

func (e *APIError) is(fragment string) bool {
	return strings.Contains(strings.ToLower(e.Description), fragment)
}

// badMarkup reports Markdown the server could not parse.
func (e *APIError) badMarkup() bool { return e.is("can't parse entities") }

// notModified reports an edit with identical content.
func (e *APIError) notModified() bool { return e.is("message is not modified") }
