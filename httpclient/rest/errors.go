package rest

import "github.com/kbukum/voicy/httpclient"

// IsAuth reports a 401/403.
func IsAuth(err error) bool { return httpclient.IsAuth(err) }

// IsRateLimit reports a 429.
func IsRateLimit(err error) bool { return httpclient.IsRateLimit(err) }

// IsRetryable reports whether err can be retried.
func IsRetryable(err error) bool { return httpclient.IsRetryable(err) }
