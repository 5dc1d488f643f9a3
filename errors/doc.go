// Package errors provides AppError, the structured error used across voicy.
//
// An AppError carries a machine-readable code, a retryable flag read by the
// resilience retry predicate and an HTTP status for the webhook server. The
// status and retryability of each code live in one table in codes.go.
package errors
