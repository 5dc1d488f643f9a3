package logger

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	chatIDKey
	messageIDKey
)

// ContextWithRequestID stores the HTTP request id picked up by WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithMessage stores the chat and message being processed.
func ContextWithMessage(ctx context.Context, chatID int64, messageID int) context.Context {
	return context.WithValue(context.WithValue(ctx, chatIDKey, chatID), messageIDKey, messageID)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithContext adds the request id, chat and message ids and the active trace
// id found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context {
		if id := RequestIDFromContext(ctx); id != "" {
			zc = zc.Str(FieldRequestID, id)
		}
		if id, ok := ctx.Value(chatIDKey).(int64); ok {
			zc = zc.Int64(FieldChatID, id)
		}
		if id, ok := ctx.Value(messageIDKey).(int); ok {
			zc = zc.Int(FieldMessageID, id)
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			zc = zc.Str(FieldTraceID, sc.TraceID().String())
		}
		return zc
	})
}
