package logger

import "time"

// Field keys shared by every package so log queries stay uniform.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldRequestID = "request_id"
	FieldChatID    = "chat_id"
	FieldMessageID = "message_id"
	FieldEngine    = "engine"
	FieldLanguage  = "language"
	FieldPhase     = "phase"
	FieldOutcome   = "outcome"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldFileSize  = "file_size"
)

// Fields pairs up alternating keys and values. Pairs whose key is not a
// string are dropped, as is a trailing key without a value.
//
//	log.Info("voice processed", logger.Fields(logger.FieldChatID, id, logger.FieldEngine, "wit"))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if key, ok := kvs[i-1].(string); ok {
			m[key] = kvs[i]
		}
	}
	return m
}

// MergeWithDuration sets FieldDuration on fields, in milliseconds.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
