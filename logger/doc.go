// Package logger provides structured logging for voicy using zerolog.
//
// Loggers are scoped per component and carry chat/message identifiers pulled
// from the context so a single voice message can be followed through the
// pipeline in the logs.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipeline")
//	log.WithContext(ctx).Info("transcribed", logger.Fields(logger.FieldEngine, "wit"))
package logger
