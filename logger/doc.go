// Package logger provides structured, component-scoped logging for dataprep
// on top of zerolog.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("pipeline")
//	log.Debug("signal received", logger.Fields(logger.FieldSignal, "END_OF_STREAM"))
package logger
