// Package logging provides structured logging for tapolight.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the client and CLI. Logging is silent by
// default so that command output stays clean; set TAPOLIGHT_LOG_LEVEL
// to enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed protocol tracing (envelopes, session lifecycle)
//   - Info: Normal operations (discovery, device state changes)
//   - Warn: Non-fatal issues (retries, stale registry entries)
//   - Error: Fatal issues (unreachable devices, bad credentials)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Debug("session established",
//	    zap.String("device", "http://192.168.1.42:80"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
