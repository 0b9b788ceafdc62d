// Package logging provides structured logging for the fairyctl tools.
//
// This package wraps zap logger with convenience functions for common
// logging patterns used throughout the CLI, the BLE client, and the bridge
// daemon. Logging is silent by default so normal CLI output stays clean;
// it switches on via the --log-level flag or the FAIRYCTL_LOG_LEVEL
// environment variable.
//
// # Log Levels
//
//   - Debug: Detailed debugging info (frame hex dumps, scan results,
//     dropped notifications)
//   - Info: Normal operations (connections, commands, state changes)
//   - Warn: Non-fatal issues (connection drops, reconnect attempts)
//   - Error: Fatal issues (startup failures, adapter errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Light connected",
//	    zap.String("address", "AA:BB:CC:DD:EE:FF"),
//	    zap.String("name", "Hello Fairy-0A3F"),
//	)
//
// # Specialized Logging
//
// Connection events:
//
//	logging.LogConnection(address, "connected")
//	logging.LogConnection(address, "disconnected")
//
// Protocol frames (debug level, hex dumped):
//
//	logging.LogFrame(address, "write", frame)
//	logging.LogFrame(address, "notify", payload)
//	logging.LogRawBytes("Dropped notification", payload)
//
// # Configuration
//
// Initialize at startup and flush on exit:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
