// Package logging provides structured logging capabilities for the workflow engine.
//
// # Overview
//
// Logger is a thin wrapper around the standard library's log/slog. It
// writes one record per call through a JSON handler, or through slog's text
// handler when Config.Pretty is set; contextual fields are attached by
// With* builders, each of which returns a new *Logger.
//
// # Log Levels
//
// Config.Level is one of "debug", "info", "warn" (or "warning") and
// "error"; any other value means "info". Records below the level are
// dropped by the slog handler. The level is the only filter: there is no
// per-package enabling or disabling.
//
// # Basic Usage
//
//	import "github.com/flowcraft/workflow-engine/pkg/logging"
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout, // nil also means os.Stdout
//	})
//
//	logger.WithWorkflowID("wf-123").
//	    WithExecutionID("exec-456").
//	    Info("Workflow started")
//
//	logger.WithNodeID("node-5").WithError(err).Error("Execution failed")
//
// Debug, Info, Warn and Error take only a message; Debugf, Infof, Warnf
// and Errorf format one with fmt.Sprintf. Fatal and Fatalf log at error
// level and then call os.Exit(1).
//
// # Structured Fields
//
// WithWorkflowID, WithExecutionID, WithNodeID and WithNodeType add the
// workflow_id, execution_id, node_id and node_type fields; WithField and
// WithFields add arbitrary ones; WithError adds an "error" field:
//
//	logger.WithFields(map[string]interface{}{
//	    "status":      200,
//	    "duration_ms": 145,
//	}).Info("HTTP request completed")
//
// # Context Integration
//
// WithContext stores the logger in a context.Context and returns that
// context; FromContext retrieves it, or builds a logger from DefaultConfig
// when the context holds none. No fields are read out of the context.
//
//	ctx = logger.WithExecutionID("exec-456").WithContext(ctx)
//	logging.FromContext(ctx).Info("Node executing")
//
// # Output Formats
//
// JSON (the default) uses slog's standard keys "time", "level" and "msg":
//
//	{"time":"2024-01-15T10:30:00Z","level":"INFO","msg":"Workflow started","workflow_id":"wf-123","execution_id":"exec-456"}
//
// Text (Config.Pretty = true):
//
//	time=2024-01-15T10:30:00Z level=INFO msg="Workflow started" workflow_id=wf-123 execution_id=exec-456
//
// # Configuration
//
//	cfg := logging.Config{
//	    Level:         "debug",   // minimum level to log
//	    Output:        os.Stdout, // where to write logs
//	    Pretty:        false,     // text handler instead of JSON
//	    IncludeCaller: true,      // slog AddSource: include file:line
//	}
//
// DefaultConfig returns level "info", os.Stdout, JSON output and no
// caller information. GetSlogLogger exposes the underlying *slog.Logger.
//
// # Thread Safety
//
// A *Logger is safe for concurrent use from multiple goroutines, as the
// slog handlers it wraps are.
//
// # Testing
//
// For testing, write to a buffer and inspect what was written:
//
//	buf := &bytes.Buffer{}
//	logger := logging.New(logging.Config{Level: "debug", Output: buf})
//	logger.Info("expected message")
//	if !strings.Contains(buf.String(), "expected message") {
//	    t.Error("message not logged")
//	}
package logging
