// Package logging builds the operational zap logger and an audit sink that
// mirrors security events into it without leaking raw input.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/redact"
)

// New returns a production JSON logger writing to stderr. debug lowers the
// level to Debug.
func New(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// AuditSink logs each security event at Warn. The input is redacted and
// truncated to a preview first.
func AuditSink(logger *zap.Logger) audit.Sink {
	if logger == nil {
		return nil
	}
	return audit.SinkFunc(func(e audit.SecurityEvent) error {
		logger.Warn("security event",
			zap.String("issue", e.Kind.String()),
			zap.String("input_preview", redact.Preview(e.Input)),
			zap.Time("timestamp", e.Timestamp))
		return nil
	})
}
