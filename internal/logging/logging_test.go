package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gzhole/remindshield/internal/audit"
)

func TestNew_Levels(t *testing.T) {
	logger, err := New(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestAuditSink_RedactsInput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := audit.NewLog(audit.WithSink(AuditSink(zap.New(core))))

	log.Record(audit.PromptInjectionDetected, "/inject my key is sk-abcdefghijklmnopqrstuvwx")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "Prompt Injection Detected", fields["issue"])
	preview, ok := fields["input_preview"].(string)
	require.True(t, ok)
	assert.NotContains(t, preview, "sk-abcdefghijklmnopqrstuvwx")
	assert.Contains(t, preview, "/inject")
}

func TestAuditSink_NilLogger(t *testing.T) {
	assert.Nil(t, AuditSink(nil))
}
