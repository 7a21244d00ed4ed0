package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestObservedLogger_FieldsAndComponent(t *testing.T) {
	log, logs := NewObservedLogger(zapcore.DebugLevel)

	Component(log, "engine").
		WithError(errors.New("boom")).
		Info("calibration completed", map[string]interface{}{"sampleSize": 12})

	entries := logs.FilterMessage("calibration completed").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "engine", ctx["component"])
	assert.Equal(t, int64(12), ctx["sampleSize"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestObservedLogger_RespectsLevel(t *testing.T) {
	log, logs := NewObservedLogger(zapcore.WarnLevel)
	log.Info("dropped", nil)
	log.Warn("kept", nil)

	assert.Equal(t, 1, logs.Len())
}

func TestNew_Formats(t *testing.T) {
	assert.NotNil(t, New("info", "json"))
	assert.NotNil(t, New("debug", "console"))
	assert.NotNil(t, NewStructured("warn", "json"))
	NewNoOpLogger().Info("nothing", map[string]interface{}{"k": "v"})
}

func TestBuild_WritesToFileWithService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")
	l := Build(Options{Level: "info", Format: "json", Output: path, Service: "buzz-workers"})
	NewZapAdapter(l).Info("post scored", map[string]interface{}{"score": 61.5, "scope": "global"})
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"buzz-workers"`)
	assert.Contains(t, string(data), `"msg":"post scored"`)
}

func TestBuild_UnwritableSinkFallsBackToNop(t *testing.T) {
	l := Build(Options{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.NotNil(t, l)
	l.Info("ignored")
}

func TestMapToZapFields_SortedKeys(t *testing.T) {
	fields := mapToZapFields(map[string]interface{}{"b": 1, "a": 2, "c": 3})
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "c", fields[2].Key)
	assert.Nil(t, mapToZapFields(nil))
}
