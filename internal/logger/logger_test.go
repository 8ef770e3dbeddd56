package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultDiscards(t *testing.T) {
	assert.False(t, Desugar().Core().Enabled(zapcore.ErrorLevel))
}

func TestInitFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "hivedigger.log")
	require.NoError(t, Init(Options{Level: "debug", Format: "json", File: path}))
	assert.True(t, Desugar().Core().Enabled(zapcore.DebugLevel))

	Log.Infow("hive opened", "path", "SYSTEM")
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hive opened"`)
	assert.Contains(t, string(data), `"path":"SYSTEM"`)
}

func TestInitRejectsBadOptions(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.Error(t, Init(Options{Level: "loud"}))
	require.Error(t, Init(Options{Level: "info", Format: "xml"}))
}

func TestInitLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, Init(Options{Level: "warn"}))
	core := Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
}
