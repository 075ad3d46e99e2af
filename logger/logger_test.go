package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sonwamoh/perfomance-attribution/config"
)

func TestNew_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "attr.log")
	l, err := New(config.LogConfig{Level: "warn", Encoding: "json", File: file, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", zap.String("instrument", "MARUTI.BSE"))
	require.NoError(t, l.Sync())

	content, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(content, &entry), "want a single json line, got %s", content)
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "MARUTI.BSE", entry["instrument"])
}

func TestNew_Level(t *testing.T) {
	l, err := New(config.LogConfig{Level: "nonsense", Encoding: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
