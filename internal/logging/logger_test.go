package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Output: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["message"])
	assert.Equal(t, "info", rec["level"])
}

func TestNewDevelopment(t *testing.T) {
	var buf bytes.Buffer
	cfg := DevelopmentConfig()
	cfg.Output = &buf
	log, err := New(cfg)
	require.NoError(t, err)

	log.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

func TestNewFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urlsig.log")
	log, err := New(Config{Level: "warn", File: path, Output: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Warn("to file")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestDefaultConfigLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
