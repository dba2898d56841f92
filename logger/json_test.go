package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogEntryString(t *testing.T) {
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(JSONLogEntry{Message: "hello"}.String()), &parsed))
	assert.Equal(t, "hello", parsed["message"])
	assert.Equal(t, "INFO", parsed["severity"])

	entry := JSONLogEntry{
		Message:  "fetch failed",
		Severity: "ERROR",
		Metadata: map[string]interface{}{"key": "todos", "attempt": 2},
	}
	require.NoError(t, json.Unmarshal([]byte(entry.String()), &parsed))
	metadata := parsed["metadata"].(map[string]interface{})
	assert.Equal(t, "todos", metadata["key"])
	assert.Equal(t, float64(2), metadata["attempt"])
}

func TestJSONLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLoggerWithSink(&buf, LevelInfo)
	log.Debug("dropped")
	log.WithPrefix("[query]").With(map[string]interface{}{"key": "todos"}).Info("refetch %d", 1)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed))
	assert.Equal(t, "refetch 1", parsed["message"])
	assert.Equal(t, "query", parsed["component"])
	assert.Equal(t, "todos", parsed["metadata"].(map[string]interface{})["key"])
}

func TestJSONLoggerFixedTimestamp(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	log := &jsonLogger{noConsole: true, sink: &buf, sinkLogLevel: LevelTrace, logLevel: LevelNone, ts: &ts}
	log.Warn("stale")
	assert.Contains(t, buf.String(), `"timestamp":"2024-03-01T12:00:00Z"`)
	assert.Contains(t, buf.String(), `"severity":"WARNING"`)
}

func TestJSONLoggerLevelEnabled(t *testing.T) {
	log := NewJSONLogger(LevelWarn)
	assert.False(t, log.IsLevelEnabled(LevelInfo))
	assert.True(t, log.IsLevelEnabled(LevelError))
}
