package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLoggerLevels(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleLogger(LevelWarn).(*consoleLogger)
	c.out = log.New(&out, "", 0)

	c.Info("hidden")
	c.Warn("shown %s", "warning")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown warning")
}

func TestConsoleLoggerSinkStripsColor(t *testing.T) {
	var sink bytes.Buffer
	c := NewConsoleLogger(LevelNone)
	c.SetSink(&sink, LevelDebug)
	c.WithPrefix("[api]").With(map[string]interface{}{"status": 404}).Debug("GET /todos/1")

	assert.Contains(t, sink.String(), "[api] GET /todos/1")
	assert.Contains(t, sink.String(), `{"status":404}`)
	assert.NotContains(t, sink.String(), "\033[")
}

func TestConsoleLoggerPrefixNotDuplicated(t *testing.T) {
	c := NewConsoleLogger(LevelInfo)
	l := c.WithPrefix("[query]").WithPrefix("[query]").(*consoleLogger)
	assert.Equal(t, []string{"[query]"}, l.prefixes)
}
