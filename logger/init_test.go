package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLevelFromEnv(t *testing.T) {
	tests := []struct {
		name          string
		envValue      string
		expectedLevel LogLevel
	}{
		{name: "trace level", envValue: "trace", expectedLevel: LevelTrace},
		{name: "debug level", envValue: "debug", expectedLevel: LevelDebug},
		{name: "info level", envValue: "info", expectedLevel: LevelInfo},
		{name: "warn level", envValue: "warn", expectedLevel: LevelWarn},
		{name: "warning alias", envValue: "warning", expectedLevel: LevelWarn},
		{name: "error level", envValue: "error", expectedLevel: LevelError},
		{name: "off", envValue: "off", expectedLevel: LevelNone},
		{name: "uppercase trace", envValue: "TRACE", expectedLevel: LevelTrace},
		{name: "mixed case debug", envValue: "DeBuG", expectedLevel: LevelDebug},
		{name: "empty string", envValue: "", expectedLevel: LevelInfo},
		{name: "invalid value", envValue: "invalid", expectedLevel: LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LevelEnv, tt.envValue)
			assert.Equal(t, tt.expectedLevel, GetLevelFromEnv())
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, ok := ParseLevel("error", LevelDebug)
	assert.True(t, ok)
	assert.Equal(t, LevelError, level)

	level, ok = ParseLevel("loud", LevelDebug)
	assert.False(t, ok)
	assert.Equal(t, LevelDebug, level)
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "trace", LevelTrace.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "none", LevelNone.String())
}

func TestNewSelectsFormat(t *testing.T) {
	_, isJSON := New("json", LevelInfo).(*jsonLogger)
	assert.True(t, isJSON)
	_, isConsole := New("console", LevelInfo).(*consoleLogger)
	assert.True(t, isConsole)
}
