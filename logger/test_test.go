package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestLoggerMethods(t *testing.T) {
	log := NewTestLogger()

	log.Trace("Trace message %d", 1)
	log.Debug("Debug message %d", 2)
	log.Info("Info message %d", 3)
	log.Warn("Warn message %d", 4)
	log.Error("Error message %d", 5)

	logs := log.Logs()
	assert.Len(t, logs, 5)
	assert.Equal(t, "TRACE", logs[0].Severity)
	assert.Equal(t, "Trace message 1", logs[0].String())
	assert.Equal(t, "WARNING", logs[3].Severity)
	assert.Equal(t, []interface{}{5}, logs[4].Arguments)
	assert.True(t, log.Contains("INFO", "message 3"))
	assert.False(t, log.Contains("ERROR", "message 3"))
}

func TestTestLoggerDerivedShareRecord(t *testing.T) {
	log := NewTestLogger()
	derived := log.With(map[string]interface{}{"key": "value"}).WithPrefix("[x]")
	derived.Info("from child")
	assert.True(t, log.Contains("INFO", "from child"))
}

func TestTestLoggerConcurrent(t *testing.T) {
	log := NewTestLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Debug("tick")
		}()
	}
	wg.Wait()
	assert.Len(t, log.Logs(), 20)
}

func TestTestLoggerStack(t *testing.T) {
	first := NewTestLogger()
	second := NewTestLogger()
	first.Stack(second).Error("boom")
	assert.True(t, first.Contains("ERROR", "boom"))
	assert.True(t, second.Contains("ERROR", "boom"))
}
