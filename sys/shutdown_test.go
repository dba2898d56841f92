package sys

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShutdownChannel(t *testing.T) {
	done := CreateShutdownChannel()
	assert.NotNil(t, done)
}

func TestShutdownContextCancelledBySignal(t *testing.T) {
	ctx, stop := ShutdownContext(context.Background())
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for signal")
	}
}
