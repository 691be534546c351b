package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolicCall_Inline(t *testing.T) {
	v, err := symbolicCall(context.Background(), 0, func() int { return 42 })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestSymbolicCall_RecoversPanic(t *testing.T) {
	for _, timeout := range []time.Duration{0, time.Second} {
		_, err := symbolicCall(context.Background(), timeout, func() int { panic("boom") })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	}
}

func TestSymbolicCall_Timeout(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	_, err := symbolicCall(context.Background(), 10*time.Millisecond, func() int {
		defer close(finished)
		<-release
		return 1
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
	<-finished
}

func TestSymbolicCall_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, err := symbolicCall(ctx, 0, func() int {
		defer close(finished)
		<-release
		return 1
	})
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
	<-finished
}
