package autosave

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savepoint/pkg/logger"
)

type countingSaver struct {
	saves atomic.Int64
}

func (c *countingSaver) Save() {
	c.saves.Add(1)
}

func TestNewValidation(t *testing.T) {
	log := logger.NewTestLogger()

	_, err := New(nil, time.Second, log)
	assert.Error(t, err)

	_, err = New(&countingSaver{}, 0, log)
	assert.Error(t, err)

	_, err = New(&countingSaver{}, -time.Second, log)
	assert.Error(t, err)
}

func TestRunSavesPeriodically(t *testing.T) {
	saver := &countingSaver{}
	runner, err := New(saver, 10*time.Millisecond, logger.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	// Wait long enough for several ticks
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}

	saved := saver.saves.Load()
	assert.GreaterOrEqual(t, saved, int64(3), "expected several periodic saves")

	// No further saves after cancellation
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, saved, saver.saves.Load())
}

func TestStartStopsOnCancel(t *testing.T) {
	saver := &countingSaver{}
	runner, err := New(saver, 5*time.Millisecond, logger.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)

	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	assert.Greater(t, saver.saves.Load(), int64(0))
}
