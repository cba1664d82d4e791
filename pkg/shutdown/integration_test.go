package shutdown_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savepoint/pkg/checkpoint"
	"savepoint/pkg/logger"
	"savepoint/pkg/shutdown"
)

// recordingSource is a Source double for driving the full save-then-exit
// path against a real checkpoint store.
type recordingSource struct {
	mu       sync.Mutex
	handlers map[shutdown.EventKind][]shutdown.Handler
}

func (s *recordingSource) Register(kind shutdown.EventKind, handler shutdown.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		s.handlers = make(map[shutdown.EventKind][]shutdown.Handler)
	}
	s.handlers[kind] = append(s.handlers[kind], handler)
}

func (s *recordingSource) Fire(event shutdown.Event) {
	s.mu.Lock()
	handlers := append([]shutdown.Handler(nil), s.handlers[event.Kind]...)
	s.mu.Unlock()
	for _, handler := range handlers {
		handler(event)
	}
}

type workState struct {
	Processed int      `json:"processed"`
	Pending   []string `json:"pending"`
}

func TestTerminationSavesCheckpointToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	state := workState{Processed: 42, Pending: []string{"a", "b"}}

	store, err := checkpoint.New(checkpoint.Options[workState]{
		Path:     path,
		Snapshot: func() workState { return state },
		Logger:   logger.NewTestLogger(),
	})
	require.NoError(t, err)

	source := &recordingSource{}
	var exitCode = -1
	shutdown.New(store, logger.NewTestLogger(), source, shutdown.WithExitFunc(func(code int) {
		exitCode = code
	}))

	// Nothing on disk until the signal arrives
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	source.Fire(shutdown.Event{Kind: shutdown.KindTerminate, Cause: "terminated"})

	assert.Equal(t, 0, exitCode)

	restored, ok := store.Restore()
	require.True(t, ok)
	assert.Equal(t, state, restored)
}

func TestCrashSavesBeforeExitingNonZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	state := workState{Processed: 7}

	store, _, ok, err := checkpoint.NewWithRestore(checkpoint.Options[workState]{
		Path:     path,
		Snapshot: func() workState { return state },
		Logger:   logger.NewTestLogger(),
	})
	require.NoError(t, err)
	assert.False(t, ok, "cold start: nothing to restore")

	source := &recordingSource{}
	var exitCode = -1
	coordinator := shutdown.New(store, logger.NewTestLogger(), source, shutdown.WithExitFunc(func(code int) {
		exitCode = code
	}))

	func() {
		defer coordinator.HandlePanic()
		panic("worker goroutine died")
	}()

	assert.Equal(t, 1, exitCode)

	fresh, err := checkpoint.New(checkpoint.Options[workState]{
		Path:     path,
		Snapshot: func() workState { return workState{} },
		Logger:   logger.NewTestLogger(),
	})
	require.NoError(t, err)
	restored, restoredOK := fresh.Restore()
	require.True(t, restoredOK)
	assert.Equal(t, state, restored)
}
