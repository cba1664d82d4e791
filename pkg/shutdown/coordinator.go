package shutdown

import (
	"fmt"
	"os"
	"sync/atomic"

	"savepoint/pkg/logger"
)

// Saver is the save operation the coordinator triggers before the process
// ends. checkpoint.Store satisfies it.
type Saver interface {
	Save()
}

// Coordinator ensures that termination signals and fatal failures trigger
// exactly one checkpoint save before the process exits. The first
// qualifying event wins; everything after it is a no-op.
type Coordinator struct {
	saver        Saver
	logger       logger.Logger
	source       Source
	exit         func(int)
	shuttingDown atomic.Bool
}

// Option customizes a Coordinator
type Option func(*Coordinator)

// WithExitFunc replaces os.Exit, letting tests observe the exit status
// without terminating the test process.
func WithExitFunc(fn func(int)) Option {
	return func(c *Coordinator) {
		c.exit = fn
	}
}

// New creates a Coordinator and registers one handler for each event kind
// on the source. Registration is the construction-time side effect tying
// the coordinator to the process lifetime; there is no unregister.
func New(saver Saver, log logger.Logger, source Source, opts ...Option) *Coordinator {
	if log == nil {
		log = logger.GetLogger()
	}
	if source == nil {
		source = NewSystemSource()
	}

	c := &Coordinator{
		saver:  saver,
		logger: log,
		source: source,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, kind := range Kinds {
		source.Register(kind, c.handle)
	}

	return c
}

// handle runs the save-then-exit sequence for the first event only. The
// guard flips before any blocking work begins, so a second event arriving
// mid-save cannot start a second sequence.
func (c *Coordinator) handle(event Event) {
	if !c.shuttingDown.CompareAndSwap(false, true) {
		return
	}

	fields := map[string]interface{}{
		"kind":  string(event.Kind),
		"cause": event.Cause,
	}
	if event.Kind.ExitCode() == 0 {
		c.logger.InfoWithFields("shutting down, saving checkpoint", fields)
	} else {
		c.logger.ErrorWithFields("crashing, saving checkpoint", fields)
	}

	// Save failures are absorbed and logged by the store; exiting anyway
	// is the whole point of a termination handler.
	if c.saver != nil {
		c.saver.Save()
	}

	c.exit(event.Kind.ExitCode())
}

// HandlePanic recovers a panic and routes it through the source as a
// crash event. Defer it at the top of main:
//
//	defer coordinator.HandlePanic()
func (c *Coordinator) HandlePanic() {
	if r := recover(); r != nil {
		c.source.Fire(Event{Kind: KindPanic, Cause: fmt.Sprintf("panic: %v", r)})
	}
}

// Fail reports a fatal failure from a background goroutine, triggering
// save-then-exit(1) through the same guarded path as every other event.
func (c *Coordinator) Fail(err error) {
	cause := "background failure"
	if err != nil {
		cause = err.Error()
	}
	c.source.Fire(Event{Kind: KindFault, Cause: cause})
}

// ShuttingDown reports whether the coordinator has begun shutting down
func (c *Coordinator) ShuttingDown() bool {
	return c.shuttingDown.Load()
}
