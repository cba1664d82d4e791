package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// EventKind identifies what triggered a shutdown
type EventKind string

const (
	// KindInterrupt is an operator interrupt (SIGINT / Ctrl+C)
	KindInterrupt EventKind = "interrupt"
	// KindTerminate is a termination request (SIGTERM)
	KindTerminate EventKind = "terminate"
	// KindPanic is an uncaught panic recovered at the top of main
	KindPanic EventKind = "panic"
	// KindFault is a fatal failure reported from a background goroutine
	KindFault EventKind = "fault"
)

// Kinds lists every event kind a coordinator registers for
var Kinds = []EventKind{KindInterrupt, KindTerminate, KindPanic, KindFault}

// ExitCode returns the process status for a shutdown triggered by this
// kind: 0 for voluntary termination, 1 for a crash.
func (k EventKind) ExitCode() int {
	switch k {
	case KindInterrupt, KindTerminate:
		return 0
	default:
		return 1
	}
}

// Event is a single shutdown notification
type Event struct {
	Kind  EventKind
	Cause string
}

// Handler reacts to a shutdown event
type Handler func(Event)

// Source is the injectable capability the coordinator depends on instead
// of mutating process-wide signal state directly. Tests substitute a fake
// source to drive events deterministically.
type Source interface {
	// Register adds a handler for an event kind
	Register(kind EventKind, handler Handler)

	// Fire delivers an event to every handler registered for its kind
	Fire(event Event)
}

// SystemSource is the production Source. OS signals arrive through
// signal.Notify; panic and fault events are fired by the coordinator's
// HandlePanic and Fail helpers.
type SystemSource struct {
	mu       sync.Mutex
	handlers map[EventKind][]Handler
	sigCh    chan os.Signal
	once     sync.Once
	stopOnce sync.Once
	done     chan struct{}
}

// NewSystemSource creates a Source backed by the host process's signals
func NewSystemSource() *SystemSource {
	return &SystemSource{
		handlers: make(map[EventKind][]Handler),
		done:     make(chan struct{}),
	}
}

// Register implements Source. Registering for a signal kind starts the
// signal listener on first use.
func (s *SystemSource) Register(kind EventKind, handler Handler) {
	s.mu.Lock()
	s.handlers[kind] = append(s.handlers[kind], handler)
	s.mu.Unlock()

	if kind == KindInterrupt || kind == KindTerminate {
		s.listen()
	}
}

// Fire implements Source
func (s *SystemSource) Fire(event Event) {
	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers[event.Kind]...)
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Stop detaches from process signals. Mainly for tests; a real process
// exits from inside a handler.
func (s *SystemSource) Stop() {
	s.stopOnce.Do(func() {
		if s.sigCh != nil {
			signal.Stop(s.sigCh)
		}
		close(s.done)
	})
}

// listen starts the goroutine that maps OS signals to events
func (s *SystemSource) listen() {
	s.once.Do(func() {
		s.sigCh = make(chan os.Signal, 2)
		signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			for {
				select {
				case sig := <-s.sigCh:
					kind := KindTerminate
					if sig == syscall.SIGINT {
						kind = KindInterrupt
					}
					s.Fire(Event{Kind: kind, Cause: sig.String() + " received"})
				case <-s.done:
					return
				}
			}
		}()
	})
}
