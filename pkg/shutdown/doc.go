// Package shutdown coordinates a final checkpoint save when the process
// is asked to stop or crashes.
//
// A Coordinator registers with an injectable event Source for four kinds
// of shutdown trigger: interrupt and terminate signals, a recovered panic,
// and a fatal background failure. The first event to arrive flips a
// one-way guard, logs the cause, runs the configured Saver once, and exits
// the process: status 0 for signals, 1 for crashes. Later events are
// no-ops, so near-simultaneous signals cannot double-save or double-exit.
package shutdown
