package checkpoint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	errs "savepoint/pkg/errors"
	"savepoint/pkg/logger"
)

// SnapshotFunc returns the current snapshot value at the moment of the
// call. It must be synchronous and side-effect free; a panic inside it is
// recovered by Save and treated as a write failure.
type SnapshotFunc[T any] func() T

// Options configures a Store. Immutable after construction.
type Options[T any] struct {
	// Path is the single checkpoint file. Required.
	Path string

	// Snapshot supplies the value to persist on every Save. Required.
	Snapshot SnapshotFunc[T]

	// Logger receives all failure information; nothing is ever returned
	// to the caller from Restore or Save. Defaults to the global logger.
	Logger logger.Logger

	// Initial is the fallback value Restore returns when no usable
	// checkpoint exists. Optional.
	Initial *T

	// Codec controls the file format. Defaults to JSONCodec.
	Codec Codec
}

// Store persists a single opaque snapshot to one file and restores it on
// startup. Every failure degrades to the configured fallback: Restore and
// Save never return errors.
//
// Concurrent saves are not serialized; whichever write completes last
// wins. Callers needing stronger guarantees must coordinate externally.
type Store[T any] struct {
	path     string
	snapshot SnapshotFunc[T]
	logger   logger.Logger
	initial  *T
	codec    Codec
}

// New creates a Store. The only errors are construction-time option
// problems; once built, the store's operations never fail loudly.
func New[T any](opts Options[T]) (*Store[T], error) {
	if opts.Path == "" {
		return nil, errors.New("checkpoint path is required")
	}
	if opts.Snapshot == nil {
		return nil, errors.New("snapshot provider is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	codec := opts.Codec
	if codec == nil {
		codec = JSONCodec{}
	}

	return &Store[T]{
		path:     opts.Path,
		snapshot: opts.Snapshot,
		logger:   log,
		initial:  opts.Initial,
		codec:    codec,
	}, nil
}

// NewWithRestore creates a Store and immediately restores from it,
// collapsing the common two-step startup sequence. The returned value is
// the restored snapshot if one exists, otherwise the configured initial
// data; ok follows the Restore contract.
func NewWithRestore[T any](opts Options[T]) (*Store[T], T, bool, error) {
	store, err := New(opts)
	if err != nil {
		var zero T
		return nil, zero, false, err
	}
	value, ok := store.Restore()
	return store, value, ok, nil
}

// Restore reads the checkpoint file and returns the deserialized snapshot.
// A missing file is a normal cold start. Corruption and storage failures
// are logged and resolved the same way: fall back to the configured
// initial data, or (zero, false) when none was configured. Restore never
// panics and never surfaces an error.
func (s *Store[T]) Restore() (T, bool) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return s.fallback()
		}
		s.logFailure("checkpoint existence check failed", errs.New(errs.ErrorTypeStorage, "restore", err))
		return s.fallback()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logFailure("failed to read checkpoint file", errs.New(errs.ErrorTypeStorage, "restore", err))
		return s.fallback()
	}

	var value T
	if err := s.codec.Unmarshal(data, &value); err != nil {
		s.logFailure("checkpoint file is corrupt", errs.New(errs.ErrorTypeCorrupt, "restore", err))
		return s.fallback()
	}

	s.logger.InfoWithFields("checkpoint restored", map[string]interface{}{
		"path":       s.path,
		"size_bytes": len(data),
	})

	return value, true
}

// Save captures the current snapshot and writes it to the checkpoint file,
// fully replacing any prior contents. All failures are logged and
// swallowed; periodic checkpointing must never take the process down.
func (s *Store[T]) Save() {
	value, ok := s.capture()
	if !ok {
		return
	}

	data, err := s.codec.Marshal(value)
	if err != nil {
		s.logFailure("failed to serialize snapshot", errs.New(errs.ErrorTypeEncode, "save", err))
		return
	}

	if err := s.write(data); err != nil {
		s.logFailure("failed to write checkpoint file", errs.New(errs.ErrorTypeStorage, "save", err))
		return
	}

	s.logger.DebugWithFields("checkpoint saved", map[string]interface{}{
		"path":       s.path,
		"size_bytes": len(data),
	})
}

// Exists checks if the checkpoint file is present
func (s *Store[T]) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the configured checkpoint file path
func (s *Store[T]) Path() string {
	return s.path
}

// capture invokes the snapshot provider, converting a panic into a logged
// provider failure.
func (s *Store[T]) capture() (value T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("snapshot provider panicked: %v", r)
			s.logFailure("snapshot provider failed", errs.New(errs.ErrorTypeProvider, "save", err))
			ok = false
		}
	}()
	return s.snapshot(), true
}

// write replaces the checkpoint file contents via a temp file and rename,
// matching how the file is read back: one path, whole contents.
func (s *Store[T]) write(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		// Best effort; a failure here surfaces on the create below
		_ = os.MkdirAll(dir, 0755)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write checkpoint data: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	return nil
}

// fallback returns the configured initial data, or the zero value with
// ok=false when none was configured.
func (s *Store[T]) fallback() (T, bool) {
	if s.initial != nil {
		return *s.initial, true
	}
	var zero T
	return zero, false
}

// logFailure emits exactly one error entry per failure path
func (s *Store[T]) logFailure(msg string, failure *errs.Error) {
	s.logger.ErrorWithFields(msg, map[string]interface{}{
		"path":       s.path,
		"error_type": string(failure.Type),
		"error":      failure.Error(),
	})
}
