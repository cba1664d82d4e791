package logger

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger implementation for tests that captures every log
// entry so assertions can count them by level.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
	zerolog  *zerolog.Logger

	// parent, when set, receives this logger's entries (set by WithFields)
	parent *TestLogger
}

var _ Logger = (*TestLogger)(nil)

// LogMessage represents a captured log entry
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	nopLogger := zerolog.Nop()
	return &TestLogger{
		messages: make([]LogMessage, 0),
		fields:   make(map[string]interface{}),
		zerolog:  &nopLogger,
	}
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }

// Fatal captures the entry without exiting, so tests can assert on it
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.log("FATAL", msg, fields)
}

// WithField returns a logger whose captured entries carry the field
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger whose captured entries carry the fields.
// Entries still land in the parent's message list.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	child := &TestLogger{
		fields:  make(map[string]interface{}, len(l.fields)+len(fields)),
		zerolog: l.zerolog,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	child.parent = l.root()
	return child
}

func (l *TestLogger) root() *TestLogger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

// WithError adds an error field
func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// GetZerolog returns a no-op zerolog instance
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.zerolog
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	target := l.root()
	target.mu.Lock()
	defer target.mu.Unlock()
	target.messages = append(target.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
	})
}

// Messages returns a copy of all captured log entries
func (l *TestLogger) Messages() []LogMessage {
	target := l.root()
	target.mu.Lock()
	defer target.mu.Unlock()
	out := make([]LogMessage, len(target.messages))
	copy(out, target.messages)
	return out
}

// CountByLevel returns how many entries were logged at the given level
func (l *TestLogger) CountByLevel(level string) int {
	target := l.root()
	target.mu.Lock()
	defer target.mu.Unlock()
	count := 0
	for _, m := range target.messages {
		if m.Level == level {
			count++
		}
	}
	return count
}

// HasMessage reports whether any entry at level contains substr
func (l *TestLogger) HasMessage(level, substr string) bool {
	target := l.root()
	target.mu.Lock()
	defer target.mu.Unlock()
	for _, m := range target.messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Reset discards all captured entries
func (l *TestLogger) Reset() {
	target := l.root()
	target.mu.Lock()
	defer target.mu.Unlock()
	target.messages = target.messages[:0]
}
