package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savepoint/pkg/config"
)

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "shouty"})
	assert.Error(t, err)
}

func TestNewConsoleLogger(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)
	require.NotNil(t, log)
	require.NotNil(t, log.GetZerolog())

	// Must not panic
	log.Info("hello")
	log.WithField("k", "v").Error("world")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"ERROR", false},
		{"disabled", false},
		{"", true},
		{"verbose", true},
	}

	for _, tt := range tests {
		_, err := parseLogLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "level %q", tt.input)
		} else {
			assert.NoError(t, err, "level %q", tt.input)
		}
	}
}

func TestTestLoggerCapture(t *testing.T) {
	log := NewTestLogger()

	log.Info("first")
	log.Error("second")
	log.ErrorWithFields("third", map[string]interface{}{"path": "/tmp/cp.json"})

	assert.Equal(t, 1, log.CountByLevel("INFO"))
	assert.Equal(t, 2, log.CountByLevel("ERROR"))
	assert.True(t, log.HasMessage("ERROR", "third"))
	assert.False(t, log.HasMessage("WARN", "first"))

	messages := log.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "/tmp/cp.json", messages[2].Fields["path"])
}

func TestTestLoggerWithFieldsReachesRoot(t *testing.T) {
	root := NewTestLogger()

	child := root.WithField("component", "checkpoint")
	child.Error("failed")

	grandchild := child.WithError(errors.New("disk full"))
	grandchild.Error("failed again")

	assert.Equal(t, 2, root.CountByLevel("ERROR"))
	messages := root.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "checkpoint", messages[0].Fields["component"])
	assert.Equal(t, "disk full", messages[1].Fields["error"])
}

func TestTestLoggerReset(t *testing.T) {
	log := NewTestLogger()
	log.Info("noise")
	log.Reset()
	assert.Empty(t, log.Messages())
}

func TestNopLogger(t *testing.T) {
	log := Nop()
	log.Info("discarded")
	log.WithFields(map[string]interface{}{"k": 1}).Error("also discarded")
}
