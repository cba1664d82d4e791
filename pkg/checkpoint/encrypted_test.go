package checkpoint

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savepoint/pkg/logger"
)

func TestEncryptedCodecRequiresPassphrase(t *testing.T) {
	_, err := NewEncryptedCodec(JSONCodec{}, "")
	assert.Error(t, err)
}

func TestEncryptedCodecRoundTrip(t *testing.T) {
	codec, err := NewEncryptedCodec(nil, "correct horse battery staple")
	require.NoError(t, err)

	original := testSnapshot{Items: []int{1, 2, 3}, Value: "secret progress"}
	data, err := codec.Marshal(original)
	require.NoError(t, err)

	// The envelope stays plain JSON with no trace of the plaintext
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Contains(t, envelope, "salt")
	assert.Contains(t, envelope, "encrypted")
	assert.NotContains(t, string(data), "secret progress")

	var decoded testSnapshot
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestEncryptedCodecWrongPassphrase(t *testing.T) {
	codec, err := NewEncryptedCodec(JSONCodec{}, "right")
	require.NoError(t, err)

	data, err := codec.Marshal(testSnapshot{Value: "v"})
	require.NoError(t, err)

	wrong, err := NewEncryptedCodec(JSONCodec{}, "wrong")
	require.NoError(t, err)

	var decoded testSnapshot
	assert.Error(t, wrong.Unmarshal(data, &decoded))
}

func TestEncryptedStoreTreatsWrongKeyAsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	current := testSnapshot{Value: "v"}

	writeCodec, err := NewEncryptedCodec(JSONCodec{}, "first")
	require.NoError(t, err)
	writer, err := New(Options[testSnapshot]{
		Path:     path,
		Snapshot: func() testSnapshot { return current },
		Logger:   logger.NewTestLogger(),
		Codec:    writeCodec,
	})
	require.NoError(t, err)
	writer.Save()

	readCodec, err := NewEncryptedCodec(JSONCodec{}, "second")
	require.NoError(t, err)
	log := logger.NewTestLogger()
	initial := &testSnapshot{Value: "fallback"}
	reader, err := New(Options[testSnapshot]{
		Path:     path,
		Snapshot: func() testSnapshot { return current },
		Logger:   log,
		Initial:  initial,
		Codec:    readCodec,
	})
	require.NoError(t, err)

	restored, ok := reader.Restore()
	require.True(t, ok)
	assert.Equal(t, *initial, restored)
	assert.Equal(t, 1, log.CountByLevel("ERROR"))
}
