package checkpoint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	original := testSnapshot{Items: []int{1, 2, 3}, Value: "test"}

	data, err := codec.Marshal(original)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  "), "output should be indented")

	var decoded testSnapshot
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestJSONCodecRejectsGarbage(t *testing.T) {
	var decoded testSnapshot
	err := JSONCodec{}.Unmarshal([]byte(`{ this is not valid JSON }`), &decoded)
	assert.Error(t, err)
}

func TestYAMLCodec(t *testing.T) {
	codec := YAMLCodec{}
	original := testSnapshot{Items: []int{7}, Value: "yaml"}

	data, err := codec.Marshal(original)
	require.NoError(t, err)

	var decoded testSnapshot
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestYAMLCodecRejectsGarbage(t *testing.T) {
	var decoded testSnapshot
	err := YAMLCodec{}.Unmarshal([]byte("\t\tnot: [valid"), &decoded)
	assert.Error(t, err)
}
