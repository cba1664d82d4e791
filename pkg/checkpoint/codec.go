package checkpoint

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec serializes a snapshot to the on-disk checkpoint format and back.
// Reading must be the exact inverse of writing; any content a codec cannot
// decode is treated as corruption by the store.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSONCodec is the default codec: JSON with two-space indentation, so the
// checkpoint file stays human-readable.
type JSONCodec struct{}

// Marshal serializes v to indented JSON
func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Unmarshal deserializes JSON into v
func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// YAMLCodec serializes snapshots as YAML for callers that prefer it for
// hand inspection. Same contract as JSONCodec.
type YAMLCodec struct{}

// Marshal serializes v to YAML
func (YAMLCodec) Marshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal deserializes YAML into v
func (YAMLCodec) Unmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}
