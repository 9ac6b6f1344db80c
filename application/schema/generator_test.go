package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loopSection struct {
	TickRate int `json:"tick_rate" jsonschema:"description=Frames per second"`
}

type sampleConfig struct {
	Path   string      `json:"path"`
	Loop   loopSection `json:"loop"`
	Types  []string    `json:"types,omitempty"`
	Watch  bool        `json:"watch,omitempty"`
	Budget *int        `json:"budget,omitempty"`
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestGenerateSchema_Properties(t *testing.T) {
	data, err := GenerateSchema(&sampleConfig{})
	require.NoError(t, err)

	decoded := decode(t, data)
	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "properties should be a map")
	assert.Len(t, props, 5)

	required, ok := decoded["required"].([]any)
	require.True(t, ok, "required should be an array")
	assert.ElementsMatch(t, []any{"path", "loop"}, required)

	assert.Contains(t, string(data), "Frames per second")
}

func TestGenerateSchema_Options(t *testing.T) {
	data, err := GenerateSchema(&sampleConfig{},
		WithID("https://example.com/host.schema.json"),
		WithTitle("host", "Script host configuration"),
	)
	require.NoError(t, err)

	decoded := decode(t, data)
	assert.Equal(t, "https://example.com/host.schema.json", decoded["$id"])
	assert.Equal(t, "host", decoded["title"])
	assert.Equal(t, "Script host configuration", decoded["description"])
}

func TestGenerateSchema_EmptyStruct(t *testing.T) {
	type empty struct{}

	data, err := GenerateSchema(empty{})
	require.NoError(t, err)
	assert.NotEmpty(t, decode(t, data))
}
