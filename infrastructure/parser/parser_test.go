package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `toml:"name" yaml:"name"`
	Pages uint32   `toml:"pages" yaml:"pages"`
	Types []string `toml:"types" yaml:"types"`
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"host.toml", "toml"},
		{"host.yaml", "yaml"},
		{"conf/HOST.YML", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, p.Format())
		})
	}

	_, err := ForPath("host.json")
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestTomlConfigParser(t *testing.T) {
	var s sample
	err := NewTomlConfigParser().Parse([]byte("name = \"scripts\"\npages = 16\ntypes = [\"Input\"]\n"), &s)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "scripts", Pages: 16, Types: []string{"Input"}}, s)

	err = NewTomlConfigParser().Parse([]byte("nmae = \"typo\"\n"), &s)
	assert.ErrorContains(t, err, "unknown keys: nmae")

	err = NewTomlConfigParser().Parse([]byte("name = "), &s)
	assert.Error(t, err)
}

func TestYamlConfigParser(t *testing.T) {
	var s sample
	err := NewYamlConfigParser().Parse([]byte("name: scripts\npages: 16\ntypes: [Input]\n"), &s)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "scripts", Pages: 16, Types: []string{"Input"}}, s)

	err = NewYamlConfigParser().Parse([]byte("nmae: typo\n"), &s)
	assert.Error(t, err)

	// An empty document leaves v untouched.
	s = sample{Name: "kept"}
	require.NoError(t, NewYamlConfigParser().Parse(nil, &s))
	assert.Equal(t, "kept", s.Name)
}
