package parser

import (
	"bytes"
	"errors"
	"io"

	"github.com/stela-engine/scripthost/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse unmarshals YAML bytes into v. Unknown fields are rejected.
func (p *YamlConfigParser) Parse(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Format implements ConfigParser.
func (p *YamlConfigParser) Format() string {
	return "yaml"
}
