package parser

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stela-engine/scripthost/domain/ports"
)

// TomlConfigParser implements ConfigParser for TOML.
type TomlConfigParser struct{}

// NewTomlConfigParser creates a new TomlConfigParser.
func NewTomlConfigParser() ports.ConfigParser {
	return &TomlConfigParser{}
}

// Parse unmarshals TOML bytes into v. Unknown keys are rejected.
func (p *TomlConfigParser) Parse(data []byte, v any) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Format implements ConfigParser.
func (p *TomlConfigParser) Format() string {
	return "toml"
}
