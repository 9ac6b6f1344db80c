// Package parser provides the configuration document parsers.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stela-engine/scripthost/domain/ports"
)

// ForPath picks a parser by file extension: .toml, .yaml or .yml.
func ForPath(path string) (ports.ConfigParser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTomlConfigParser(), nil
	case ".yaml", ".yml":
		return NewYamlConfigParser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}
