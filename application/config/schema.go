package config

import "github.com/stela-engine/scripthost/application/schema"

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	return schema.GenerateSchema(&HostConfig{}, schema.WithTitle("scripthost", "Script host configuration"))
}
