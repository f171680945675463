package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Load decodes a single YAML deployment document from r. It performs
// no cross-reference validation; call Build on the result to produce a
// validated entity graph.
func Load(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(false)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if file.Name == "" {
		file.Name = "local"
	}
	return &file, nil
}
