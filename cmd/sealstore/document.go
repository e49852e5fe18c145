package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadDocument reads a YAML or JSON file whose top level is a mapping. An
// empty file is an empty mapping.
func loadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
