// internal/rulestore/file.go
package rulestore

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the layout of a rule definitions file.
type Document struct {
	Rules []Definition `yaml:"rules"`
}

// LoadFile reads rule definitions from a YAML file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule definitions: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a YAML definitions document. Unknown keys are rejected.
func Parse(r io.Reader) ([]Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []Definition{}, nil
		}
		return nil, fmt.Errorf("parse rule definitions: %w", err)
	}
	if doc.Rules == nil {
		doc.Rules = []Definition{}
	}
	return doc.Rules, nil
}
