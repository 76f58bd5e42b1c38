package config

import "gopkg.in/yaml.v3"

// Prefabfile represents the structure of the prefab.yaml configuration file.
type Prefabfile struct {
	Version          string       `yaml:"version"`
	UnexportedFields *bool        `yaml:"unexportedFields"`
	JSONLogs         bool         `yaml:"jsonLogs"`
	Fixtures         []FixtureDTO `yaml:"fixtures"`
}

// FixtureDTO represents a hand-specified pair of values for a named type.
type FixtureDTO struct {
	Type  string    `yaml:"type"`
	Red   yaml.Node `yaml:"red"`
	Black yaml.Node `yaml:"black"`
}
