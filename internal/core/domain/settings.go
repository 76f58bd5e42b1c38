package domain

import "gopkg.in/yaml.v3"

// Settings holds the user configuration of a prefab session.
type Settings struct {
	// UnexportedFields enables filling unexported struct fields.
	UnexportedFields bool
	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
	// Fixtures are hand-specified values for named types.
	Fixtures []Fixture
}

// Fixture declares the red and black values of a type by name.
// The values are decoded into fresh instances of the located type.
type Fixture struct {
	TypeName string
	Red      *yaml.Node
	Black    *yaml.Node
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{UnexportedFields: true}
}
