// Package config provides the configuration loader for prefab.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the name of the configuration file looked up by default.
const DefaultFilename = "prefab.yaml"

const currentVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration at path. A missing file yields the defaults.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		l.Logger.Info("no configuration at " + path + ", using defaults")
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return nil, zerr.With(
			zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "loading configuration"),
			"path", path,
		)
	}
	return Parse(data, path)
}

// Parse decodes the content of a configuration file. path only names the
// source in errors.
func Parse(data []byte, path string) (*domain.Settings, error) {
	var file Prefabfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(
			zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "loading configuration"),
			"path", path,
		)
	}

	if file.Version != "" && file.Version != currentVersion {
		err := zerr.Wrap(domain.ErrUnsupportedConfigVersion, "expected version "+currentVersion)
		err = zerr.With(err, "path", path)
		return nil, zerr.With(err, "version", file.Version)
	}

	settings := domain.DefaultSettings()
	if file.UnexportedFields != nil {
		settings.UnexportedFields = *file.UnexportedFields
	}
	settings.JSONLogs = file.JSONLogs

	for i, dto := range file.Fixtures {
		fixture, err := toFixture(dto)
		if err != nil {
			err = zerr.With(err, "path", path)
			return nil, zerr.With(err, "fixture", strconv.Itoa(i))
		}
		settings.Fixtures = append(settings.Fixtures, fixture)
	}
	return settings, nil
}

func toFixture(dto FixtureDTO) (domain.Fixture, error) {
	var reason string
	switch {
	case dto.Type == "":
		reason = "fixture has no type"
	case dto.Red.IsZero():
		reason = "fixture " + dto.Type + " has no red value"
	case dto.Black.IsZero():
		reason = "fixture " + dto.Type + " has no black value"
	default:
		return domain.Fixture{TypeName: dto.Type, Red: &dto.Red, Black: &dto.Black}, nil
	}
	return domain.Fixture{}, zerr.Wrap(domain.ErrConfigParseFailed, reason)
}
