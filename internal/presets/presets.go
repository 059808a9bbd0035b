// Package presets ships the built-in theme palettes.
//
// Presets are declared as partial light/dark overrides in an embedded YAML
// file and materialized into full documents through the engine's defaults.
package presets

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/hueforge/themed/internal/theme"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is one built-in palette declaration.
type Preset struct {
	Name   string            `yaml:"name"`
	Author string            `yaml:"author"`
	Light  map[string]string `yaml:"light"`
	Dark   map[string]string `yaml:"dark"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// All decodes the embedded preset declarations.
func All() ([]Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(presetsYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("no presets declared")
	}
	return file.Presets, nil
}

// Materialize turns a preset into a complete theme document.
func (p Preset) Materialize() *theme.ThemeDocument {
	doc := theme.NewWithDefaults(p.Name, p.Light, p.Dark)
	doc.Author = p.Author
	return doc
}

// ID returns the stable identifier a preset is stored under.
func (p Preset) ID() string {
	return theme.SanitizeName(p.Name)
}
