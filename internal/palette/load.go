package palette

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a custom theme table.
//
//	themes:
//	  - name: teal
//	    hex: "#009485"
//	    rgb: "0, 148, 133"
type fileFormat struct {
	Themes Table `yaml:"themes"`
}

// Parse decodes and validates a YAML theme table.
func Parse(data []byte) (Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse theme table: %v", ErrInvalidConfiguration, err)
	}
	if err := Validate(f.Themes); err != nil {
		return nil, err
	}
	return f.Themes, nil
}

// LoadFile reads a YAML theme table from path. An empty path returns the
// built-in table.
func LoadFile(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme table %s: %w", path, err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("theme table %s: %w", path, err)
	}
	return table, nil
}
