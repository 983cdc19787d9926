package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the templates a fresh store starts with.
func DefaultSeed() []Template {
	return []Template{
		{
			ID:       1,
			Name:     "First template",
			Alias:    "first-template",
			Subject:  "Hello from {{company.name}}",
			HTMLBody: "<html><body>Hello {{name}}<body><html>",
			TextBody: "Hello {{name}}",
			Active:   true,
		},
		{
			ID:       2,
			Name:     "Second template",
			Alias:    "second-template",
			Subject:  "Goodbye from {{company.name}}",
			HTMLBody: "<html><body>Goodbye {{name}}<body><html>",
			TextBody: "Goodbye {{name}}",
			Active:   false,
		},
	}
}

// LoadSeedFile reads a YAML list of templates. Entries without an id get one
// assigned on insert.
func LoadSeedFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML list of templates.
func ParseSeed(data []byte) ([]Template, error) {
	var out []Template
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("templates: parse seed: %w", err)
	}
	for i, t := range out {
		if t.ID < 0 {
			return nil, fmt.Errorf("templates: seed entry %d: %w", i, ErrInvalidTemplateID)
		}
	}
	return out, nil
}
