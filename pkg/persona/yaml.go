package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a persona catalog from YAML and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("persona: parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("persona: invalid catalog: %w", err)
	}
	return &c, nil
}

// Load reads a persona catalog from a YAML file on disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persona: read catalog %s: %w", path, err)
	}
	return Parse(data)
}
