package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse builds a catalog from YAML bytes and validates it. Used directly by
// tests with in-memory fixtures.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("patterns: parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog from a YAML file. A load failure is a startup-time
// configuration error; callers must not fall back to a partial catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: read catalog %s: %w", path, err)
	}
	return Parse(data)
}
