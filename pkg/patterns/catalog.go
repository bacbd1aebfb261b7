// Package patterns holds the scam pattern catalog: per-category keyword,
// urgency and authority-claim tables with confidence weights, plus the global
// red-flag and legitimate-indicator lists. The catalog is loaded once at
// startup and is read-only afterwards, so it is safe for unsynchronized
// concurrent reads from every detector instance.
//
// Design principles:
// - LOAD ONCE: the catalog is built at startup, never per-request
// - ORDERED: categories live in a slice, not a map, so score tie-breaks
//   ("first category wins") are deterministic
// - DATA, NOT CODE: the built-in bank can be replaced wholesale from YAML
package patterns

import "fmt"

// Category describes one scam archetype and the vocabulary that signals it.
type Category struct {
	// Name is the stable category identifier (e.g. "banking_fraud").
	Name string `yaml:"name"`

	// Keywords score +1 per match.
	Keywords []string `yaml:"keywords"`

	// UrgencyIndicators score +1.5 per match (pressure language specific to
	// this category, distinct from the global urgency vocabulary).
	UrgencyIndicators []string `yaml:"urgency_indicators"`

	// AuthorityClaims score +1.2 per match (impersonated institutions).
	AuthorityClaims []string `yaml:"authority_claims"`

	// ConfidenceWeight multiplies the raw score before categories compete.
	ConfidenceWeight float64 `yaml:"confidence_weight"`
}

// Catalog is the immutable pattern database consumed by the detector.
type Catalog struct {
	// Categories in declared order. Order matters: when two categories tie on
	// weighted score, the earlier one wins.
	Categories []Category `yaml:"categories"`

	// RedFlags are phrases indicative of fraud regardless of category.
	RedFlags []string `yaml:"red_flags"`

	// LegitimateIndicators are phrases that counter the scam signal.
	LegitimateIndicators []string `yaml:"legitimate_indicators"`
}

// Validate reports the first configuration problem found. A catalog that does
// not validate must be rejected at startup; the detector assumes a valid
// catalog and never re-checks at call time.
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("patterns: catalog has no categories")
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("patterns: category %d has empty name", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("patterns: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true

		if len(cat.Keywords) == 0 {
			return fmt.Errorf("patterns: category %q has no keywords", cat.Name)
		}
		if cat.ConfidenceWeight <= 0 {
			return fmt.Errorf("patterns: category %q has non-positive confidence weight %v",
				cat.Name, cat.ConfidenceWeight)
		}
	}
	return nil
}

// Lookup returns the category with the given name, or nil.
func (c *Catalog) Lookup(name string) *Category {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i]
		}
	}
	return nil
}

// CategoryNames returns the category identifiers in declared order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}
