// Package persona holds the victim persona catalog: synthetic identities with
// a vulnerability tier and template-driven voice, used to keep a scammer
// engaged while the honeypot steers them toward revealing payment details.
// Like the pattern catalog, it is loaded once and read-only afterwards.
package persona

import (
	"fmt"
	"math/rand"
)

// Tier is the coarse propensity-to-comply rank. Higher tiers volunteer
// payment-detail questions earlier in the conversation.
type Tier string

const (
	TierLow        Tier = "low"
	TierMedium     Tier = "medium"
	TierMediumHigh Tier = "medium-high"
	TierHigh       Tier = "high"
)

// validTiers in escalation order.
var validTiers = map[Tier]bool{
	TierLow:        true,
	TierMedium:     true,
	TierMediumHigh: true,
	TierHigh:       true,
}

// OpenerFallbackKey is the Openers map key holding templates used when no
// scam-type-specific set is configured.
const OpenerFallbackKey = "default"

// genericOpener is the last-resort reply when a persona has no opener
// templates at all.
const genericOpener = "Hello, I received your message."

// Persona is one synthetic victim identity.
type Persona struct {
	ID                string              `yaml:"id"`
	Name              string              `yaml:"name"`
	Age               int                 `yaml:"age"`
	Occupation        string              `yaml:"occupation"`
	Traits            []string            `yaml:"traits"`
	VulnerabilityTier Tier                `yaml:"vulnerability_tier"`
	Openers           map[string][]string `yaml:"openers"`
}

// Catalog is the immutable persona database.
type Catalog struct {
	// Personas in declared order, so random selection over a seeded source
	// is reproducible.
	Personas []Persona `yaml:"personas"`

	// DetailRequests is the shared bank of payment-detail solicitations.
	DetailRequests []string `yaml:"detail_requests"`
}

// Validate reports the first configuration problem found.
func (c *Catalog) Validate() error {
	if len(c.Personas) == 0 {
		return fmt.Errorf("persona: catalog has no personas")
	}

	seen := make(map[string]bool, len(c.Personas))
	for i, p := range c.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona: persona %d has empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("persona: duplicate persona %q", p.ID)
		}
		seen[p.ID] = true

		if !validTiers[p.VulnerabilityTier] {
			return fmt.Errorf("persona: persona %q has invalid vulnerability tier %q",
				p.ID, p.VulnerabilityTier)
		}
	}

	if len(c.DetailRequests) == 0 {
		return fmt.Errorf("persona: catalog has no detail request templates")
	}
	return nil
}

// Select returns a copy of the persona with the given id, or a uniformly
// random one when the id is empty or unknown. The copy is independent of the
// catalog entry: callers may mutate it freely without poisoning other
// conversations.
func (c *Catalog) Select(id string, rng *rand.Rand) Persona {
	for i := range c.Personas {
		if c.Personas[i].ID == id {
			return clone(&c.Personas[i])
		}
	}
	return clone(&c.Personas[rng.Intn(len(c.Personas))])
}

// Opener picks an opening reply for the given scam type: a random choice
// among the persona's templates for that category, falling back to the
// persona's default set and finally to a generic acknowledgement.
func (p *Persona) Opener(scamType string, rng *rand.Rand) string {
	candidates := p.Openers[scamType]
	if len(candidates) == 0 {
		candidates = p.Openers[OpenerFallbackKey]
	}
	if len(candidates) == 0 {
		return genericOpener
	}
	return candidates[rng.Intn(len(candidates))]
}

// DetailRequest picks a payment-detail solicitation from the shared bank.
func (c *Catalog) DetailRequest(rng *rand.Rand) string {
	return c.DetailRequests[rng.Intn(len(c.DetailRequests))]
}

func clone(p *Persona) Persona {
	out := *p
	out.Traits = append([]string(nil), p.Traits...)
	out.Openers = make(map[string][]string, len(p.Openers))
	for k, v := range p.Openers {
		out.Openers[k] = append([]string(nil), v...)
	}
	return out
}
