package persona

import (
	"math/rand"
	"strings"
	"testing"
)

func TestDefaultCatalogValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	ok := Persona{ID: "p1", VulnerabilityTier: TierLow}

	tests := []struct {
		name    string
		catalog Catalog
		wantSub string
	}{
		{
			name:    "no personas",
			catalog: Catalog{DetailRequests: []string{"x"}},
			wantSub: "no personas",
		},
		{
			name: "empty id",
			catalog: Catalog{
				Personas:       []Persona{{VulnerabilityTier: TierLow}},
				DetailRequests: []string{"x"},
			},
			wantSub: "empty id",
		},
		{
			name: "duplicate id",
			catalog: Catalog{
				Personas:       []Persona{ok, ok},
				DetailRequests: []string{"x"},
			},
			wantSub: "duplicate",
		},
		{
			name: "bad tier",
			catalog: Catalog{
				Personas:       []Persona{{ID: "p1", VulnerabilityTier: Tier("extreme")}},
				DetailRequests: []string{"x"},
			},
			wantSub: "invalid vulnerability tier",
		},
		{
			name: "no detail requests",
			catalog: Catalog{
				Personas: []Persona{ok},
			},
			wantSub: "no detail request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestSelectByID(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := Default()

	p := c.Select("worried_parent", rng)
	if p.ID != "worried_parent" {
		t.Fatalf("Select returned %q, want worried_parent", p.ID)
	}

	// Same id keeps resolving to the same persona regardless of rng state.
	for i := 0; i < 10; i++ {
		q := c.Select("worried_parent", rng)
		if q.ID != p.ID || q.Name != p.Name {
			t.Fatalf("Select not stable: got %q/%q", q.ID, q.Name)
		}
	}
}

func TestSelectUnknownFallsBackToRandom(t *testing.T) {
	c := Default()
	rng := rand.New(rand.NewSource(7))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		p := c.Select("no_such_persona", rng)
		seen[p.ID] = true
	}
	if len(seen) != len(c.Personas) {
		t.Fatalf("random fallback hit %d personas, want %d", len(seen), len(c.Personas))
	}
}

func TestSelectReturnsIndependentCopy(t *testing.T) {
	c := Default()
	rng := rand.New(rand.NewSource(3))

	p := c.Select("elderly_user", rng)
	p.Traits[0] = "mutated"
	p.Openers[OpenerFallbackKey][0] = "mutated"
	p.Openers["new_key"] = []string{"mutated"}

	q := c.Select("elderly_user", rng)
	if q.Traits[0] == "mutated" {
		t.Fatal("mutating a selected persona's traits leaked into the catalog")
	}
	if q.Openers[OpenerFallbackKey][0] == "mutated" {
		t.Fatal("mutating a selected persona's openers leaked into the catalog")
	}
	if _, ok := q.Openers["new_key"]; ok {
		t.Fatal("adding an opener key leaked into the catalog")
	}
}

func TestOpenerFallbackChain(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	p := Persona{
		ID: "p1",
		Openers: map[string][]string{
			"banking_fraud":   {"specific"},
			OpenerFallbackKey: {"fallback"},
		},
	}

	if got := p.Opener("banking_fraud", rng); got != "specific" {
		t.Fatalf("specific opener: got %q", got)
	}
	if got := p.Opener("upi_fraud", rng); got != "fallback" {
		t.Fatalf("default opener: got %q", got)
	}

	bare := Persona{ID: "p2"}
	if got := bare.Opener("banking_fraud", rng); got != genericOpener {
		t.Fatalf("generic opener: got %q", got)
	}
}

func TestShouldRequestDetailsThresholds(t *testing.T) {
	tests := []struct {
		tier    Tier
		minTurn int
	}{
		{TierHigh, 3},
		{TierMediumHigh, 4},
		{TierMedium, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))

			// Below the threshold turn the answer is always no.
			for turn := 0; turn < tt.minTurn; turn++ {
				for i := 0; i < 50; i++ {
					if ShouldRequestDetails(tt.tier, turn, rng) {
						t.Fatalf("tier %s asked for details on turn %d", tt.tier, turn)
					}
				}
			}

			// At or past the threshold it fires with positive probability.
			fired := false
			for i := 0; i < 200; i++ {
				if ShouldRequestDetails(tt.tier, tt.minTurn, rng) {
					fired = true
					break
				}
			}
			if !fired {
				t.Fatalf("tier %s never asked for details at turn %d", tt.tier, tt.minTurn)
			}
		})
	}
}

func TestShouldRequestDetailsLowNever(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for turn := 0; turn < 30; turn++ {
		if ShouldRequestDetails(TierLow, turn, rng) {
			t.Fatalf("low tier asked for details on turn %d", turn)
		}
	}
}

func TestStyleResponseElderly(t *testing.T) {
	p := Persona{ID: "elderly_user"}
	rng := rand.New(rand.NewSource(17))

	got := StyleResponse(&p, "What should I do?", 1, rng)
	if !strings.HasPrefix(got, "I'm not sure I understand...") {
		t.Fatalf("early elderly reply missing hesitation: %q", got)
	}

	got = StyleResponse(&p, "What should I do?", 5, rng)
	if strings.HasPrefix(got, "I'm not sure I understand...") {
		t.Fatalf("late elderly reply still hesitates: %q", got)
	}
}

func TestStyleResponseEagerExcitement(t *testing.T) {
	p := Persona{ID: "eager_customer"}
	rng := rand.New(rand.NewSource(19))

	got := StyleResponse(&p, "I won a prize? Tell me more.", 2, rng)
	if !strings.HasPrefix(got, "Really?!") {
		t.Fatalf("prize mention did not trigger excitement: %q", got)
	}
}

func TestStyleResponseBusyTruncates(t *testing.T) {
	p := Persona{ID: "busy_professional"}

	// Truncation is a coin flip; over enough seeds it must happen at least
	// once and the result must end at the first sentence.
	base := "First sentence. Second sentence that should sometimes disappear."
	truncated := false
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got := StyleResponse(&p, base, 2, rng)
		if got == "First sentence." {
			truncated = true
		}
	}
	if !truncated {
		t.Fatal("busy persona never truncated to the first sentence")
	}
}

func TestStyleResponseUnknownPassthrough(t *testing.T) {
	p := Persona{ID: "someone_else"}
	rng := rand.New(rand.NewSource(23))

	if got := StyleResponse(&p, "base reply", 1, rng); got != "base reply" {
		t.Fatalf("unknown persona altered the reply: %q", got)
	}
}

func TestParseYAML(t *testing.T) {
	src := `
personas:
  - id: night_nurse
    name: Lakshmi Rao
    age: 52
    occupation: nurse
    traits: [tired, kind]
    vulnerability_tier: medium
    openers:
      default:
        - "Hello, who is this?"
detail_requests:
  - "What account number do I need?"
`
	c, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Personas) != 1 || c.Personas[0].ID != "night_nurse" {
		t.Fatalf("unexpected catalog: %+v", c)
	}
	if c.Personas[0].VulnerabilityTier != TierMedium {
		t.Fatalf("tier = %q", c.Personas[0].VulnerabilityTier)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	if _, err := Parse([]byte("personas: []\ndetail_requests: [x]")); err == nil {
		t.Fatal("expected error for empty persona list")
	}
	if _, err := Parse([]byte(":::not yaml")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
