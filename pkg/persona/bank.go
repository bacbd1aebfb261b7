package persona

// =============================================================================
// BUILT-IN PERSONA BANK
// Four victim archetypes spanning the vulnerability tiers. Deployments swap
// the bank via Load/Parse; the conversation engine only sees a *Catalog.
// =============================================================================

// Default returns the built-in persona catalog. Shared, read-only.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = &Catalog{
	Personas: []Persona{
		{
			ID:                "elderly_user",
			Name:              "Savitri Deshmukh",
			Age:               68,
			Occupation:        "retired schoolteacher",
			Traits:            []string{"trusting", "unfamiliar with technology", "polite"},
			VulnerabilityTier: TierHigh,
			Openers: map[string][]string{
				"banking_fraud": {
					"I received your message. I'm not very good with technology, can you help me understand what this is about?",
					"Oh dear, is something wrong with my account? My grandson usually helps me with these things.",
				},
				"tech_support_scam": {
					"Hello? My computer has been acting strange lately. Are you calling about that?",
				},
				OpenerFallbackKey: {
					"Hello? I'm a bit confused by your message. What do I need to do?",
					"I'm worried about this. My grandson usually helps me with these things, but he's not here right now.",
				},
			},
		},
		{
			ID:                "eager_customer",
			Name:              "Rohit Malhotra",
			Age:               29,
			Occupation:        "sales executive",
			Traits:            []string{"impulsive", "optimistic", "deal-seeker"},
			VulnerabilityTier: TierMediumHigh,
			Openers: map[string][]string{
				"prize_lottery": {
					"Wow, really? I never win anything! Tell me more!",
					"This is amazing news! What do I need to do to claim it?",
				},
				"investment_scam": {
					"I've been looking for a good investment actually. What kind of returns are we talking about?",
				},
				OpenerFallbackKey: {
					"Hi! I just saw your message. This sounds interesting!",
					"I'm excited! What do I need to do next?",
				},
			},
		},
		{
			ID:                "worried_parent",
			Name:              "Meena Iyer",
			Age:               45,
			Occupation:        "homemaker",
			Traits:            []string{"anxious", "protective", "cautious but persuadable"},
			VulnerabilityTier: TierMedium,
			Openers: map[string][]string{
				"impersonation": {
					"Police? Is my family in trouble? Please tell me what's happening.",
				},
				OpenerFallbackKey: {
					"I just saw this message. Is everything okay? Should I be concerned?",
					"What's this about? Is there a problem?",
					"I'm worried now. Please tell me what's happening.",
				},
			},
		},
		{
			ID:                "busy_professional",
			Name:              "Arjun Nair",
			Age:               38,
			Occupation:        "project manager",
			Traits:            []string{"impatient", "distracted", "skeptical"},
			VulnerabilityTier: TierLow,
			Openers: map[string][]string{
				OpenerFallbackKey: {
					"I saw your message. I'm in the middle of something, but what's this about?",
					"Quick question - what do you need from me?",
					"I have a few minutes. What's the issue?",
				},
			},
		},
	},

	DetailRequests: []string{
		"Where should I send the money?",
		"What account number do I need?",
		"Can you give me the details?",
		"What's your UPI ID?",
		"Should I click on that link you sent?",
		"What information do you need from me?",
	},
}
