package persona

import (
	"math/rand"
	"strings"
)

// detailThresholds maps a vulnerability tier to the earliest turn at which
// the persona may volunteer a payment-detail question, and the per-turn
// probability once eligible. TierLow personas never ask.
var detailThresholds = map[Tier]struct {
	minTurn int
	prob    float64
}{
	TierHigh:       {minTurn: 3, prob: 0.6},
	TierMediumHigh: {minTurn: 4, prob: 0.5},
	TierMedium:     {minTurn: 5, prob: 0.4},
}

// ShouldRequestDetails decides whether the persona asks the scammer for
// payment details on this turn.
func ShouldRequestDetails(tier Tier, turn int, rng *rand.Rand) bool {
	th, ok := detailThresholds[tier]
	if !ok {
		return false
	}
	if turn < th.minTurn {
		return false
	}
	return rng.Float64() < th.prob
}

// StyleResponse reshapes a base reply to the persona's voice: hesitation for
// the elderly persona on early turns, excitement for the eager customer,
// concern for the worried parent, terseness for the busy professional.
// Unknown persona ids pass the reply through untouched.
func StyleResponse(p *Persona, base string, turn int, rng *rand.Rand) string {
	response := base

	switch p.ID {
	case "elderly_user":
		if turn <= 2 {
			response = "I'm not sure I understand... " + response
		}
		if rng.Float64() < 0.3 {
			response += " Is this safe?"
		}

	case "eager_customer":
		lower := strings.ToLower(base)
		if strings.Contains(lower, "prize") || strings.Contains(lower, "won") {
			response = "Really?! " + response
		}
		if rng.Float64() < 0.4 {
			response += " How quickly can we do this?"
		}

	case "worried_parent":
		if turn <= 3 {
			response = "Oh no, " + response
		}
		if rng.Float64() < 0.3 {
			response += " I need to make sure my family is safe."
		}

	case "busy_professional":
		if turn == 1 {
			response = "I'm quite busy, but " + response
		}
		if rng.Float64() < 0.5 {
			// Keep it short: first sentence only.
			if idx := strings.Index(response, "."); idx >= 0 {
				response = response[:idx+1]
			}
		}
	}

	return response
}
