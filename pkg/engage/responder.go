package engage

import (
	"math/rand"
	"strings"

	"github.com/dagger-5328/honeytrap/pkg/persona"
)

// =============================================================================
// REPLY SELECTION
// Classification is keyword-driven and strictly ordered: the detail-request
// gate outranks everything, then urgency, threats, prizes, payment talk and
// links, with a compliant default when nothing matches. Within a class the
// reply is a uniform random pick.
// =============================================================================

var (
	urgencySignals = []string{"urgent", "immediately", "now", "hurry"}
	threatSignals  = []string{"police", "arrest", "legal", "court", "blocked"}
	prizeSignals   = []string{"won", "prize", "lottery", "money", "reward"}
	paymentSignals = []string{"pay", "send", "transfer", "account"}

	urgencyReplies = []string{
		"Oh my, this sounds urgent! What should I do?",
		"I'm worried now. Please tell me exactly what to do.",
		"Okay, I'll do it right away. Just tell me how.",
	}
	threatReplies = []string{
		"I don't want any trouble! What do I need to do to fix this?",
		"Please, I'll cooperate. Just tell me what you need.",
		"I'm scared. How can I resolve this issue?",
	}
	prizeReplies = []string{
		"This is amazing! How do I claim it?",
		"I can't believe it! What do I need to do?",
		"Wonderful! Please guide me through the process.",
	}
	paymentReplies = []string{
		"Where exactly should I send it?",
		"What are the account details?",
		"Can you confirm the payment information?",
		"Should I use UPI or bank transfer?",
	}
	linkReplies = []string{
		"Should I click on that link?",
		"Is it safe to open that link?",
		"I see the link. What will happen when I click it?",
	}
	defaultReplies = []string{
		"Okay, I understand. What's next?",
		"Yes, I can do that. Please tell me more.",
		"I'm following along. What should I do now?",
		"Alright, I'm ready. What information do you need?",
		"I see. Can you explain the next step?",
	}
)

// composeReply picks the base reply for the scammer's latest message. The
// detail request fires at most once per conversation; it is the engine's
// whole reason for existing, so it preempts the keyword classes.
func (e *Engine) composeReply(adversaryMessage string) string {
	if !e.detailIssued &&
		persona.ShouldRequestDetails(e.persona.VulnerabilityTier, e.turn, e.rng) {
		e.detailIssued = true
		return e.catalog.DetailRequest(e.rng)
	}

	lower := strings.ToLower(adversaryMessage)

	switch {
	case containsAny(lower, urgencySignals):
		return pick(e.rng, urgencyReplies)
	case containsAny(lower, threatSignals):
		return pick(e.rng, threatReplies)
	case containsAny(lower, prizeSignals):
		return pick(e.rng, prizeReplies)
	case containsAny(lower, paymentSignals):
		return pick(e.rng, paymentReplies)
	case strings.Contains(lower, "http") || strings.Contains(lower, "link"):
		return pick(e.rng, linkReplies)
	default:
		return pick(e.rng, defaultReplies)
	}
}

func pick(rng *rand.Rand, replies []string) string {
	return replies[rng.Intn(len(replies))]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
