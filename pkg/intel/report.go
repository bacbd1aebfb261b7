package intel

import (
	"strings"
	"time"

	"github.com/dagger-5328/honeytrap/pkg/session"
)

// tacticSignatures maps a tactic label to the vocabulary that marks it.
// A tactic is reported iff any of its words appears in the adversary text.
// Label order here is report order.
var tacticSignatures = []struct {
	label string
	words []string
}{
	{"urgency", []string{"urgent", "immediately", "now", "hurry"}},
	{"fear", []string{"police", "arrest", "legal", "court"}},
	{"authority", []string{"official", "government", "bank", "department"}},
	{"greed", []string{"won", "prize", "lottery", "reward"}},
	{"social_engineering", []string{"verify", "confirm", "update", "security"}},
}

// suspiciousVocabulary feeds the running keyword harvest: generic scam
// vocabulary noted per inbound message, independent of the category catalog.
var suspiciousVocabulary = []string{
	"urgent", "immediately", "verify", "confirm", "account blocked",
	"suspended", "expire", "click here", "update now", "verify now",
	"limited time", "act now", "congratulations", "winner", "prize",
	"lottery", "reward", "claim", "free", "offer", "deal",
	"police", "arrest", "legal action", "court", "fine",
	"tax", "refund", "payment", "transfer", "send money",
}

// Summary is the conversation metadata block of a report.
type Summary struct {
	MessageCount    int      `json:"message_count"`
	DurationSeconds int      `json:"duration_seconds"`
	PersonaUsed     string   `json:"persona_used"`
	Tactics         []string `json:"tactics"`
}

// Report is the final artifact for a completed engagement.
type Report struct {
	ConversationID        string            `json:"conversation_id"`
	Timestamp             time.Time         `json:"timestamp"`
	ScamType              string            `json:"scam_type"`
	ConfidenceScore       int               `json:"confidence_score"`
	ExtractedIntelligence Intelligence      `json:"extracted_intelligence"`
	ConversationSummary   Summary           `json:"conversation_summary"`
	FullTranscript        []session.Message `json:"full_transcript"`
}

// GenerateReport runs extraction and tactic analysis over the transcript and
// assembles the report.
func (x *Extractor) GenerateReport(conversationID, scamType string, confidence int,
	transcript []session.Message, personaUsed string, duration time.Duration) Report {

	return Report{
		ConversationID:        conversationID,
		Timestamp:             x.now().UTC(),
		ScamType:              scamType,
		ConfidenceScore:       confidence,
		ExtractedIntelligence: x.ExtractAll(transcript),
		ConversationSummary: Summary{
			MessageCount:    len(transcript),
			DurationSeconds: int(duration.Seconds()),
			PersonaUsed:     personaUsed,
			Tactics:         AnalyzeTactics(transcript),
		},
		FullTranscript: transcript,
	}
}

// AnalyzeTactics labels the pressure techniques present in the scammer's
// side of the transcript. Never nil; no tactics reports as [].
func AnalyzeTactics(transcript []session.Message) []string {
	text := strings.ToLower(adversaryText(transcript))

	tactics := []string{}
	for _, sig := range tacticSignatures {
		if containsAny(text, sig.words) {
			tactics = append(tactics, sig.label)
		}
	}
	return tactics
}

// SuspiciousKeywords lists the generic scam vocabulary present in one
// message, for the running session harvest.
func SuspiciousKeywords(text string) []string {
	lower := strings.ToLower(text)

	var keywords []string
	for _, word := range suspiciousVocabulary {
		if strings.Contains(lower, word) {
			keywords = append(keywords, word)
		}
	}
	return keywords
}
