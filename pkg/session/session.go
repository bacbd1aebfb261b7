// Package session defines the honeypot session registry: the per-session-id
// record the orchestrator keeps while a scammer conversation is live, and the
// stores that persist it. Multiple API requests may target the same session
// id, so all mutation goes through the orchestrator's per-session lock; the
// stores themselves only guarantee atomic Save/Get of whole records.
package session

import (
	"errors"
	"time"
)

// Message roles. Adversary-authored messages carry the scammer role; the
// honeypot's own replies carry the agent role.
const (
	RoleScammer = "scammer"
	RoleAgent   = "agent"
)

// ErrNotFound is returned by stores when no record exists for a session id.
var ErrNotFound = errors.New("session: not found")

// Message is one turn of a conversation. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the serializable snapshot of a conversation engine: enough
// to resume reply generation on another process against the same catalogs.
type Conversation struct {
	PersonaID           string    `json:"persona_id"`
	ScamType            string    `json:"scam_type"`
	TurnNumber          int       `json:"turn_number"`
	MaxTurns            int       `json:"max_turns"`
	DetailRequestIssued bool      `json:"detail_request_issued"`
	Ended               bool      `json:"ended"`
	StartedAt           time.Time `json:"started_at"`
	History             []Message `json:"history"`
}

// Duration is the wall-clock span of the conversation so far.
func (c *Conversation) Duration() time.Duration {
	if len(c.History) < 2 {
		return 0
	}
	return c.History[len(c.History)-1].Timestamp.Sub(c.History[0].Timestamp)
}

// Harvest is the running tally of identifiers pulled out of the scammer's
// messages, in the wire shape the final-result callback expects.
type Harvest struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Empty reports whether nothing actionable has been harvested yet. Keywords
// alone do not count; they are context, not contact points.
func (h *Harvest) Empty() bool {
	return len(h.BankAccounts) == 0 &&
		len(h.UPIIDs) == 0 &&
		len(h.PhishingLinks) == 0 &&
		len(h.PhoneNumbers) == 0
}

// merge appends the values of src not already present in dst. The result is
// never nil so the harvest lists marshal as [] rather than null.
func merge(dst []string, src []string) []string {
	if dst == nil {
		dst = make([]string, 0, len(src))
	}
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			dst = append(dst, v)
			seen[v] = true
		}
	}
	return dst
}

// Merge folds another harvest into this one, deduplicating each list.
func (h *Harvest) Merge(other Harvest) {
	h.BankAccounts = merge(h.BankAccounts, other.BankAccounts)
	h.UPIIDs = merge(h.UPIIDs, other.UPIIDs)
	h.PhishingLinks = merge(h.PhishingLinks, other.PhishingLinks)
	h.PhoneNumbers = merge(h.PhoneNumbers, other.PhoneNumbers)
	h.SuspiciousKeywords = merge(h.SuspiciousKeywords, other.SuspiciousKeywords)
}

// State is one registry record.
type State struct {
	SessionID    string       `json:"session_id"`
	CreatedAt    time.Time    `json:"created_at"`
	LastSeenAt   time.Time    `json:"last_seen_at"`
	ScamDetected bool         `json:"scam_detected"`
	ScamType     string       `json:"scam_type"`
	Confidence   int          `json:"confidence"`
	MessageCount int          `json:"message_count"`
	Conversation Conversation `json:"conversation"`
	Harvest      Harvest      `json:"harvest"`
	Notes        []string     `json:"notes"`
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Clone returns a deep copy of the record. Stores hand out clones so readers
// never share slices with a record the orchestrator is still mutating.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	clone := *s

	clone.Conversation.History = make([]Message, len(s.Conversation.History))
	copy(clone.Conversation.History, s.Conversation.History)

	clone.Harvest = Harvest{
		BankAccounts:       cloneStrings(s.Harvest.BankAccounts),
		UPIIDs:             cloneStrings(s.Harvest.UPIIDs),
		PhishingLinks:      cloneStrings(s.Harvest.PhishingLinks),
		PhoneNumbers:       cloneStrings(s.Harvest.PhoneNumbers),
		SuspiciousKeywords: cloneStrings(s.Harvest.SuspiciousKeywords),
	}
	clone.Notes = cloneStrings(s.Notes)
	return &clone
}
