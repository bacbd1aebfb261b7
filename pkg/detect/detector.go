// Package detect scores a single inbound message against the scam pattern
// catalog and produces a classification verdict. Detection is a pure function
// of the message text and the catalog: no state, no side effects, no errors
// for well-formed input.
package detect

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dagger-5328/honeytrap/pkg/patterns"
)

// Pre-compiled regex patterns, compiled once at package load.
var (
	reURL = regexp.MustCompile(`(?i)https?://[^\s]+`)
	// Raw IPv4 host inside a URL. Scammers use IP literals to dodge domain
	// reputation checks.
	reIPHost = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
	// Indian mobile numbers, optionally prefixed with +91 or a leading 0.
	rePhone = regexp.MustCompile(`(\+91|0)?[6-9]\d{9}`)
)

// Scoring constants. The per-match weights and boost caps come from the
// calibrated detection formula; changing any of them shifts the 50-point
// scam threshold for the whole corpus.
const (
	keywordScore   = 1.0
	urgencyScore   = 1.5
	authorityScore = 1.2

	weightedMultiplier = 15
	redFlagBoost       = 10
	legitimatePenalty  = 20

	urlBoostWeight     = 10
	urlBoostCap        = 3
	phoneBoostWeight   = 8
	phoneBoostCap      = 2
	urgencyBoostWeight = 5
	urgencyBoostCap    = 3

	// ScamThreshold is the confidence at or above which a message is
	// classified as a scam.
	ScamThreshold = 50
)

var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

var urlShorteners = []string{"bit.ly", "tinyurl", "goo.gl"}

// Result is the detection verdict for one message.
type Result struct {
	IsScam          bool     `json:"is_scam"`
	Confidence      int      `json:"confidence"`
	ScamType        string   `json:"scam_type,omitempty"`
	MatchedPatterns []string `json:"matched_patterns"`
	RedFlags        []string `json:"red_flags"`
}

// Detector scores messages against one immutable catalog.
type Detector struct {
	catalog *patterns.Catalog
}

// New builds a detector over the given catalog. Pass nil to use the built-in
// default bank. The catalog must already be validated; Detect assumes it is
// well-formed.
func New(catalog *patterns.Catalog) *Detector {
	if catalog == nil {
		catalog = patterns.Default()
	}
	return &Detector{catalog: catalog}
}

// Detect classifies a single message. It never fails: empty or
// whitespace-only input yields a zero verdict.
func (d *Detector) Detect(text string) Result {
	normalized := Normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return Result{MatchedPatterns: []string{}, RedFlags: []string{}}
	}

	legitimateCount := 0
	for _, indicator := range d.catalog.LegitimateIndicators {
		if strings.Contains(normalized, strings.ToLower(indicator)) {
			legitimateCount++
		}
	}

	// Score every category; the winner is the maximum weighted score, ties
	// resolved by catalog order.
	var (
		topName     string
		topScore    float64
		topMatches  []string
		anyPositive bool
	)
	for _, cat := range d.catalog.Categories {
		raw, matches := scoreCategory(&cat, normalized)
		if raw <= 0 {
			continue
		}
		weighted := raw * cat.ConfidenceWeight
		if !anyPositive || weighted > topScore {
			topName = cat.Name
			topScore = weighted
			topMatches = matches
		}
		anyPositive = true
	}

	redFlags := []string{}
	for _, flag := range d.catalog.RedFlags {
		if strings.Contains(normalized, strings.ToLower(flag)) {
			redFlags = append(redFlags, flag)
		}
	}

	if !anyPositive {
		return Result{MatchedPatterns: []string{}, RedFlags: redFlags}
	}

	confidence := int(math.Round(
		topScore*weightedMultiplier +
			float64(len(redFlags)*redFlagBoost) -
			float64(legitimateCount*legitimatePenalty)))

	confidence += d.urlBoost(text)
	confidence += d.phoneBoost(text)
	confidence += d.urgencyBoost(normalized)

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	result := Result{
		IsScam:          confidence >= ScamThreshold,
		Confidence:      confidence,
		MatchedPatterns: topMatches,
		RedFlags:        redFlags,
	}
	if result.IsScam {
		result.ScamType = topName
	}
	return result
}

// Normalize applies NFKC folding and lower-cases the text, so fullwidth and
// compatibility forms match the catalog's plain-ASCII vocabulary.
func Normalize(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

func scoreCategory(cat *patterns.Category, normalized string) (float64, []string) {
	score := 0.0
	var matches []string

	for _, kw := range cat.Keywords {
		if strings.Contains(normalized, strings.ToLower(kw)) {
			score += keywordScore
			matches = append(matches, kw)
		}
	}
	for _, ind := range cat.UrgencyIndicators {
		if strings.Contains(normalized, strings.ToLower(ind)) {
			score += urgencyScore
			matches = append(matches, "urgency: "+ind)
		}
	}
	for _, claim := range cat.AuthorityClaims {
		if strings.Contains(normalized, strings.ToLower(claim)) {
			score += authorityScore
			matches = append(matches, "authority: "+claim)
		}
	}
	return score, matches
}

// urlBoost scores suspicious URL structure: risky TLDs and raw IP hosts count
// double against shortened links. The unit score is capped before weighting so
// one link farm cannot saturate confidence on its own.
func (d *Detector) urlBoost(text string) int {
	urls := reURL.FindAllString(text, -1)
	if len(urls) == 0 {
		return 0
	}

	score := 0
	for _, u := range urls {
		lower := strings.ToLower(u)
		for _, tld := range suspiciousTLDs {
			if strings.Contains(lower, tld) {
				score += 2
				break
			}
		}
		for _, short := range urlShorteners {
			if strings.Contains(lower, short) {
				score++
				break
			}
		}
		if reIPHost.MatchString(u) {
			score += 2
		}
	}
	if score > urlBoostCap {
		score = urlBoostCap
	}
	return score * urlBoostWeight
}

func (d *Detector) phoneBoost(text string) int {
	count := len(rePhone.FindAllString(text, -1))
	if count > phoneBoostCap {
		count = phoneBoostCap
	}
	return count * phoneBoostWeight
}

func (d *Detector) urgencyBoost(normalized string) int {
	count := 0
	for _, word := range patterns.UrgencyVocabulary {
		if strings.Contains(normalized, word) {
			count++
		}
	}
	if count > urgencyBoostCap {
		count = urgencyBoostCap
	}
	return count * urgencyBoostWeight
}
