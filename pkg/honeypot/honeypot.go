// Package honeypot wires the pipeline together: detection on the first
// message of a session, persona-driven engagement on every message after it,
// incremental intelligence harvesting throughout, and report synthesis plus
// callback delivery when the conversation ends.
package honeypot

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dagger-5328/honeytrap/pkg/callback"
	"github.com/dagger-5328/honeytrap/pkg/detect"
	"github.com/dagger-5328/honeytrap/pkg/engage"
	"github.com/dagger-5328/honeytrap/pkg/intel"
	"github.com/dagger-5328/honeytrap/pkg/persona"
	"github.com/dagger-5328/honeytrap/pkg/session"
)

// ErrEmptyMessage is returned for blank inbound text; callers reject it
// before the pipeline runs.
var ErrEmptyMessage = errors.New("honeypot: empty message")

// Canned replies for sessions the honeypot declines to engage, and for the
// goodbye once a conversation has run its course.
const (
	notScamReply       = "Thank you for your message."
	lowConfidenceReply = "I see. Thank you."
	partingReply       = "Thank you for the information. I need to go now."
)

// endMessageThreshold: once this many messages have been exchanged and the
// harvest holds at least one contact point, the engagement has paid off and
// the conversation winds down.
const endMessageThreshold = 5

// personaPreference picks the victim archetype most likely to keep each
// scam category talking.
var personaPreference = map[string]string{
	"banking_fraud":     "elderly_user",
	"tech_support_scam": "elderly_user",
	"prize_lottery":     "eager_customer",
	"investment_scam":   "eager_customer",
	"upi_fraud":         "eager_customer",
	"impersonation":     "worried_parent",
}

// Publisher delivers the final result of a session to an external endpoint.
type Publisher interface {
	Publish(ctx context.Context, result callback.Result) error
}

// Archiver persists completed reports.
type Archiver interface {
	SaveReport(ctx context.Context, report intel.Report) error
}

// Turn is the outcome of one inbound message.
type Turn struct {
	Reply        string `json:"reply"`
	ScamDetected bool   `json:"scam_detected"`
	Ended        bool   `json:"ended"`
}

// Honeypot is the orchestrator. Safe for concurrent use; requests for the
// same session id are serialized on a per-session lock.
type Honeypot struct {
	detector  *detect.Detector
	personas  *persona.Catalog
	extractor *intel.Extractor
	registry  session.Store
	publisher Publisher
	archive   Archiver

	minConfidence  int
	maxTurns       int
	minTypingDelay time.Duration
	maxTypingDelay time.Duration
	humanTouches   bool
	defaultPersona string

	now func() time.Time

	seedMu  sync.Mutex
	seedRng *rand.Rand

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// Option configures a Honeypot.
type Option func(*Honeypot)

// WithDetector overrides the detection engine.
func WithDetector(d *detect.Detector) Option {
	return func(h *Honeypot) { h.detector = d }
}

// WithPersonaCatalog overrides the persona bank.
func WithPersonaCatalog(c *persona.Catalog) Option {
	return func(h *Honeypot) { h.personas = c }
}

// WithExtractor overrides the extraction engine.
func WithExtractor(x *intel.Extractor) Option {
	return func(h *Honeypot) { h.extractor = x }
}

// WithPublisher sets the final-result callback target.
func WithPublisher(p Publisher) Option {
	return func(h *Honeypot) { h.publisher = p }
}

// WithArchive sets the report archive.
func WithArchive(a Archiver) Option {
	return func(h *Honeypot) { h.archive = a }
}

// WithMinConfidence sets the engagement threshold.
func WithMinConfidence(n int) Option {
	return func(h *Honeypot) { h.minConfidence = n }
}

// WithMaxTurns sets the per-conversation turn budget.
func WithMaxTurns(n int) Option {
	return func(h *Honeypot) { h.maxTurns = n }
}

// WithTypingDelay bounds Pace's simulated typing pause.
func WithTypingDelay(min, max time.Duration) Option {
	return func(h *Honeypot) {
		h.minTypingDelay = min
		h.maxTypingDelay = max
	}
}

// WithHumanTouches toggles typo/ellipsis post-processing on replies.
func WithHumanTouches(enabled bool) Option {
	return func(h *Honeypot) { h.humanTouches = enabled }
}

// WithDefaultPersona sets the persona used when no preference matches the
// scam type.
func WithDefaultPersona(id string) Option {
	return func(h *Honeypot) { h.defaultPersona = id }
}

// WithRand seeds the source from which per-session random streams derive.
func WithRand(rng *rand.Rand) Option {
	return func(h *Honeypot) { h.seedRng = rng }
}

// WithClock injects the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(h *Honeypot) { h.now = now }
}

// New builds an orchestrator over a session registry.
func New(registry session.Store, opts ...Option) *Honeypot {
	h := &Honeypot{
		registry:       registry,
		minConfidence:  detect.ScamThreshold,
		maxTurns:       engage.DefaultMaxTurns,
		minTypingDelay: 2 * time.Second,
		maxTypingDelay: 8 * time.Second,
		humanTouches:   true,
		now:            time.Now,
		seedRng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		locks:          make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.detector == nil {
		h.detector = detect.New(nil)
	}
	if h.personas == nil {
		h.personas = persona.Default()
	}
	if h.extractor == nil {
		h.extractor = intel.New()
	}
	return h
}

// HandleMessage runs one inbound adversary message through the pipeline and
// returns the honeypot's reply.
func (h *Honeypot) HandleMessage(ctx context.Context, sessionID, text string, ts time.Time) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}

	lock := h.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := h.registry.Get(ctx, sessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		st = &session.State{SessionID: sessionID, CreatedAt: h.now()}
	case err != nil:
		return Turn{}, err
	}
	st.LastSeenAt = h.now()

	if st.MessageCount == 0 {
		return h.firstMessage(ctx, st, text, ts)
	}
	return h.nextMessage(ctx, st, text, ts)
}

// firstMessage classifies the opening message and, when it clears the
// threshold, stands up a persona and starts the engagement.
func (h *Honeypot) firstMessage(ctx context.Context, st *session.State, text string, ts time.Time) (Turn, error) {
	result := h.detector.Detect(text)

	st.ScamDetected = result.IsScam
	st.ScamType = result.ScamType
	st.Confidence = result.Confidence
	st.Harvest.Merge(session.Harvest{SuspiciousKeywords: intel.SuspiciousKeywords(text)})

	if !result.IsScam {
		log.Printf("session %s: not a scam, ignoring", st.SessionID)
		if err := h.registry.Save(ctx, st); err != nil {
			return Turn{}, err
		}
		return Turn{Reply: notScamReply}, nil
	}
	if result.Confidence < h.minConfidence {
		log.Printf("session %s: low confidence (%d%%), ignoring", st.SessionID, result.Confidence)
		if err := h.registry.Save(ctx, st); err != nil {
			return Turn{}, err
		}
		return Turn{Reply: lowConfidenceReply}, nil
	}

	log.Printf("session %s: scam detected, type=%s confidence=%d%%",
		st.SessionID, result.ScamType, result.Confidence)

	engine := engage.New(h.personas,
		engage.WithPersona(h.personaFor(result.ScamType)),
		engage.WithMaxTurns(h.maxTurns),
		engage.WithHumanTouches(h.humanTouches),
		engage.WithRand(h.newRand()),
		engage.WithClock(func() time.Time { return ts }))

	reply, err := engine.StartConversation(text, result.ScamType)
	if err != nil {
		return Turn{}, err
	}

	st.Conversation = engine.Snapshot()
	st.MessageCount += 2
	st.Notes = append(st.Notes,
		"Scam type: "+result.ScamType+", Confidence: "+strconv.Itoa(result.Confidence)+"%")

	if err := h.registry.Save(ctx, st); err != nil {
		return Turn{}, err
	}
	return Turn{Reply: reply, ScamDetected: true}, nil
}

// nextMessage harvests the inbound text and produces the next persona reply,
// ending the session when its rules say the engagement is over.
func (h *Honeypot) nextMessage(ctx context.Context, st *session.State, text string, ts time.Time) (Turn, error) {
	if !st.ScamDetected {
		// The opening message never cleared the threshold; re-detect so a
		// scammer who warms up slowly can still be engaged.
		st.MessageCount = 0
		return h.firstMessage(ctx, st, text, ts)
	}

	mined := h.extractor.ExtractText(text)
	harvest := mined.Harvest()
	harvest.SuspiciousKeywords = intel.SuspiciousKeywords(text)
	st.Harvest.Merge(harvest)

	engine := engage.Resume(st.Conversation, h.personas,
		engage.WithHumanTouches(h.humanTouches),
		engage.WithRand(h.newRand()),
		engage.WithClock(func() time.Time { return ts }))

	reply, err := engine.GenerateResponse(text)
	if errors.Is(err, engage.ErrConversationEnded) {
		st.Conversation = engine.Snapshot()
		log.Printf("session %s: turn budget exhausted, closing", st.SessionID)
		if err := h.finalize(ctx, st); err != nil {
			return Turn{}, err
		}
		return Turn{Reply: partingReply, ScamDetected: true, Ended: true}, nil
	}
	if err != nil {
		return Turn{}, err
	}

	st.Conversation = engine.Snapshot()
	st.MessageCount += 2

	if st.MessageCount >= endMessageThreshold && !st.Harvest.Empty() {
		log.Printf("session %s: harvest complete after %d messages, closing",
			st.SessionID, st.MessageCount)
		st.Notes = append(st.Notes,
			"Conversation ended after "+strconv.Itoa(st.MessageCount)+" messages")
		if err := h.finalize(ctx, st); err != nil {
			return Turn{}, err
		}
		return Turn{Reply: reply, ScamDetected: true, Ended: true}, nil
	}

	if err := h.registry.Save(ctx, st); err != nil {
		return Turn{}, err
	}
	return Turn{Reply: reply, ScamDetected: true}, nil
}

// personaFor resolves the persona id for a scam type.
func (h *Honeypot) personaFor(scamType string) string {
	if id, ok := personaPreference[scamType]; ok {
		return id
	}
	return h.defaultPersona
}

// lockFor returns the mutex serializing access to one session id.
func (h *Honeypot) lockFor(sessionID string) *sync.Mutex {
	h.lockMu.Lock()
	defer h.lockMu.Unlock()
	lock, ok := h.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[sessionID] = lock
	}
	return lock
}

// newRand derives an independent random stream for one engine, so sessions
// never contend on a shared source.
func (h *Honeypot) newRand() *rand.Rand {
	h.seedMu.Lock()
	defer h.seedMu.Unlock()
	return rand.New(rand.NewSource(h.seedRng.Int63()))
}
