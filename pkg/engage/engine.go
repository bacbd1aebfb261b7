// Package engage implements the conversation engine: a small state machine
// that plays a persona against a live scammer, one reply per adversary
// message, with the goal of keeping the scammer talking until payment
// details surface.
package engage

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dagger-5328/honeytrap/pkg/persona"
	"github.com/dagger-5328/honeytrap/pkg/session"
)

// State is the engine lifecycle phase.
type State string

const (
	// StateStarted: constructed, no opener sent yet.
	StateStarted State = "started"
	// StateEngaged: opener sent, replies flowing.
	StateEngaged State = "engaged"
	// StateEnded: terminal. Ended conversations stay ended.
	StateEnded State = "ended"
)

// ErrConversationEnded is returned once the conversation is terminal, either
// because the turn budget ran out or the caller ended it.
var ErrConversationEnded = errors.New("engage: conversation ended")

// ErrAlreadyStarted is returned when StartConversation is called twice.
var ErrAlreadyStarted = errors.New("engage: conversation already started")

// DefaultMaxTurns bounds how long the engine will keep a scammer talking.
const DefaultMaxTurns = 20

// Engine drives one conversation. Not safe for concurrent use; the
// orchestrator serializes access per session.
type Engine struct {
	catalog *persona.Catalog
	persona persona.Persona

	personaID   string
	maxTurns    int
	humanTouch  bool
	rng         *rand.Rand
	now         func() time.Time

	state        State
	scamType     string
	turn         int
	detailIssued bool
	startedAt    time.Time
	history      []session.Message
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersona pins the persona id instead of letting the engine pick one at
// random. Unknown ids still fall back to a random catalog entry.
func WithPersona(id string) Option {
	return func(e *Engine) { e.personaID = id }
}

// WithMaxTurns overrides the turn budget.
func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

// WithRand injects the random source. Tests pass a seeded source for
// reproducible transcripts.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock injects the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHumanTouches toggles the typo and ellipsis post-processing.
func WithHumanTouches(enabled bool) Option {
	return func(e *Engine) { e.humanTouch = enabled }
}

// New builds an engine over the given persona catalog. A nil catalog falls
// back to the built-in bank.
func New(catalog *persona.Catalog, opts ...Option) *Engine {
	if catalog == nil {
		catalog = persona.Default()
	}
	e := &Engine{
		catalog:    catalog,
		maxTurns:   DefaultMaxTurns,
		humanTouch: true,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		state:      StateStarted,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.persona = catalog.Select(e.personaID, e.rng)
	return e
}

// Resume rebuilds an engine from a registry snapshot so a conversation can
// continue on another process. The snapshot's persona id must resolve
// against the same catalog the conversation started with, or the voice
// changes mid-conversation.
func Resume(snap session.Conversation, catalog *persona.Catalog, opts ...Option) *Engine {
	e := New(catalog, opts...)
	e.personaID = snap.PersonaID
	e.persona = e.catalog.Select(snap.PersonaID, e.rng)
	e.scamType = snap.ScamType
	e.turn = snap.TurnNumber
	if snap.MaxTurns > 0 {
		e.maxTurns = snap.MaxTurns
	}
	e.detailIssued = snap.DetailRequestIssued
	e.startedAt = snap.StartedAt
	e.history = append([]session.Message(nil), snap.History...)
	switch {
	case snap.Ended:
		e.state = StateEnded
	case len(snap.History) > 0:
		e.state = StateEngaged
	}
	return e
}

// Snapshot captures the engine state for the session registry.
func (e *Engine) Snapshot() session.Conversation {
	return session.Conversation{
		PersonaID:           e.persona.ID,
		ScamType:            e.scamType,
		TurnNumber:          e.turn,
		MaxTurns:            e.maxTurns,
		DetailRequestIssued: e.detailIssued,
		Ended:               e.state == StateEnded,
		StartedAt:           e.startedAt,
		History:             append([]session.Message(nil), e.history...),
	}
}

// State returns the current lifecycle phase.
func (e *Engine) State() State { return e.state }

// Persona returns the identity the engine is playing.
func (e *Engine) Persona() persona.Persona { return e.persona }

// History returns the transcript so far, oldest first.
func (e *Engine) History() []session.Message {
	return append([]session.Message(nil), e.history...)
}

// Turn returns the current turn number.
func (e *Engine) Turn() int { return e.turn }

// End marks the conversation terminal. Idempotent.
func (e *Engine) End() { e.state = StateEnded }

// StartConversation records the scammer's opening message and returns the
// persona's opener for the detected scam type.
func (e *Engine) StartConversation(initialMessage, scamType string) (string, error) {
	if e.state != StateStarted {
		if e.state == StateEnded {
			return "", ErrConversationEnded
		}
		return "", ErrAlreadyStarted
	}

	e.scamType = scamType
	e.startedAt = e.now()
	e.record(session.RoleScammer, initialMessage)

	reply := e.persona.Opener(scamType, e.rng)
	reply = e.humanize(reply)
	e.record(session.RoleAgent, reply)

	e.turn = 1
	e.state = StateEngaged
	return reply, nil
}

// GenerateResponse records the scammer's message and produces the persona's
// next reply. Once the turn budget is exhausted the conversation goes
// terminal and every further call returns ErrConversationEnded.
func (e *Engine) GenerateResponse(adversaryMessage string) (string, error) {
	if e.state == StateEnded {
		return "", ErrConversationEnded
	}
	if e.state == StateStarted {
		// A reply before StartConversation means the caller skipped
		// detection; treat the message as the opener with no known type.
		return e.StartConversation(adversaryMessage, "")
	}

	e.record(session.RoleScammer, adversaryMessage)
	e.turn++

	if e.turn > e.maxTurns {
		e.state = StateEnded
		return "", ErrConversationEnded
	}

	reply := e.composeReply(adversaryMessage)
	reply = persona.StyleResponse(&e.persona, reply, e.turn, e.rng)
	reply = e.humanize(reply)
	e.record(session.RoleAgent, reply)
	return reply, nil
}

func (e *Engine) record(role, content string) {
	e.history = append(e.history, session.Message{
		Role:      role,
		Content:   content,
		Timestamp: e.now(),
	})
}
