package honeypot

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dagger-5328/honeytrap/pkg/callback"
	"github.com/dagger-5328/honeytrap/pkg/intel"
	"github.com/dagger-5328/honeytrap/pkg/session"
)

// finalize synthesizes the report for a finished session, ships it to the
// archive and the callback endpoint, and drops the registry record. Delivery
// failures are logged; session teardown always completes.
func (h *Honeypot) finalize(ctx context.Context, st *session.State) error {
	report := h.extractor.GenerateReport(
		uuid.NewString(),
		st.ScamType,
		st.Confidence,
		st.Conversation.History,
		st.Conversation.PersonaID,
		st.Conversation.Duration(),
	)

	if h.archive != nil {
		if err := h.archive.SaveReport(ctx, report); err != nil {
			log.Printf("session %s: archive report: %v", st.SessionID, err)
		}
	}
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, h.finalResult(st)); err != nil {
			log.Printf("session %s: publish final result: %v", st.SessionID, err)
		}
	}

	if err := h.registry.Delete(ctx, st.SessionID); err != nil {
		log.Printf("session %s: drop registry record: %v", st.SessionID, err)
	}
	h.dropLock(st.SessionID)
	return nil
}

func (h *Honeypot) finalResult(st *session.State) callback.Result {
	notes := "Conversation completed"
	if len(st.Notes) > 0 {
		notes = strings.Join(st.Notes, " | ")
	}
	return callback.Result{
		SessionID:              st.SessionID,
		ScamDetected:           st.ScamDetected,
		TotalMessagesExchanged: st.MessageCount,
		ExtractedIntelligence:  st.Harvest,
		AgentNotes:             notes,
	}
}

// EndSession terminates a session externally, running extraction and report
// synthesis against whatever transcript exists.
func (h *Honeypot) EndSession(ctx context.Context, sessionID string) (intel.Report, error) {
	lock := h.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := h.registry.Get(ctx, sessionID)
	if err != nil {
		return intel.Report{}, err
	}

	st.Conversation.Ended = true
	st.Notes = append(st.Notes, "Session terminated externally")

	report := h.extractor.GenerateReport(
		uuid.NewString(),
		st.ScamType,
		st.Confidence,
		st.Conversation.History,
		st.Conversation.PersonaID,
		st.Conversation.Duration(),
	)

	if h.archive != nil {
		if err := h.archive.SaveReport(ctx, report); err != nil {
			log.Printf("session %s: archive report: %v", st.SessionID, err)
		}
	}
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, h.finalResult(st)); err != nil {
			log.Printf("session %s: publish final result: %v", st.SessionID, err)
		}
	}
	if err := h.registry.Delete(ctx, sessionID); err != nil {
		log.Printf("session %s: drop registry record: %v", sessionID, err)
	}
	h.dropLock(sessionID)
	return report, nil
}

// Session returns a copy of one live session record.
func (h *Honeypot) Session(ctx context.Context, sessionID string) (*session.State, error) {
	return h.registry.Get(ctx, sessionID)
}

// Sessions lists the live session records.
func (h *Honeypot) Sessions(ctx context.Context) ([]*session.State, error) {
	return h.registry.List(ctx)
}

// Pace blocks for a random simulated typing delay between the configured
// bounds. The wait is timer-based and aborts as soon as ctx is cancelled, so
// a slow session never pins a worker.
func (h *Honeypot) Pace(ctx context.Context) error {
	delay := h.minTypingDelay
	if span := h.maxTypingDelay - h.minTypingDelay; span > 0 {
		h.seedMu.Lock()
		jitter := time.Duration(h.seedRng.Int63n(int64(span)))
		h.seedMu.Unlock()
		delay += jitter
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// dropLock forgets the per-session mutex once its session is gone. Called
// while holding the session's lock; the map entry can be recreated safely
// because finished sessions never resurrect under the same id.
func (h *Honeypot) dropLock(sessionID string) {
	h.lockMu.Lock()
	defer h.lockMu.Unlock()
	delete(h.locks, sessionID)
}
