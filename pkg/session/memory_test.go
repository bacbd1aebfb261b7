package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	state := &State{
		SessionID:    "sess-1",
		ScamDetected: true,
		ScamType:     "banking_fraud",
		Confidence:   78,
	}
	require.NoError(t, s.Save(ctx, state))
	assert.False(t, state.CreatedAt.IsZero(), "Save must stamp CreatedAt")

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "banking_fraud", got.ScamType)
	assert.Equal(t, 78, got.Confidence)

	require.NoError(t, s.Delete(ctx, "sess-1"))
	_, err = s.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(ctx, "sess-1"))
}

func TestMemoryStoreHandsOutCopies(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	state := &State{
		SessionID: "sess-copy",
		Notes:     []string{"Scam type: banking_fraud, Confidence: 86%"},
		Conversation: Conversation{
			History: []Message{{Role: RoleScammer, Content: "hello"}},
		},
		Harvest: Harvest{UPIIDs: []string{"scammer@paytm"}},
	}
	require.NoError(t, s.Save(ctx, state))

	// Mutating the caller's record after Save must not reach the store.
	state.Notes = append(state.Notes, "local only")
	state.Harvest.Merge(Harvest{UPIIDs: []string{"other@ybl"}})

	got, err := s.Get(ctx, "sess-copy")
	require.NoError(t, err)
	assert.Equal(t, []string{"Scam type: banking_fraud, Confidence: 86%"}, got.Notes)
	assert.Equal(t, []string{"scammer@paytm"}, got.Harvest.UPIIDs)

	// Mutating a retrieved record must not reach later readers.
	got.Notes = append(got.Notes, "reader scribble")
	got.Conversation.History[0].Content = "tampered"

	again, err := s.Get(ctx, "sess-copy")
	require.NoError(t, err)
	assert.Equal(t, []string{"Scam type: banking_fraud, Confidence: 86%"}, again.Notes)
	assert.Equal(t, "hello", again.Conversation.History[0].Content)

	listed, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Harvest.UPIIDs[0] = "tampered@paytm"

	final, err := s.Get(ctx, "sess-copy")
	require.NoError(t, err)
	assert.Equal(t, "scammer@paytm", final.Harvest.UPIIDs[0])
}

func TestMemoryStoreRejectsBadState(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	assert.Error(t, s.Save(ctx, nil))
	assert.Error(t, s.Save(ctx, &State{}))
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	s := NewMemoryStore(WithTTL(20*time.Millisecond), WithSweepInterval(5*time.Millisecond))
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &State{SessionID: "short-lived"}))

	_, err := s.Get(ctx, "short-lived")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = s.Get(ctx, "short-lived")
	assert.ErrorIs(t, err, ErrNotFound, "expired session must be treated as missing")
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &State{SessionID: "a"}))
	require.NoError(t, s.Save(ctx, &State{SessionID: "b"}))

	states, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 2)
}
