package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagger-5328/honeytrap/pkg/session"
)

func sampleResult() Result {
	return Result{
		SessionID:              "sess-1",
		ScamDetected:           true,
		TotalMessagesExchanged: 6,
		ExtractedIntelligence: session.Harvest{
			UPIIDs:        []string{"scammer@paytm"},
			PhishingLinks: []string{"http://fake-bank.tk"},
		},
		AgentNotes: "Scam type: banking_fraud, Confidence: 86%",
	}
}

func TestPublishSuccess(t *testing.T) {
	var got Result
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithAPIKey("secret-key"),
		WithHTTPClient(server.Client()))

	err := client.Publish(context.Background(), sampleResult())
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.True(t, got.ScamDetected)
	assert.Equal(t, 6, got.TotalMessagesExchanged)
	assert.Equal(t, []string{"scammer@paytm"}, got.ExtractedIntelligence.UPIIDs)
}

func TestPublishRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithHTTPClient(server.Client()),
		WithBackoff(time.Millisecond))

	err := client.Publish(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPublishExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithHTTPClient(server.Client()),
		WithMaxAttempts(2),
		WithBackoff(time.Millisecond))

	err := client.Publish(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPublishClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithHTTPClient(server.Client()),
		WithBackoff(time.Millisecond))

	err := client.Publish(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestPublishCapsInflightDeliveries(t *testing.T) {
	var current, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		current.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithHTTPClient(server.Client()),
		WithMaxInflight(2))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, client.Publish(context.Background(), sampleResult()))
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPublishHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithHTTPClient(server.Client()),
		WithBackoff(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Publish(ctx, sampleResult())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
