// Package httputil provides shared HTTP plumbing for honeytrap's outbound
// traffic: pooled clients in fixed timeout tiers, size-guarded body reads,
// and a semaphore for bounding fire-and-forget dispatch.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize caps response body reads. Callback endpoints are external
// and untrusted; an oversized body must not take the process down.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB

// sharedTransport pools connections across all tiers, so repeated callback
// deliveries to the same evaluation endpoint reuse one TCP connection.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// TimeoutTier is a fixed timeout category.
type TimeoutTier int

const (
	// TierFast for health probes and other quick round-trips (5s).
	TierFast TimeoutTier = iota
	// TierStandard for result callbacks and ordinary API calls (15s).
	TierStandard
	// TierPatient for endpoints known to dawdle (60s).
	TierPatient
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierFast:     5 * time.Second,
	TierStandard: 15 * time.Second,
	TierPatient:  60 * time.Second,
}

// One client per tier, initialized once and shared; never build a fresh
// http.Client per request.
var (
	clientFast     *http.Client
	clientStandard *http.Client
	clientPatient  *http.Client
	clientOnce     sync.Once
)

func initClients() {
	clientFast = &http.Client{
		Timeout:   timeoutDurations[TierFast],
		Transport: sharedTransport,
	}
	clientStandard = &http.Client{
		Timeout:   timeoutDurations[TierStandard],
		Transport: sharedTransport,
	}
	clientPatient = &http.Client{
		Timeout:   timeoutDurations[TierPatient],
		Transport: sharedTransport,
	}
}

// Client returns the shared HTTP client for a timeout tier.
//
// Usage:
//
//	client := httputil.Client(httputil.TierStandard)
//	resp, err := client.Do(req)
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(initClients)
	switch tier {
	case TierFast:
		return clientFast
	case TierStandard:
		return clientStandard
	case TierPatient:
		return clientPatient
	default:
		return clientStandard
	}
}

// ReadResponseBody reads a response body with a size limit. Pass maxSize <= 0
// for the default cap.
func ReadResponseBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// ReadErrorBody reads a response body for an error message. Error payloads
// are small; 1MB is plenty.
func ReadErrorBody(r io.Reader) ([]byte, error) {
	const maxErrorSize = 1 * 1024 * 1024
	return io.ReadAll(io.LimitReader(r, maxErrorSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
