package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "honeytrap:session:"

// RedisStore persists session records as JSON values in Redis, one key per
// session id, with the idle TTL refreshed on every Save. Any honeypot node
// sharing the Redis instance can resume any session.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// RedisOption is a functional option for configuring RedisStore.
type RedisOption func(*RedisStore)

// WithRedisTTL sets the per-session idle TTL.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = d
	}
}

// NewRedisStore wraps an existing Redis client as a session Store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		ttl:    1 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Get retrieves a session record.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get %s: %w", sessionID, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save creates or replaces a session record and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, state *State) error {
	if state == nil {
		return fmt.Errorf("session: state is nil")
	}
	if state.SessionID == "" {
		return fmt.Errorf("session: session id is required")
	}

	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.LastSeenAt = now

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", state.SessionID, err)
	}

	if err := s.client.Set(ctx, redisKey(state.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set %s: %w", state.SessionID, err)
	}
	return nil
}

// Delete removes a session record.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: redis del %s: %w", sessionID, err)
	}
	return nil
}

// List scans for all live session records.
func (s *RedisStore) List(ctx context.Context) ([]*State, error) {
	var states []*State

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("session: redis get %s: %w", iter.Val(), err)
		}

		var state State
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("session: decode %s: %w", iter.Val(), err)
		}
		states = append(states, &state)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("session: redis scan: %w", err)
	}
	return states, nil
}
