// Package notice implements the transient-notice mechanism behind
// post-redirect messages. A notice is stored server-side under a one-time
// token; the redirect carries only the token and the list view resolves and
// clears it. Without Redis the callers fall back to plain msg query text.
package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a short user-facing message surfaced once after a redirect.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

const (
	keyPrefix = "notice:"

	// Notices outlive a redirect round-trip, nothing more.
	ttl = 2 * time.Minute
)

// Store keeps notices in Redis under one-time tokens.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Available reports whether a backing client is configured.
func (s *Store) Available() bool {
	return s.client != nil
}

// Put stores the notice and returns its token.
func (s *Store) Put(ctx context.Context, n Notice) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("notice store not available")
	}

	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal notice: %w", err)
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("store notice: %w", err)
	}
	return token, nil
}

// Pop resolves and clears a token. A missing or expired token yields nil
// with no error; a notice is surfaced at most once.
func (s *Store) Pop(ctx context.Context, token string) (*Notice, error) {
	if s.client == nil || token == "" {
		return nil, nil
	}

	data, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve notice: %w", err)
	}

	var n Notice
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return nil, fmt.Errorf("unmarshal notice: %w", err)
	}
	return &n, nil
}
