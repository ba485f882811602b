package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/decisionloom/decisionloom/internal/domain"
)

const (
	sessionCachePrefix = "session:"
	sessionCacheTTL    = 5 * time.Minute
)

// SessionCache keeps recently read session aggregates in Redis so repeated
// loads during an editing session skip the multi-table fetch. Writers must
// invalidate after every mutation.
type SessionCache struct {
	client *Client
}

// NewSessionCache creates a session cache. A nil client disables caching.
func NewSessionCache(client *Client) *SessionCache {
	return &SessionCache{client: client}
}

// Get retrieves a cached session detail. A miss returns (nil, nil).
func (c *SessionCache) Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionDetail, error) {
	if c.client == nil {
		return nil, nil
	}
	key := fmt.Sprintf("%s%s", sessionCachePrefix, sessionID)

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // cache miss
	}

	var detail domain.SessionDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}
	return &detail, nil
}

// Set caches a session detail
func (c *SessionCache) Set(ctx context.Context, detail *domain.SessionDetail) error {
	if c.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s%s", sessionCachePrefix, detail.Session.ID)

	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal session detail: %w", err)
	}
	return c.client.rdb.Set(ctx, key, data, sessionCacheTTL).Err()
}

// Invalidate removes the cached detail for a session
func (c *SessionCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	if c.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s%s", sessionCachePrefix, sessionID)
	return c.client.rdb.Del(ctx, key).Err()
}
