// Package store holds the optional cooldown backends for the alert
// dispatcher. The baseline pipeline has no cross-run memory; when a cooldown
// window is configured, one of these stores supplies it.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

func cooldownKey(deviceID string, cond domain.AlertCondition) string {
	return fmt.Sprintf("alert:%s:%s", deviceID, cond)
}

// MemoryCooldown is a process-local cooldown window. State dies with the
// process, which matches the run model: a restart simply starts fresh.
type MemoryCooldown struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryCooldown(ttl time.Duration) *MemoryCooldown {
	return &MemoryCooldown{
		ttl:  ttl,
		now:  time.Now,
		last: make(map[string]time.Time),
	}
}

func (m *MemoryCooldown) Allow(_ context.Context, deviceID string, cond domain.AlertCondition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent, ok := m.last[cooldownKey(deviceID, cond)]
	if !ok {
		return true, nil
	}
	return m.now().Sub(sent) >= m.ttl, nil
}

func (m *MemoryCooldown) Mark(_ context.Context, deviceID string, cond domain.AlertCondition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[cooldownKey(deviceID, cond)] = m.now()
	return nil
}

// RedisCooldown keys cooldown entries in redis with a TTL, so the window
// survives monitor restarts and is shared between replicas.
type RedisCooldown struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCooldown(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCooldown, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCooldown{client: client, ttl: ttl}, nil
}

func (r *RedisCooldown) Close() error { return r.client.Close() }

func (r *RedisCooldown) Allow(ctx context.Context, deviceID string, cond domain.AlertCondition) (bool, error) {
	count, err := r.client.Exists(ctx, cooldownKey(deviceID, cond)).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown check failed: %w", err)
	}
	return count == 0, nil
}

func (r *RedisCooldown) Mark(ctx context.Context, deviceID string, cond domain.AlertCondition) error {
	return r.client.Set(ctx, cooldownKey(deviceID, cond), "1", r.ttl).Err()
}
