package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/debts/internal/application/adapter"
)

const watermarkKeyPrefix = "debts:scan:watermark:"

// advanceScript sets the key only when the new value is later than the stored one.
// Values are Unix microseconds, which Lua numbers represent exactly.
var advanceScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current and tonumber(current) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// redisWatermarkStore implements adapter.ScanWatermarkStore on Redis.
type redisWatermarkStore struct {
	client *redis.Client
}

// NewRedisWatermarkStore creates a watermark store backed by Redis.
func NewRedisWatermarkStore(client *redis.Client) adapter.ScanWatermarkStore {
	return &redisWatermarkStore{client: client}
}

// Get returns the watermark of a user, or nil when none was recorded.
func (s *redisWatermarkStore) Get(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	raw, err := s.client.Get(ctx, watermarkKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read scan watermark: %w", err)
	}

	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed scan watermark %q: %w", raw, err)
	}
	at := time.UnixMicro(micros).UTC()
	return &at, nil
}

// Advance moves the watermark forward. Earlier values are ignored.
func (s *redisWatermarkStore) Advance(ctx context.Context, userID uuid.UUID, at time.Time) error {
	err := advanceScript.Run(ctx, s.client, []string{watermarkKey(userID)}, at.UTC().UnixMicro()).Err()
	if err != nil {
		return fmt.Errorf("failed to advance scan watermark: %w", err)
	}
	return nil
}

func watermarkKey(userID uuid.UUID) string {
	return watermarkKeyPrefix + userID.String()
}

// memoryWatermarkStore implements adapter.ScanWatermarkStore in process memory.
// Watermarks are lost on restart, which only costs one wider automatic pass.
type memoryWatermarkStore struct {
	mu         sync.Mutex
	watermarks map[uuid.UUID]time.Time
}

// NewMemoryWatermarkStore creates a watermark store kept in process memory.
func NewMemoryWatermarkStore() adapter.ScanWatermarkStore {
	return &memoryWatermarkStore{watermarks: make(map[uuid.UUID]time.Time)}
}

// Get returns the watermark of a user, or nil when none was recorded.
func (s *memoryWatermarkStore) Get(_ context.Context, userID uuid.UUID) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.watermarks[userID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

// Advance moves the watermark forward. Earlier values are ignored.
func (s *memoryWatermarkStore) Advance(_ context.Context, userID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	at = at.UTC().Truncate(time.Microsecond)
	if current, ok := s.watermarks[userID]; ok && !at.After(current) {
		return nil
	}
	s.watermarks[userID] = at
	return nil
}
