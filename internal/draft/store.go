package draft

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bloghub/internal/cache"
	"bloghub/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Store is the single-slot transient storage for draft snapshots. At most
// one snapshot occupies a session's slot at a time: Put overwrites (last
// writer wins) and Take deletes the slot as part of the read.
type Store interface {
	Put(ctx context.Context, sessionKey string, snap Snapshot) error
	Take(ctx context.Context, sessionKey string) (*Snapshot, bool, error)
}

// RedisStore keeps draft snapshots in Redis under a session-scoped key.
// The read-and-delete is a single GETDEL, so a snapshot is never applied
// twice even when the compose form mounts repeatedly.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore returns a store with the default slot TTL.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		ttl:    cache.DraftSlotTTL,
		logger: slog.Default(),
	}
}

// ErrStoreUnavailable is returned when no Redis client is configured.
// Callers treat it like any other store failure and degrade.
var ErrStoreUnavailable = errors.New("draft store unavailable")

// Put writes the snapshot, replacing whatever the slot held.
func (s *RedisStore) Put(ctx context.Context, sessionKey string, snap Snapshot) error {
	if s.rdb == nil {
		return ErrStoreUnavailable
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, cache.DraftSlotKey(sessionKey), b, s.ttl).Err(); err != nil {
		return err
	}
	observability.DraftSlotWrites.Inc()
	return nil
}

// Take atomically reads and deletes the slot. A missing slot yields
// (nil, false, nil). A slot holding an unparseable payload is logged,
// counted, and treated as missing; the GETDEL already discarded it.
func (s *RedisStore) Take(ctx context.Context, sessionKey string) (*Snapshot, bool, error) {
	if s.rdb == nil {
		return nil, false, ErrStoreUnavailable
	}
	raw, err := s.rdb.GetDel(ctx, cache.DraftSlotKey(sessionKey)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Warn("discarding unparseable draft snapshot",
			slog.String("session", sessionKey),
			slog.String("error", err.Error()),
		)
		observability.DraftSlotCorrupt.Inc()
		return nil, false, nil
	}
	observability.DraftSlotConsumed.Inc()
	return &snap, true, nil
}
