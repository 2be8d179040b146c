package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// OverrideStore keeps locally known terminal booking outcomes in
// Redis, keyed per lot. Entries are written after a transition
// commits and expire on their own; they only need to outlive the
// replication/read race they paper over.
//
// A nil client disables the store: writes become no-ops and reads
// return no overrides with stale=true, mirroring how the rate
// limiter degrades when Redis is unreachable.
type OverrideStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOverrideStore builds a store around the given client. ttl <= 0
// falls back to 15 minutes.
func NewOverrideStore(rdb *redis.Client, ttl time.Duration) *OverrideStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &OverrideStore{rdb: rdb, ttl: ttl}
}

func lotKey(lotID uint64) string {
	return fmt.Sprintf("overrides:lot:%d", lotID)
}

// Record stashes a terminal outcome for a booking. Failures are
// swallowed: the store is an optimization over the snapshot, never
// required for correctness.
func (s *OverrideStore) Record(ctx context.Context, lotID, bookingID uint64, status string) {
	if s == nil || s.rdb == nil {
		return
	}
	key := lotKey(lotID)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, strconv.FormatUint(bookingID, 10), status)
	pipe.Expire(ctx, key, s.ttl)
	_, _ = pipe.Exec(ctx)
}

// Forget drops a booking's override, used when the booking row itself
// is deleted.
func (s *OverrideStore) Forget(ctx context.Context, lotID, bookingID uint64) {
	if s == nil || s.rdb == nil {
		return
	}
	_ = s.rdb.HDel(ctx, lotKey(lotID), strconv.FormatUint(bookingID, 10)).Err()
}

// ByLot returns the override set for a lot. The second return value
// reports staleness: true when Redis was unavailable and the caller
// is serving the snapshot alone. Reads retry once before giving up.
func (s *OverrideStore) ByLot(ctx context.Context, lotID uint64) (map[uint64]string, bool) {
	if s == nil || s.rdb == nil {
		return nil, true
	}
	var raw map[string]string
	err := Once(func() error {
		var e error
		raw, e = s.rdb.HGetAll(ctx, lotKey(lotID)).Result()
		return e
	})
	if err != nil {
		return nil, true
	}
	out := make(map[uint64]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out, false
}

// ByLots aggregates overrides across several lots for user-scoped
// booking lists that span lots. Stale when any lot read was stale.
func (s *OverrideStore) ByLots(ctx context.Context, lotIDs []uint64) (map[uint64]string, bool) {
	merged := make(map[uint64]string)
	stale := false
	seen := make(map[uint64]bool, len(lotIDs))
	for _, lotID := range lotIDs {
		if seen[lotID] {
			continue
		}
		seen[lotID] = true
		m, st := s.ByLot(ctx, lotID)
		stale = stale || st
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged, stale
}
