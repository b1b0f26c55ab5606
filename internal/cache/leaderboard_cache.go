package cache

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// LeaderboardCache holds short-lived snapshots of ranked standings.
// The TTL is deliberately small: a stale board self-heals within
// seconds even if an invalidation is lost.
type LeaderboardCache struct {
	redis *RedisCache
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(redis *RedisCache) *LeaderboardCache {
	return &LeaderboardCache{redis: redis}
}

func leaderboardKey(groupID uint) string {
	return fmt.Sprintf("leaderboard:%d", groupID)
}

// Get loads a cached snapshot into dest; the bool reports a hit
func (lc *LeaderboardCache) Get(groupID uint, dest interface{}) (bool, error) {
	if lc == nil || lc.redis == nil {
		return false, nil
	}
	data, err := lc.redis.Get(leaderboardKey(groupID))
	if err != nil || data == nil {
		return false, err
	}
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a snapshot
func (lc *LeaderboardCache) Set(groupID uint, entries interface{}) error {
	if lc == nil || lc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(entries)
	if err != nil {
		return err
	}
	return lc.redis.Set(leaderboardKey(groupID), data, LeaderboardTTL)
}

// Delete drops the snapshot after a ledger write
func (lc *LeaderboardCache) Delete(groupID uint) error {
	if lc == nil || lc.redis == nil {
		return nil
	}
	return lc.redis.Delete(leaderboardKey(groupID))
}
