package cache

import (
	"fmt"
	"strconv"
	"time"
)

// TTL constants for the presence and feed caches
const (
	OnlineUsersTTL = 90 * time.Second // match websocket pong timeout
	GroupFeedTTL   = 5 * time.Minute
	LeaderboardTTL = 30 * time.Second
)

// PresenceCache tracks who is online and who is mid-session per group.
// Both are display state; the database rows stay authoritative.
type PresenceCache struct {
	redis *RedisCache
}

// NewPresenceCache creates a new presence cache
func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

func studyingKey(groupID uint) string {
	return fmt.Sprintf("studying:%d", groupID)
}

// SetOnline adds a user to the online set with a TTL-backed marker
func (pc *PresenceCache) SetOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Set(fmt.Sprintf("online:%d", userID), []byte("1"), OnlineUsersTTL)
}

// ClearOnline removes a user from the online set
func (pc *PresenceCache) ClearOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Delete(fmt.Sprintf("online:%d", userID))
}

// IsOnline checks the TTL-backed marker, so a crashed client reads
// offline once its marker expires
func (pc *PresenceCache) IsOnline(userID uint) bool {
	if pc == nil || pc.redis == nil {
		return false
	}
	return pc.redis.Exists(fmt.Sprintf("online:%d", userID))
}

// RefreshOnline extends the marker; called on every pong
func (pc *PresenceCache) RefreshOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.Set(fmt.Sprintf("online:%d", userID), []byte("1"), OnlineUsersTTL)
}

// OnlineUsers returns all online user IDs
func (pc *PresenceCache) OnlineUsers() ([]uint, error) {
	if pc == nil || pc.redis == nil {
		return nil, nil
	}
	members, err := pc.redis.SetMembers("online:users")
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(members))
	for _, member := range members {
		if id, err := strconv.ParseUint(member, 10, 32); err == nil {
			userIDs = append(userIDs, uint(id))
		}
	}
	return userIDs, nil
}

// SetStudying marks a user as mid-session in a group
func (pc *PresenceCache) SetStudying(groupID, userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.SetAdd(studyingKey(groupID), userID)
}

// ClearStudying removes the mid-session marker
func (pc *PresenceCache) ClearStudying(groupID, userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.SetRemove(studyingKey(groupID), userID)
}

// StudyingCount returns how many members of a group are mid-session
func (pc *PresenceCache) StudyingCount(groupID uint) (int64, error) {
	if pc == nil || pc.redis == nil {
		return 0, nil
	}
	return pc.redis.SetCard(studyingKey(groupID))
}
