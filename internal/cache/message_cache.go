package cache

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MessageCache caches the newest page of a group chat feed. Only the
// cursor-0 page is worth caching; older pages are immutable and cheap
// to fetch, while the head page is read on every group open.
type MessageCache struct {
	redis *RedisCache
}

// NewMessageCache creates a new message cache
func NewMessageCache(redis *RedisCache) *MessageCache {
	return &MessageCache{redis: redis}
}

func feedKey(groupID uint, limit int) string {
	return fmt.Sprintf("feed:%d:%d", groupID, limit)
}

// Get loads the cached head page into dest. The second return reports
// whether the cache had it.
func (mc *MessageCache) Get(groupID uint, limit int, dest interface{}) (bool, error) {
	if mc == nil || mc.redis == nil {
		return false, nil
	}
	data, err := mc.redis.Get(feedKey(groupID, limit))
	if err != nil || data == nil {
		return false, err
	}
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set caches the head page of a group feed
func (mc *MessageCache) Set(groupID uint, limit int, messages interface{}) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return mc.redis.Set(feedKey(groupID, limit), data, GroupFeedTTL)
}

// Invalidate drops every cached page size for a group. Page sizes are
// bounded, so the common ones are deleted directly instead of scanning.
func (mc *MessageCache) Invalidate(groupID uint) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	for _, limit := range []int{20, 50, 100} {
		if err := mc.redis.Delete(feedKey(groupID, limit)); err != nil {
			return err
		}
	}
	return nil
}
