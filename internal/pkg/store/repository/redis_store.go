package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStoreAdapter struct {
	client redis.Cmdable
}

func NewRedisStoreAdapter(client redis.Cmdable) *RedisStoreAdapter {
	return &RedisStoreAdapter{client: client}
}

// SetNX stores value only when key is absent and reports whether it did.
func (a *RedisStoreAdapter) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return a.client.SetNX(ctx, key, value, expiration).Result()
}

// DeleteIfValue removes key only while it still holds value, so an expired
// holder cannot release a lock someone else has since taken.
func (a *RedisStoreAdapter) DeleteIfValue(ctx context.Context, key string, value string) (bool, error) {
	deleted, err := compareAndDelete.Run(ctx, a.client, []string{key}, value).Int64()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
