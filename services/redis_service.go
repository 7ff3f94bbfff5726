package services

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetFromRedis đọc và giải mã giá trị cache vào target.
// Cache miss không phải lỗi: target giữ nguyên zero value.
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) error {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// SetToRedis mã hóa value thành JSON và ghi vào cache với TTL
func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, raw, ttl).Err()
}

// DeleteFromRedis xóa một key cache
func DeleteFromRedis(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}
