package config

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// ConnectRedis mở kết nối Redis dùng cho settings cache và cache danh sách.
// REDIS_DB cho phép tách index giữa các môi trường chạy chung một instance.
func ConnectRedis() (*redis.Client, error) {
	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			db = parsed
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Username: os.Getenv("REDIS_USER"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("Kết nối Redis thành công")
	return client, nil
}
