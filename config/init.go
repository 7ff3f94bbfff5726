package config

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var RedisClient *redis.Client

// InitApp dựng router kèm CORS và khởi tạo toàn bộ hạ tầng.
// Thứ tự cố định: env -> khóa mã hóa -> DB -> Cloudinary -> Redis;
// bất kỳ bước nào gãy thì không khởi động, không chạy degraded.
func InitApp() (*gin.Engine, *melody.Melody, *cron.Cron, error) {
	LoadEnv()

	if err := LoadSettingsEncKey(); err != nil {
		return nil, nil, nil, err
	}

	ConnectDB()
	ConnectCloudinary()

	var err error
	RedisClient, err = ConnectRedis()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("không kết nối được Redis: %v", err)
	}

	router := gin.Default()
	router.Use(cors.New(corsConfig()))
	router.SetTrustedProxies(nil)

	log.Println("Khởi tạo hạ tầng thành công")
	return router, melody.New(), cron.New(), nil
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AddAllowHeaders("Authorization", "X-Session-ID")
	cfg.AllowCredentials = true
	cfg.AllowAllOrigins = false
	cfg.AllowOriginFunc = func(origin string) bool {
		return true
	}
	return cfg
}

// InitWebSocket đăng ký endpoint websocket cho kênh thông báo
func InitWebSocket(router *gin.Engine, m *melody.Melody) {
	router.GET("/ws", func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})
}
