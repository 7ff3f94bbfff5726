package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// buildDSN ghép chuỗi kết nối Postgres theo môi trường. Biến môi trường
// được đặt tên theo prefix DEV_/PROD_ để hai môi trường sống chung một file env.
func buildDSN(env string) (string, error) {
	var prefix string
	switch env {
	case "dev":
		prefix = "DEV_"
	case "prod":
		prefix = "PROD_"
	default:
		return "", fmt.Errorf("môi trường không hợp lệ: %q", env)
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require TimeZone=Asia/Ho_Chi_Minh",
		os.Getenv(prefix+"DB_HOST"),
		os.Getenv(prefix+"DB_USER"),
		os.Getenv(prefix+"DB_PASSWORD"),
		os.Getenv(prefix+"DB_NAME"),
		os.Getenv(prefix+"DB_PORT"),
	), nil
}

func ConnectDB() {
	dsn, err := buildDSN(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Cấu hình DB lỗi: %v", err)
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Không kết nối được DB: %v", err)
	}

	// pool cho các worker nền chạy song song với request HTTP
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("Không lấy được connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("Kết nối DB thành công")
}
