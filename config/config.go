package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
)

var Cloudinary *cloudinary.Cloudinary

// settingsEncKey khóa AES dùng mã hóa secret trong settings, nạp lúc khởi động
var settingsEncKey []byte

func ConnectCloudinary() {
	var err error
	Cloudinary, err = cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		log.Fatalf("Lỗi khi khởi tạo Cloudinary: %v", err)
	}
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// LoadSettingsEncKey nạp SETTINGS_ENC_KEY (hex, 32 byte sau khi decode).
// Thiếu khóa là lỗi cấu hình chết người: hệ thống không được phép khởi động.
func LoadSettingsEncKey() error {
	raw := os.Getenv("SETTINGS_ENC_KEY")
	if raw == "" {
		return fmt.Errorf("SETTINGS_ENC_KEY chưa được cấu hình")
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("SETTINGS_ENC_KEY không phải chuỗi hex hợp lệ: %v", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("SETTINGS_ENC_KEY phải dài 32 byte, nhận được %d", len(key))
	}
	settingsEncKey = key
	return nil
}

// SettingsEncKey trả về khóa mã hóa settings đã nạp
func SettingsEncKey() []byte {
	return settingsEncKey
}

// IsProduction kiểm tra môi trường chạy
func IsProduction() bool {
	return os.Getenv("ENV") == "prod"
}
