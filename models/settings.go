package models

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"
)

// Settings cấu hình vận hành của hệ thống, đọc qua settings cache.
// GatewaySecretEnc là bản mã hóa của secret cổng thanh toán; mã hóa và
// giải mã được gọi tường minh tại ranh giới persistence, không qua getter ngầm.
type Settings struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	HoldHours              int       `json:"holdHours" gorm:"default:24"`
	ReminderLookaheadHours int       `json:"reminderLookaheadHours" gorm:"default:6"`
	RetentionDays          int       `json:"retentionDays" gorm:"default:90"`
	OverstayMultiplier     float64   `json:"overstayMultiplier" gorm:"default:1.5"`
	SkipDateValidation     bool      `json:"skipDateValidation"` // chỉ dùng ngoài production, mỗi lần bypass đều phải log
	GatewaySecretEnc       string    `json:"-"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// EncodeSecret mã hóa secret bằng AES-GCM, trả về base64(nonce||ciphertext)
func EncodeSecret(key []byte, plain string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecodeSecret giải mã giá trị do EncodeSecret tạo ra
func DecodeSecret(key []byte, enc string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext quá ngắn")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
