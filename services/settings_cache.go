package services

import (
	"context"
	"sync"
	"time"

	"hotel/models"
	"hotel/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const settingsCacheKey = "settings:current"

// SettingsCache là điểm truy cập duy nhất tới cấu hình vận hành.
// Cache hai tầng: bản sao trong tiến trình với soft-TTL, Redis phía sau,
// DB là nguồn sự thật. Invalidate được gọi khi admin cập nhật settings,
// TTL là lưới an toàn khi lời gọi invalidate bị bỏ sót.
type SettingsCache struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
	ttl    time.Duration

	mu        sync.RWMutex
	cached    *models.Settings
	fetchedAt time.Time
}

type SettingsCacheOptions struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger logger.Logger
	TTL    time.Duration
}

func NewSettingsCache(opts SettingsCacheOptions) *SettingsCache {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &SettingsCache{
		db:     opts.DB,
		rdb:    opts.Redis,
		logger: opts.Logger,
		ttl:    ttl,
	}
}

// Get trả về settings hiện hành
func (s *SettingsCache) Get(ctx context.Context) (*models.Settings, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		cached := *s.cached
		s.mu.RUnlock()
		return &cached, nil
	}
	s.mu.RUnlock()

	var settings models.Settings
	if s.rdb != nil {
		if err := GetFromRedis(ctx, s.rdb, settingsCacheKey, &settings); err != nil {
			s.logger.Error("Không đọc được settings từ Redis: %v", err)
		} else if settings.ID != 0 {
			s.store(&settings)
			return &settings, nil
		}
	}

	if err := s.db.First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			settings = DefaultSettings()
		} else {
			return nil, err
		}
	}

	if s.rdb != nil {
		if err := SetToRedis(ctx, s.rdb, settingsCacheKey, &settings, s.ttl); err != nil {
			s.logger.Error("Không ghi được settings vào Redis: %v", err)
		}
	}
	s.store(&settings)
	return &settings, nil
}

// Invalidate xóa cache sau khi admin cập nhật settings
func (s *SettingsCache) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	if s.rdb != nil {
		if err := DeleteFromRedis(ctx, s.rdb, settingsCacheKey); err != nil {
			s.logger.Error("Không xóa được settings cache trên Redis: %v", err)
		}
	}
}

// Update lưu settings mới; plainSecret được mã hóa tại ranh giới
// persistence bằng khóa nạp lúc khởi động
func (s *SettingsCache) Update(ctx context.Context, settings *models.Settings, encKey []byte, plainSecret string) error {
	if plainSecret != "" {
		enc, err := models.EncodeSecret(encKey, plainSecret)
		if err != nil {
			return err
		}
		settings.GatewaySecretEnc = enc
	}
	if err := s.db.Save(settings).Error; err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// GatewaySecret giải mã secret cổng thanh toán
func (s *SettingsCache) GatewaySecret(ctx context.Context, encKey []byte) (string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if settings.GatewaySecretEnc == "" {
		return "", nil
	}
	return models.DecodeSecret(encKey, settings.GatewaySecretEnc)
}

func (s *SettingsCache) store(settings *models.Settings) {
	s.mu.Lock()
	copied := *settings
	s.cached = &copied
	s.fetchedAt = time.Now()
	s.mu.Unlock()
}

// DefaultSettings giá trị mặc định khi DB chưa có bản ghi settings
func DefaultSettings() models.Settings {
	return models.Settings{
		HoldHours:              24,
		ReminderLookaheadHours: 6,
		RetentionDays:          90,
		OverstayMultiplier:     1.5,
	}
}
