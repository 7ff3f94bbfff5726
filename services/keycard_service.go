package services

import (
	"time"

	"hotel/errors"
	"hotel/models"
	"hotel/services/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KeyCardService quản lý pool thẻ phòng vật lý
type KeyCardService struct {
	db     *gorm.DB
	logger logger.Logger
}

type KeyCardServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewKeyCardService(opts KeyCardServiceOptions) *KeyCardService {
	return &KeyCardService{
		db:     opts.DB,
		logger: opts.Logger,
	}
}

// Allocate tìm một thẻ inactive và gán cho khách/phòng. Claim theo kiểu
// optimistic: UPDATE có điều kiện status = inactive, kiểm tra RowsAffected
// để hai lượt check-in đồng thời không bao giờ nhận cùng một thẻ.
func (s *KeyCardService) Allocate(guestID, roomID uint, expiresAt time.Time) (*models.KeyCard, error) {
	var candidates []models.KeyCard
	if err := s.db.Where("status = ?", models.KeyCardStatusInactive).
		Order("updated_at asc").Limit(10).Find(&candidates).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được danh sách thẻ", err)
	}

	now := time.Now()
	for i := range candidates {
		card := &candidates[i]
		result := s.db.Model(&models.KeyCard{}).
			Where("id = ? AND status = ?", card.ID, models.KeyCardStatusInactive).
			Updates(map[string]interface{}{
				"status":        models.KeyCardStatusActive,
				"assigned_to":   guestID,
				"assigned_room": roomID,
				"activated_at":  now,
				"expires_at":    expiresAt,
			})
		if result.Error != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không claim được thẻ", result.Error)
		}
		if result.RowsAffected == 0 {
			// thẻ vừa bị lượt check-in khác lấy mất, thử thẻ kế tiếp
			continue
		}

		s.audit(card.ID, "", card.Status, models.KeyCardStatusActive, "allocated to guest")

		var claimed models.KeyCard
		if err := s.db.First(&claimed, card.ID).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc lại được thẻ vừa claim", err)
		}
		return &claimed, nil
	}

	return nil, errors.ErrNoCardsAvailable
}

// Release thu hồi thẻ: xóa assignment, chuyển về inactive,
// thời điểm trả thật được ghi làm expiration (đã qua)
func (s *KeyCardService) Release(card *models.KeyCard, actor string) error {
	from := card.Status
	now := time.Now()
	updates := map[string]interface{}{
		"status":        models.KeyCardStatusInactive,
		"assigned_to":   nil,
		"assigned_room": nil,
		"expires_at":    now,
	}
	if err := s.db.Model(&models.KeyCard{}).Where("id = ?", card.ID).Updates(updates).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không thu hồi được thẻ", err)
	}
	card.Status = models.KeyCardStatusInactive
	card.AssignedTo = nil
	card.AssignedRoom = nil
	card.ExpiresAt = &now

	s.audit(card.ID, actor, from, models.KeyCardStatusInactive, "returned at checkout")
	return nil
}

// FallbackRelease đường sửa lỗi best-effort: khi bản ghi lưu trú mất tham
// chiếu thẻ, tìm thẻ active còn gán cho cặp khách+phòng và thu hồi.
func (s *KeyCardService) FallbackRelease(guestID, roomID uint, actor string) error {
	var card models.KeyCard
	err := s.db.Where("status = ? AND assigned_to = ? AND assigned_room = ?",
		models.KeyCardStatusActive, guestID, roomID).First(&card).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không tìm được thẻ để thu hồi", err)
	}
	s.logger.Info("Fallback release thẻ %s cho khách %d phòng %d", card.CardNumber, guestID, roomID)
	return s.Release(&card, actor)
}

// SetStatus chuyển trạng thái thẻ có audit. Chuyển sang lost/damaged
// buộc xóa assignment bất kể trạng thái hiện tại.
func (s *KeyCardService) SetStatus(cardID uint, to models.KeyCardStatus, actor, reason string) (*models.KeyCard, error) {
	var card models.KeyCard
	if err := s.db.First(&card, cardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCardNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được thẻ", err)
	}

	if err := card.ValidateTransition(to); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidCardStatus, err.Error(), nil)
	}

	from := card.Status
	updates := map[string]interface{}{"status": to}
	if to == models.KeyCardStatusLost || to == models.KeyCardStatusDamaged {
		updates["assigned_to"] = nil
		updates["assigned_room"] = nil
	}
	if err := s.db.Model(&card).Updates(updates).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được trạng thái thẻ", err)
	}

	s.audit(card.ID, actor, from, to, reason)

	if err := s.db.First(&card, cardID).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc lại được thẻ", err)
	}
	return &card, nil
}

// CreatePoolCard thêm thẻ mới vào pool (admin)
func (s *KeyCardService) CreatePoolCard() (*models.KeyCard, error) {
	card := models.KeyCard{
		CardNumber: uuid.NewString(),
		Status:     models.KeyCardStatusInactive,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không tạo được thẻ", err)
	}
	return &card, nil
}

// SweepOrphanCards quét nhất quán định kỳ: thu hồi các thẻ active không
// còn bản ghi lưu trú checked_in nào tham chiếu cặp khách+phòng tương ứng.
// Đây là chiến lược bù trừ cho các lần check-in gãy giữa chừng.
func (s *KeyCardService) SweepOrphanCards() (int, error) {
	var cards []models.KeyCard
	if err := s.db.Where("status = ?", models.KeyCardStatusActive).Find(&cards).Error; err != nil {
		return 0, err
	}

	released := 0
	for i := range cards {
		card := &cards[i]
		if card.AssignedTo == nil || card.AssignedRoom == nil {
			// vi phạm bất biến: thẻ active phải có assignment, thu hồi luôn
			if err := s.Release(card, "system"); err != nil {
				s.logger.Error("Sweep: không thu hồi được thẻ %d: %v", card.ID, err)
				continue
			}
			released++
			continue
		}

		var count int64
		err := s.db.Model(&models.CheckInOut{}).
			Where("user_id = ? AND room_id = ? AND status = ?",
				*card.AssignedTo, *card.AssignedRoom, models.StayStatusCheckedIn).
			Count(&count).Error
		if err != nil {
			s.logger.Error("Sweep: không đếm được stay cho thẻ %d: %v", card.ID, err)
			continue
		}
		if count == 0 {
			if err := s.Release(card, "system"); err != nil {
				s.logger.Error("Sweep: không thu hồi được thẻ %d: %v", card.ID, err)
				continue
			}
			released++
		}
	}
	return released, nil
}

func (s *KeyCardService) audit(cardID uint, actor string, from, to models.KeyCardStatus, reason string) {
	entry := models.KeyCardAudit{
		KeyCardID:  cardID,
		Actor:      actor,
		Reason:     reason,
		FromStatus: from,
		ToStatus:   to,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Error("Không ghi được audit cho thẻ %d: %v", cardID, err)
	}
}
