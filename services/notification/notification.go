package notification

import (
	"fmt"

	"hotel/models"

	json "github.com/goccy/go-json"
	"github.com/olahol/melody"
	"gorm.io/gorm"
)

// Các loại thông báo gửi cho khách
const (
	TypeHoldReminder     = "hold_reminder"
	TypeHoldExpired      = "hold_expired"
	TypeCheckInDone      = "checkin_completed"
	TypeCheckOutDone     = "checkout_completed"
	TypeOverstayDetected = "overstay_detected"
	TypeOverstayPayment  = "overstay_payment"
	TypeOverstayApproved = "overstay_approved"
	TypeOverstayRejected = "overstay_rejected"
	TypeOverstayAdjusted = "overstay_adjusted"
)

// Service gửi thông báo cho khách. Mọi lời gọi đều best-effort:
// caller log lỗi chứ không rollback nghiệp vụ đã hoàn tất.
type Service interface {
	Notify(userID uint, notifType, channel, message string, metadata interface{}) error
}

// MelodyService lưu thông báo vào DB và broadcast qua websocket
type MelodyService struct {
	db *gorm.DB
	m  *melody.Melody
}

func NewMelodyService(db *gorm.DB, m *melody.Melody) *MelodyService {
	return &MelodyService{db: db, m: m}
}

func (s *MelodyService) Notify(userID uint, notifType, channel, message string, metadata interface{}) error {
	record := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Channel: channel,
		Message: message,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err == nil {
			record.Metadata = raw
		}
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}

	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.m.Broadcast(payload)
}

// MessageBuilder dựng nội dung thông báo
type MessageBuilder struct {
	guestName string
	amount    float64
}

func NewMessageBuilder(guestName string, amount float64) *MessageBuilder {
	return &MessageBuilder{guestName: guestName, amount: amount}
}

func (b *MessageBuilder) BuildOverstayDetected(days int) string {
	return fmt.Sprintf("🔔 %s: bạn đã ở quá hạn %d ngày, phụ thu %.2f. Vui lòng thanh toán trước khi trả phòng.",
		b.guestName, days, b.amount)
}

func (b *MessageBuilder) BuildHoldExpired() string {
	return fmt.Sprintf("⏰ %s: giữ chỗ của bạn đã hết hạn và booking đã bị hủy.", b.guestName)
}

func (b *MessageBuilder) BuildHoldReminder(hoursLeft int) string {
	return fmt.Sprintf("⏰ %s: giữ chỗ của bạn sẽ hết hạn sau %d giờ nữa.", b.guestName, hoursLeft)
}
