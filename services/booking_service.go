package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"hotel/constants"
	"hotel/errors"
	"hotel/models"
	"hotel/services/logger"
	"hotel/services/notification"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

// BookingService quản lý vòng đời booking: tạo giữ chỗ, duyệt, hủy,
// và ba lượt chạy nền của scheduler (hết hạn giữ chỗ, nhắc hạn, dọn dẹp)
type BookingService struct {
	db          *gorm.DB
	logger      logger.Logger
	refunds     *RefundService
	invoiceSync *InvoiceSyncService
	notifier    notification.Service
	settings    *SettingsCache
	nowFn       func() time.Time
}

type BookingServiceOptions struct {
	DB          *gorm.DB
	Logger      logger.Logger
	Refunds     *RefundService
	InvoiceSync *InvoiceSyncService
	Notifier    notification.Service
	Settings    *SettingsCache
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	return &BookingService{
		db:          opts.DB,
		logger:      opts.Logger,
		refunds:     opts.Refunds,
		invoiceSync: opts.InvoiceSync,
		notifier:    opts.Notifier,
		settings:    opts.Settings,
		nowFn:       time.Now,
	}
}

// CreateBookingParams tham số đặt phòng
type CreateBookingParams struct {
	UserID        *uint
	RoomID        uint
	CheckInDate   time.Time
	CheckOutDate  time.Time
	GuestName     string
	GuestEmail    string
	GuestPhone    string
	PaymentMethod string
}

// CreateBooking tạo booking mới ở trạng thái On Hold với deadline giữ chỗ,
// kèm hóa đơn chính
func (s *BookingService) CreateBooking(params CreateBookingParams) (*models.Booking, error) {
	if !params.CheckOutDate.After(params.CheckInDate) {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Ngày trả phòng phải sau ngày nhận phòng", nil)
	}

	var room models.Room
	if err := s.db.First(&room, params.RoomID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được phòng", err)
	}

	nights := int(math.Ceil(params.CheckOutDate.Sub(params.CheckInDate).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	base := float64(room.Price) * float64(nights)
	tax := base * 0.08
	total := base + tax

	holdHours := DefaultSettings().HoldHours
	if settings, err := s.settings.Get(context.Background()); err == nil && settings.HoldHours > 0 {
		holdHours = settings.HoldHours
	}
	holdUntil := s.nowFn().Add(time.Duration(holdHours) * time.Hour)

	booking := models.Booking{
		UserID:        params.UserID,
		RoomID:        params.RoomID,
		CheckInDate:   params.CheckInDate,
		CheckOutDate:  params.CheckOutDate,
		Status:        constants.BookingStatusOnHold,
		HoldUntil:     &holdUntil,
		GuestName:     params.GuestName,
		GuestEmail:    params.GuestEmail,
		GuestPhone:    params.GuestPhone,
		PaymentMethod: params.PaymentMethod,
		BasePrice:     base,
		TaxAmount:     tax,
		TotalPrice:    total,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không tạo được booking", err)
	}

	invoice := models.Invoice{
		BookingID:       booking.ID,
		Kind:            constants.InvoiceKindPrimary,
		TotalAmount:     total,
		RemainingAmount: total,
		Status:          constants.InvoiceStatusDraft,
		PaymentMethod:   params.PaymentMethod,
	}
	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không tạo được hóa đơn", err)
	}

	return &booking, nil
}

// Approve duyệt booking (lễ tân/admin)
func (s *BookingService) Approve(bookingID uint, actor string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được booking", err)
	}

	state := models.GetBookingState(booking.Status)
	if err := state.Confirm(&booking); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus, err.Error(), nil)
	}
	if err := s.db.Save(&booking).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không lưu được booking", err)
	}
	s.logger.Info("Booking %d được duyệt bởi %s", bookingID, actor)
	return &booking, nil
}

// Cancel hủy booking theo yêu cầu, kèm yêu cầu hoàn tiền nếu đã thanh toán
func (s *BookingService) Cancel(bookingID uint, actor, reason string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được booking", err)
	}

	state := models.GetBookingState(booking.Status)
	if err := state.Cancel(&booking); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus, err.Error(), nil)
	}
	now := s.nowFn()
	booking.CancelledAt = &now
	booking.CancelledBy = actor
	booking.CancelReason = reason
	if err := s.db.Save(&booking).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không lưu được booking", err)
	}

	if _, err := s.refunds.CreateRefundRequest(&booking, reason, actor); err != nil {
		s.logger.Error("Không tạo được yêu cầu hoàn tiền cho booking %d: %v", bookingID, err)
	}
	return &booking, nil
}

// ExpireHolds lượt chạy mỗi giờ của scheduler: hủy các booking On Hold đã
// quá deadline. Mỗi booking lỗi được cô lập và đếm, cả batch không dừng.
func (s *BookingService) ExpireHolds() (processed int, failed int) {
	now := s.nowFn()
	var holds []models.Booking
	err := s.db.Where("status = ? AND hold_until IS NOT NULL AND hold_until <= ?",
		constants.BookingStatusOnHold, now).Find(&holds).Error
	if err != nil {
		s.logger.Error("Không đọc được danh sách giữ chỗ hết hạn: %v", err)
		return 0, 0
	}

	for i := range holds {
		booking := &holds[i]
		if err := s.expireOne(booking, now); err != nil {
			failed++
			s.logger.Error("Không hủy được booking %d hết hạn giữ chỗ: %v", booking.ID, err)
			continue
		}
		processed++
	}
	if processed > 0 || failed > 0 {
		s.logger.Info("Hết hạn giữ chỗ: hủy %d booking, lỗi %d", processed, failed)
	}
	return processed, failed
}

// expireOne hủy một booking hết hạn giữ chỗ. Update có điều kiện trạng
// thái nguồn: RowsAffected = 0 nghĩa là đã có ai xử lý, không phải lỗi.
func (s *BookingService) expireOne(booking *models.Booking, now time.Time) error {
	result := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, constants.BookingStatusOnHold).
		Updates(map[string]interface{}{
			"status":        constants.BookingStatusCancelled,
			"hold_until":    nil,
			"cancelled_at":  now,
			"cancelled_by":  constants.CancelledBySystem,
			"cancel_reason": "hold expired",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// booking vừa được confirm hoặc hủy bởi luồng khác
		return nil
	}

	// hoàn tiền idempotent, thông báo best-effort: lỗi không rollback việc hủy
	if _, err := s.refunds.CreateRefundRequest(booking, "hold expired", constants.CancelledBySystem); err != nil {
		s.logger.Error("Không tạo được yêu cầu hoàn tiền cho booking %d: %v", booking.ID, err)
	}
	if booking.UserID != nil && s.notifier != nil {
		msg := notification.NewMessageBuilder(booking.GuestName, 0).BuildHoldExpired()
		if err := s.notifier.Notify(*booking.UserID, notification.TypeHoldExpired, "email", msg,
			map[string]interface{}{"bookingId": booking.ID}); err != nil {
			s.logger.Error("Không gửi được thông báo hết hạn cho booking %d: %v", booking.ID, err)
		}
	}
	return nil
}

// SendHoldReminders lượt chạy 6 tiếng: nhắc khách có giữ chỗ sắp hết hạn
// trong cửa sổ lookahead
func (s *BookingService) SendHoldReminders() (sent int, failed int) {
	now := s.nowFn()
	lookahead := DefaultSettings().ReminderLookaheadHours
	if settings, err := s.settings.Get(context.Background()); err == nil && settings.ReminderLookaheadHours > 0 {
		lookahead = settings.ReminderLookaheadHours
	}
	deadline := now.Add(time.Duration(lookahead) * time.Hour)

	var holds []models.Booking
	err := s.db.Where("status = ? AND hold_until > ? AND hold_until <= ?",
		constants.BookingStatusOnHold, now, deadline).Find(&holds).Error
	if err != nil {
		s.logger.Error("Không đọc được danh sách giữ chỗ sắp hết hạn: %v", err)
		return 0, 0
	}

	for i := range holds {
		booking := &holds[i]
		if booking.UserID == nil || s.notifier == nil {
			continue
		}
		hoursLeft := int(booking.HoldUntil.Sub(now).Hours())
		msg := notification.NewMessageBuilder(booking.GuestName, 0).BuildHoldReminder(hoursLeft)
		if err := s.notifier.Notify(*booking.UserID, notification.TypeHoldReminder, "email", msg,
			map[string]interface{}{"bookingId": booking.ID}); err != nil {
			failed++
			s.logger.Error("Không gửi được nhắc hạn cho booking %d: %v", booking.ID, err)
			continue
		}
		sent++
	}
	return sent, failed
}

// CleanupTerminal lượt chạy hằng ngày: xóa cứng các booking ở trạng thái
// kết thúc (Cancelled/Rejected) quá cửa sổ lưu trữ
func (s *BookingService) CleanupTerminal() (deleted int) {
	retention := DefaultSettings().RetentionDays
	if settings, err := s.settings.Get(context.Background()); err == nil && settings.RetentionDays > 0 {
		retention = settings.RetentionDays
	}
	cutoff := s.nowFn().AddDate(0, 0, -retention)

	result := s.db.Where("status IN ? AND updated_at < ?",
		[]int{constants.BookingStatusCancelled, constants.BookingStatusRejected}, cutoff).
		Delete(&models.Booking{})
	if result.Error != nil {
		s.logger.Error("Không dọn dẹp được booking cũ: %v", result.Error)
		return 0
	}
	if result.RowsAffected > 0 {
		s.logger.Info("Dọn dẹp %d booking cũ hơn %d ngày", result.RowsAffected, retention)
	}
	return int(result.RowsAffected)
}

// normalizeSearchInput chuẩn hóa chuỗi tìm kiếm: bỏ dấu, lowercase
func normalizeSearchInput(input string) string {
	return strings.ToLower(unidecode.Unidecode(input))
}

// similarity tính độ giống giữa hai chuỗi đã chuẩn hóa theo levenshtein
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len([]rune(a)))
	if l := float64(len([]rune(b))); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(distance)/maxLen
}

// SearchByGuestName tìm booking theo tên khách, chịu được sai chính tả
// và tên có dấu
func (s *BookingService) SearchByGuestName(query string, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	var candidates []models.Booking
	if err := s.db.Order("created_at desc").Limit(500).Find(&candidates).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được danh sách booking", err)
	}

	normalized := normalizeSearchInput(query)
	type scored struct {
		booking models.Booking
		score   float64
	}
	var matches []scored
	for _, b := range candidates {
		name := normalizeSearchInput(b.GuestName)
		score := similarity(normalized, name)
		if strings.Contains(name, normalized) {
			score += 0.5
		}
		if score >= 0.4 {
			matches = append(matches, scored{booking: b, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]models.Booking, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.booking)
	}
	return out, nil
}

// GetByID đọc booking kèm phòng
func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Room").First(&booking, bookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được booking", err)
	}
	return &booking, nil
}

// List danh sách booking phân trang, lọc theo trạng thái nếu có
func (s *BookingService) List(statusFilter string, page, limit int) ([]models.Booking, int, error) {
	query := s.db.Model(&models.Booking{})
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.NewAppError(errors.ErrCodeDBError, "Không đếm được booking", err)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được danh sách booking", err)
	}
	return bookings, int(total), nil
}
