package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel/constants"
	"hotel/errors"
	"hotel/models"
	"hotel/services/logger"
	"hotel/services/notification"

	"gorm.io/gorm"
)

// CheckInOutService là máy trạng thái lưu trú: điều phối nhận phòng,
// trả phòng, thẻ phòng, trạng thái phòng và cổng phụ thu quá hạn
type CheckInOutService struct {
	db           *gorm.DB
	logger       logger.Logger
	keyCards     *KeyCardService
	overstay     *OverstayService
	invoiceSync  *InvoiceSyncService
	housekeeping *HousekeepingService
	notifier     notification.Service
	settings     *SettingsCache
	production   bool
	nowFn        func() time.Time
}

type CheckInOutServiceOptions struct {
	DB           *gorm.DB
	Logger       logger.Logger
	KeyCards     *KeyCardService
	Overstay     *OverstayService
	InvoiceSync  *InvoiceSyncService
	Housekeeping *HousekeepingService
	Notifier     notification.Service
	Settings     *SettingsCache
	Production   bool
}

func NewCheckInOutService(opts CheckInOutServiceOptions) *CheckInOutService {
	return &CheckInOutService{
		db:           opts.DB,
		logger:       opts.Logger,
		keyCards:     opts.KeyCards,
		overstay:     opts.Overstay,
		invoiceSync:  opts.InvoiceSync,
		housekeeping: opts.Housekeeping,
		notifier:     opts.Notifier,
		settings:     opts.Settings,
		production:   opts.Production,
		nowFn:        time.Now,
	}
}

// CheckInParams tham số nhận phòng
type CheckInParams struct {
	BookingID      uint
	GuestID        uint
	RoomID         uint
	Actor          string
	SelfService    bool
	DocumentType   string
	DocumentNumber string
	DocumentImages json.RawMessage
	Preferences    json.RawMessage
}

// CheckIn thực hiện nhận phòng cho khách (lễ tân hoặc tự phục vụ).
// Thứ tự: validate -> cấp thẻ -> lưu stay -> phòng -> booking -> hóa đơn.
// Không có transaction phân tán: mỗi bước tự persist, cấp thẻ có bù trừ
// khi lưu stay thất bại, phần còn lại dựa vào sweep định kỳ.
func (s *CheckInOutService) CheckIn(params CheckInParams) (*models.CheckInOut, error) {
	var booking models.Booking
	if err := s.db.Preload("Room").First(&booking, params.BookingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được booking", err)
	}

	guestID := params.GuestID
	if params.SelfService {
		if booking.UserID == nil || *booking.UserID != params.GuestID {
			return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "Booking không thuộc về khách này", nil)
		}
	} else if booking.UserID != nil {
		// lễ tân nhận phòng hộ: người lưu trú là khách của booking,
		// không phải tài khoản nhân viên đang thao tác
		guestID = *booking.UserID
	}

	if !booking.CanCheckIn(params.SelfService) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus,
			fmt.Sprintf("Trạng thái booking %d không cho phép nhận phòng", booking.Status), nil)
	}

	now := s.nowFn()
	if err := s.checkDateWindow(&booking, now); err != nil {
		return nil, err
	}

	var room models.Room
	if err := s.db.First(&room, booking.RoomID).Error; err != nil {
		return nil, errors.ErrRoomNotFound
	}
	if room.Status != constants.RoomStatusAvailable {
		return nil, errors.ErrRoomNotAvailable
	}

	// lấy bản ghi pre_checkin do synchronizer tạo; thiếu thì tạo mới
	var stay models.CheckInOut
	err := s.db.Where("booking_id = ? AND status IN ?", booking.ID,
		[]models.StayStatus{models.StayStatusPreCheckIn, models.StayStatusCheckedIn}).
		First(&stay).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		stay = models.CheckInOut{
			BookingID: booking.ID,
			UserID:    guestID,
			RoomID:    booking.RoomID,
			Status:    models.StayStatusPreCheckIn,
		}
		if err := s.db.Create(&stay).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không tạo được bản ghi lưu trú", err)
		}
	case err != nil:
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được bản ghi lưu trú", err)
	case stay.Status == models.StayStatusCheckedIn:
		return nil, errors.ErrStayExists
	case params.SelfService && stay.UserID != 0 && stay.UserID != guestID:
		return nil, errors.NewAppError(errors.ErrCodeUnauthorized, "Bản ghi lưu trú không thuộc về khách này", nil)
	}

	card, err := s.keyCards.Allocate(guestID, booking.RoomID, EndOfDay(booking.CheckOutDate))
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":            models.StayStatusCheckedIn,
		"user_id":           guestID,
		"key_card_id":       card.ID,
		"check_in_time":     now,
		"checked_in_by":     params.Actor,
		"document_type":     params.DocumentType,
		"document_number":   params.DocumentNumber,
		"document_images":   params.DocumentImages,
		"document_verified": params.SelfService, // tự phục vụ auto-verify, không qua lễ tân
		"preferences":       params.Preferences,
	}
	if err := s.db.Model(&models.CheckInOut{}).Where("id = ?", stay.ID).Updates(updates).Error; err != nil {
		// bù trừ: trả thẻ về pool, tránh thẻ active mồ côi
		if relErr := s.keyCards.Release(card, "system"); relErr != nil {
			s.logger.Error("Không thu hồi được thẻ %d sau khi lưu stay thất bại: %v", card.ID, relErr)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không lưu được bản ghi nhận phòng", err)
	}

	if err := s.db.Model(&models.Room{}).Where("room_id = ?", room.RoomId).
		Update("status", constants.RoomStatusBooked).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được trạng thái phòng", err)
	}

	state := models.GetBookingState(booking.Status)
	if err := state.CheckIn(&booking); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus, err.Error(), nil)
	}
	if err := s.db.Save(&booking).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không lưu được booking", err)
	}

	// các bước sau best-effort, nhận phòng đã xong thì không rollback
	if err := s.invoiceSync.RefreshAfterStay(booking.ID); err != nil {
		s.logger.Error("Không đồng bộ được hóa đơn sau nhận phòng booking %d: %v", booking.ID, err)
	}
	s.notify(guestID, notification.TypeCheckInDone,
		fmt.Sprintf("Nhận phòng thành công, phòng %s", room.RoomName), stay.ID)

	var out models.CheckInOut
	if err := s.db.Preload("Booking").Preload("Room").Preload("KeyCard").First(&out, stay.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckOut trả phòng. Đánh giá quá hạn trước mọi mutation: còn phụ thu
// chưa gỡ thì trả về PaymentRequiredError, khách thanh toán xong thử lại.
func (s *CheckInOutService) CheckOut(stayID uint, actor string) (*models.CheckInOut, error) {
	var stay models.CheckInOut
	if err := s.db.Preload("Booking").First(&stay, stayID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStayNotFound
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không đọc được bản ghi lưu trú", err)
	}
	if stay.Status != models.StayStatusCheckedIn {
		return nil, errors.ErrStayNotCheckedIn
	}

	var room models.Room
	if err := s.db.First(&room, stay.RoomID).Error; err != nil {
		return nil, errors.ErrRoomNotFound
	}

	now := s.nowFn()
	days, amount, _ := ComputeOverstay(&stay.Booking, room.Price, s.overstay.multiplier(), now)
	if days > 0 {
		if !stay.Overstay.Detected {
			invoice, err := s.overstay.CreateOverstayInvoice(&stay, days, amount)
			if err != nil {
				return nil, err
			}
			return nil, &errors.PaymentRequiredError{
				InvoiceID:      invoice.ID,
				Amount:         amount,
				DaysOverstayed: days,
			}
		}
		if !stay.Overstay.CanCheckout {
			// khách ở thêm từ lần phát hiện trước thì hóa đơn lớn lên theo
			invoice, err := s.overstay.UpdateOverstayInvoice(&stay, days, amount)
			if err != nil {
				return nil, err
			}
			return nil, &errors.PaymentRequiredError{
				InvoiceID:      invoice.ID,
				Amount:         invoice.TotalAmount,
				DaysOverstayed: invoice.OverstayTracking.AccumulatedDays,
			}
		}
	}

	updates := map[string]interface{}{
		"status":         models.StayStatusCheckedOut,
		"check_out_time": now,
		"checked_out_by": actor,
	}
	if stay.Overstay.Detected {
		updates["overstay_actual_checkout"] = now
	}
	result := s.db.Model(&models.CheckInOut{}).
		Where("id = ? AND status = ?", stay.ID, models.StayStatusCheckedIn).
		Updates(updates)
	if result.Error != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không lưu được trả phòng", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.ErrStayNotCheckedIn
	}

	// thu hồi thẻ: ưu tiên tham chiếu trực tiếp, hỏng thì fallback
	released := false
	if stay.KeyCardID != nil {
		var card models.KeyCard
		if err := s.db.First(&card, *stay.KeyCardID).Error; err == nil && card.Status == models.KeyCardStatusActive {
			if err := s.keyCards.Release(&card, actor); err != nil {
				s.logger.Error("Không thu hồi được thẻ %d: %v", card.ID, err)
			} else {
				released = true
			}
		}
	}
	if !released {
		if err := s.keyCards.FallbackRelease(stay.UserID, stay.RoomID, actor); err != nil {
			s.logger.Error("Fallback release thất bại cho khách %d phòng %d: %v", stay.UserID, stay.RoomID, err)
		}
	}

	booking := stay.Booking
	isEarly := now.Before(booking.CheckOutDate)
	state := models.GetBookingState(booking.Status)
	if err := state.Complete(&booking); err != nil {
		s.logger.Error("Booking %d không chuyển được sang Completed: %v", booking.ID, err)
	} else {
		if isEarly {
			// khách trả sớm: ghi lại thời điểm trả thật lên booking
			booking.CheckOutDate = now
		}
		if err := s.db.Save(&booking).Error; err != nil {
			return nil, errors.NewAppError(errors.ErrCodeDBError, "Không lưu được booking", err)
		}
	}

	roomStatus := constants.RoomStatusCleaning
	if isEarly {
		roomStatus = constants.RoomStatusAvailable
	}
	if err := s.db.Model(&models.Room{}).Where("room_id = ?", room.RoomId).
		Update("status", roomStatus).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Không cập nhật được trạng thái phòng", err)
	}

	if err := s.invoiceSync.RefreshAfterStay(booking.ID); err != nil {
		s.logger.Error("Không đồng bộ được hóa đơn sau trả phòng booking %d: %v", booking.ID, err)
	}

	// luôn tạo task dọn phòng, kể cả trả sớm
	if _, err := s.housekeeping.CreateCleaningTask(room.RoomId, &stay.ID); err != nil {
		s.logger.Error("Không tạo được task dọn phòng %d: %v", room.RoomId, err)
	}

	s.notify(stay.UserID, notification.TypeCheckOutDone, "Trả phòng thành công, hẹn gặp lại", stay.ID)

	var out models.CheckInOut
	if err := s.db.Preload("Booking").Preload("Room").First(&out, stay.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkNoShow đánh dấu khách không đến cho bản ghi pre_checkin
func (s *CheckInOutService) MarkNoShow(stayID uint, actor string) error {
	result := s.db.Model(&models.CheckInOut{}).
		Where("id = ? AND status = ?", stayID, models.StayStatusPreCheckIn).
		Update("status", models.StayStatusNoShow)
	if result.Error != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Không đánh dấu được no-show", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, "Bản ghi không ở trạng thái pre_checkin", nil)
	}
	s.logger.Info("Stay %d bị đánh dấu no-show bởi %s", stayID, actor)
	return nil
}

// AddNote thêm ghi chú tự do lên bản ghi lưu trú
func (s *CheckInOutService) AddNote(stayID uint, author, content string) (*models.StayNote, error) {
	if content == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Nội dung ghi chú không được để trống", nil)
	}
	var count int64
	if err := s.db.Model(&models.CheckInOut{}).Where("id = ?", stayID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.ErrStayNotFound
	}
	note := models.StayNote{CheckInOutID: stayID, Author: author, Content: content}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// GetStay đọc bản ghi lưu trú kèm liên kết
func (s *CheckInOutService) GetStay(stayID uint) (*models.CheckInOut, error) {
	var stay models.CheckInOut
	err := s.db.Preload("Booking").Preload("Room").Preload("KeyCard").Preload("Notes").
		First(&stay, stayID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStayNotFound
		}
		return nil, err
	}
	return &stay, nil
}

// checkDateWindow kiểm tra ngày hiện tại nằm trong [checkIn, checkOut]
// theo độ chính xác ngày. Flag bỏ qua chỉ có tác dụng ngoài production
// và mỗi lần dùng đều được log vì đây là bypass nhạy cảm.
func (s *CheckInOutService) checkDateWindow(booking *models.Booking, now time.Time) error {
	if !s.production && s.settings != nil {
		settings, err := s.settings.Get(context.Background())
		if err == nil && settings.SkipDateValidation {
			s.logger.Warn("Bỏ qua kiểm tra ngày nhận phòng cho booking %d (skip_date_validation bật, môi trường không phải production)", booking.ID)
			return nil
		}
	}

	truncate := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	today := truncate(now)
	start := truncate(booking.CheckInDate)
	end := truncate(booking.CheckOutDate)
	if today.Before(start) || today.After(end) {
		return errors.NewAppError(errors.ErrCodeOutsideWindow,
			fmt.Sprintf("Hôm nay %s nằm ngoài khoảng lưu trú %s - %s",
				today.Format("02/01/2006"), start.Format("02/01/2006"), end.Format("02/01/2006")), nil)
	}
	return nil
}

func (s *CheckInOutService) notify(userID uint, notifType, message string, stayID uint) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(userID, notifType, "push", message, map[string]interface{}{"stayId": stayID}); err != nil {
		s.logger.Error("Không gửi được thông báo %s cho khách %d: %v", notifType, userID, err)
	}
}
